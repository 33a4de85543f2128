package cache

import (
	"time"

	"go.uber.org/zap"
)

// DefaultValidity is how long fetched data is served without refetching.
const DefaultValidity = 120 * time.Minute

type options struct {
	validity time.Duration
	now      func() time.Time
	logger   *zap.Logger
	hub      *hub
}

// Option configures a Slice or Store.
type Option func(*options)

// WithValidity sets the freshness window. Non-positive values keep the default.
func WithValidity(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.validity = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		validity: DefaultValidity,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hub == nil {
		o.hub = newHub()
	}
	return o
}

func withHub(h *hub) Option {
	return func(o *options) { o.hub = h }
}
