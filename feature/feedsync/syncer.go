package feedsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-sync/core/booking"
	"booking-sync/core/feed"
	"booking-sync/core/storage"
	"booking-sync/core/store"
	"booking-sync/core/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FailureReason classifies why a source failed to sync.
type FailureReason string

const (
	ReasonTimeout FailureReason = "timeout"
	ReasonHTTP    FailureReason = "http"
	ReasonNetwork FailureReason = "network"
	ReasonStore   FailureReason = "store"
	ReasonParse   FailureReason = "parse"
)

// SourceStatus is the outcome of syncing one feed.
type SourceStatus struct {
	Platform booking.Channel `json:"platform"`
	OK       bool            `json:"ok"`
	Reason   FailureReason   `json:"reason,omitempty"`
	Error    string          `json:"error,omitempty"`
	Events   int             `json:"events"`
	Stays    int             `json:"stays"`
	Snapshot string          `json:"snapshot,omitempty"`
}

// Report aggregates one sync run.
type Report struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Sources    []SourceStatus `json:"sources"`
}

// OK reports whether every source synced.
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the platforms that failed, in configuration order.
func (r Report) Failed() []booking.Channel {
	var out []booking.Channel
	for _, s := range r.Sources {
		if !s.OK {
			out = append(out, s.Platform)
		}
	}
	return out
}

// Message is empty when every source synced. Otherwise it names the failed
// platforms, or summarizes when three or more failed.
func (r Report) Message() string {
	failed := r.Failed()
	switch len(failed) {
	case 0:
		return ""
	case 1:
		return failed[0].DisplayName() + " sync failed"
	case 2:
		return failed[0].DisplayName() + " and " + failed[1].DisplayName() + " sync failed"
	default:
		return "Multiple sources failed to sync"
	}
}

// Syncer imports every configured calendar feed into the external store.
type Syncer struct {
	feeds    []booking.FeedDescriptor
	source   feed.Source
	parser   *feed.Parser
	store    store.ExternalStore
	archiver *storage.Archiver
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSyncer creates a syncer. archiver may be nil to skip snapshots.
func NewSyncer(feeds []booking.FeedDescriptor, source feed.Source, parser *feed.Parser, st store.ExternalStore, archiver *storage.Archiver, timeout time.Duration, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Syncer{
		feeds:    feeds,
		source:   source,
		parser:   parser,
		store:    st,
		archiver: archiver,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Feeds returns the configured feeds.
func (s *Syncer) Feeds() []booking.FeedDescriptor { return s.feeds }

// Sync fetches all feeds concurrently. A failing feed never affects the
// others; its previous rows stay in the store.
func (s *Syncer) Sync(ctx context.Context) Report {
	ctx, span := telemetry.Start(ctx, "feedsync.Sync", attribute.Int("feeds", len(s.feeds)))
	defer span.End()

	report := Report{StartedAt: s.now(), Sources: make([]SourceStatus, len(s.feeds))}

	// Tasks never return an error so one source cannot cancel another.
	var g errgroup.Group
	for i, fd := range s.feeds {
		g.Go(func() error {
			report.Sources[i] = s.syncOne(ctx, fd)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = s.now()
	if msg := report.Message(); msg != "" {
		span.SetAttributes(attribute.String("sync.message", msg))
	}
	return report
}

func (s *Syncer) syncOne(ctx context.Context, fd booking.FeedDescriptor) SourceStatus {
	status := SourceStatus{Platform: fd.Platform}
	l := s.logger.With(zap.String("platform", string(fd.Platform)))

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	body, err := s.source.FetchRaw(fetchCtx, fd.URL)
	cancel()
	if err != nil {
		status.Reason = classify(err)
		status.Error = err.Error()
		l.Warn("Feed fetch failed", zap.String("reason", string(status.Reason)), zap.Error(err))
		return status
	}

	if s.archiver != nil {
		key, err := s.archiver.Put(ctx, fd.Platform, s.now(), body)
		if err != nil {
			l.Warn("Failed to archive feed snapshot", zap.Error(err))
		} else {
			status.Snapshot = key
		}
	}

	// A non-calendar body would otherwise replace real blocks with nothing.
	if !feed.IsCalendar(body) {
		status.Reason = ReasonParse
		status.Error = "response is not an iCalendar document"
		l.Warn("Feed body rejected", zap.String("reason", string(status.Reason)), zap.Int("bytes", len(body)))
		return status
	}

	events := s.parser.Parse(body, fd.Platform)
	stays := feed.Synthesize(events)
	status.Events = len(events)
	status.Stays = len(stays)

	if err := s.store.Replace(ctx, fd.Platform, stays); err != nil {
		status.Reason = ReasonStore
		status.Error = err.Error()
		l.Error("Failed to store external stays", zap.Error(err))
		return status
	}

	status.OK = true
	l.Info("Feed synced", zap.Int("events", status.Events), zap.Int("stays", status.Stays))
	return status
}

// classify maps a fetch error to a failure reason.
func classify(err error) FailureReason {
	var statusErr *feed.StatusError
	switch {
	case errors.Is(err, feed.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &statusErr):
		return ReasonHTTP
	default:
		return ReasonNetwork
	}
}

// String renders the report on one line per source for the CLI.
func (r Report) String() string {
	var b strings.Builder
	for _, s := range r.Sources {
		if s.OK {
			fmt.Fprintf(&b, "%-12s ok      events=%d stays=%d\n", s.Platform.DisplayName(), s.Events, s.Stays)
			continue
		}
		fmt.Fprintf(&b, "%-12s failed  reason=%s error=%s\n", s.Platform.DisplayName(), s.Reason, s.Error)
	}
	if msg := r.Message(); msg != "" {
		b.WriteString(msg + "\n")
	}
	return b.String()
}
