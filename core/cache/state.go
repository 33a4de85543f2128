package cache

import (
	"errors"
	"time"
)

// ErrNoData is returned by Get when a fetch fails and no earlier data exists.
var ErrNoData = errors.New("no cached data")

// Kind names a state without its payload.
type Kind int

const (
	KindEmpty Kind = iota
	KindLoading
	KindReady
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLoading:
		return "loading"
	case KindReady:
		return "ready"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the sealed set of slice states. Consumers switch on the concrete
// type: Empty[T], Loading[T], Ready[T] or Failed[T].
type State[T any] interface {
	Kind() Kind
	sealed()
}

// Empty is the initial state.
type Empty[T any] struct{}

// Loading marks an in-flight fetch.
type Loading[T any] struct {
	// Previous is the last successful value, if any.
	Previous *Ready[T]
}

// Ready holds fetched data.
type Ready[T any] struct {
	Data      T
	FetchedAt time.Time
}

// Failed records the last fetch error.
type Failed[T any] struct {
	Reason string
	Err    error
	At     time.Time
	// Stale is the last successful value, if any.
	Stale *Ready[T]
}

func (Empty[T]) Kind() Kind   { return KindEmpty }
func (Loading[T]) Kind() Kind { return KindLoading }
func (Ready[T]) Kind() Kind   { return KindReady }
func (Failed[T]) Kind() Kind  { return KindFailed }

func (Empty[T]) sealed()   {}
func (Loading[T]) sealed() {}
func (Ready[T]) sealed()   {}
func (Failed[T]) sealed()  {}

// lastReady returns the most recent successful value carried by st.
func lastReady[T any](st State[T]) *Ready[T] {
	switch s := st.(type) {
	case Ready[T]:
		return &s
	case Loading[T]:
		return s.Previous
	case Failed[T]:
		return s.Stale
	case Empty[T]:
		return nil
	default:
		return nil
	}
}

// Result is what Get hands back to callers.
type Result[T any] struct {
	Data      T
	FetchedAt time.Time
	// Cached is true when no fetch was needed.
	Cached bool
	// Stale is true when the latest fetch failed and Data is older.
	Stale bool
	// Err is the fetch error behind a stale result.
	Err error
}

// Transition is published on every state change.
type Transition struct {
	Slice string
	From  Kind
	To    Kind
	At    time.Time
}
