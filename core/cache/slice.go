package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads fresh data for a slice.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Slice caches one value of type T.
type Slice[T any] struct {
	name  string
	fetch Fetcher[T]
	clone func(T) T
	opts  options

	mu    sync.RWMutex
	state State[T]
	// generation increments on Clear so that fetches started before the
	// clear do not repopulate the slice.
	generation uint64

	group singleflight.Group
}

// NewSlice creates an empty slice. clone copies values handed to callers;
// nil means T is returned as is.
func NewSlice[T any](name string, fetch Fetcher[T], clone func(T) T, opts ...Option) *Slice[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Slice[T]{
		name:  name,
		fetch: fetch,
		clone: clone,
		opts:  buildOptions(opts),
		state: Empty[T]{},
	}
}

// Name returns the slice name.
func (s *Slice[T]) Name() string { return s.name }

// Get returns the cached value when fresh, otherwise fetches. With
// forceRefresh it always fetches and overwrites.
func (s *Slice[T]) Get(ctx context.Context, forceRefresh bool) (Result[T], error) {
	if !forceRefresh {
		if res, ok := s.fresh(); ok {
			return res, nil
		}
	}

	// The fetch outlives any single caller: others may be waiting on it.
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	// Keyed by generation so callers after a Clear never join an older fetch.
	fetchCtx := context.WithoutCancel(ctx)
	key := fmt.Sprintf("%s#%d", s.name, gen)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.load(fetchCtx, gen)
	})

	select {
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return Result[T]{}, out.Err
		}
		res := out.Val.(Result[T])
		res.Data = s.clone(res.Data)
		return res, nil
	}
}

// State returns the current state. Data inside is copied.
func (s *Slice[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch st := s.state.(type) {
	case Ready[T]:
		return Ready[T]{Data: s.clone(st.Data), FetchedAt: st.FetchedAt}
	case Loading[T]:
		return Loading[T]{Previous: s.cloneReady(st.Previous)}
	case Failed[T]:
		return Failed[T]{Reason: st.Reason, Err: st.Err, At: st.At, Stale: s.cloneReady(st.Stale)}
	default:
		return Empty[T]{}
	}
}

// Peek returns the last successful value regardless of age.
func (s *Slice[T]) Peek() (Result[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := lastReady[T](s.state)
	if r == nil {
		return Result[T]{}, false
	}
	_, failed := s.state.(Failed[T])
	return Result[T]{Data: s.clone(r.Data), FetchedAt: r.FetchedAt, Cached: true, Stale: failed}, true
}

// Clear resets the slice to Empty. In-flight fetches complete but their
// results are discarded.
func (s *Slice[T]) Clear() {
	s.mu.Lock()
	s.generation++
	s.transition(Empty[T]{})
	s.mu.Unlock()
}

// Subscribe streams this slice's transitions. Call cancel to stop.
func (s *Slice[T]) Subscribe() (<-chan Transition, func()) {
	return s.opts.hub.subscribe()
}

func (s *Slice[T]) fresh() (Result[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ready, ok := s.state.(Ready[T])
	if !ok || s.opts.now().Sub(ready.FetchedAt) >= s.opts.validity {
		return Result[T]{}, false
	}
	return Result[T]{Data: s.clone(ready.Data), FetchedAt: ready.FetchedAt, Cached: true}, true
}

// load runs one fetch. The returned Data is shared by every coalesced caller
// and must be cloned before it is handed out.
func (s *Slice[T]) load(ctx context.Context, gen uint64) (Result[T], error) {
	s.mu.Lock()
	if s.generation == gen {
		s.transition(Loading[T]{Previous: lastReady[T](s.state)})
	}
	s.mu.Unlock()

	data, err := s.fetch(ctx)
	now := s.opts.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.generation == gen

	if err != nil {
		var stale *Ready[T]
		if current {
			stale = lastReady[T](s.state)
			s.transition(Failed[T]{Reason: err.Error(), Err: err, At: now, Stale: stale})
		}
		s.opts.logger.Warn("Cache fetch failed",
			zap.String("slice", s.name),
			zap.Bool("stale_available", stale != nil),
			zap.Error(err))

		if stale == nil {
			return Result[T]{}, fmt.Errorf("%w: %s: %w", ErrNoData, s.name, err)
		}
		return Result[T]{Data: stale.Data, FetchedAt: stale.FetchedAt, Stale: true, Err: err}, nil
	}

	if current {
		s.transition(Ready[T]{Data: data, FetchedAt: now})
	}
	return Result[T]{Data: data, FetchedAt: now}, nil
}

// transition must be called with mu held.
func (s *Slice[T]) transition(next State[T]) {
	from := s.state.Kind()
	s.state = next
	s.opts.hub.publish(Transition{Slice: s.name, From: from, To: next.Kind(), At: s.opts.now()})
}

func (s *Slice[T]) cloneReady(r *Ready[T]) *Ready[T] {
	if r == nil {
		return nil
	}
	return &Ready[T]{Data: s.clone(r.Data), FetchedAt: r.FetchedAt}
}

// Age returns how long ago the current Ready value was fetched.
func (s *Slice[T]) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ready, ok := s.state.(Ready[T])
	if !ok {
		return 0, false
	}
	return s.opts.now().Sub(ready.FetchedAt), true
}
