package feedsync

import (
	"context"
	"testing"
	"time"

	"booking-sync/core/booking"
	"booking-sync/core/cache"
	"booking-sync/core/database"
	"booking-sync/core/notify"
	"booking-sync/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kolkata = time.FixedZone("IST", 5*60*60+30*60)

func setupState(t *testing.T) *store.SyncStateStore {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.NewSyncStateStore(db)
}

func TestNewSchedule(t *testing.T) {
	sched, err := NewSchedule(9, 21, kolkata)
	require.NoError(t, err)

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"before first", time.Date(2025, 1, 10, 8, 0, 0, 0, kolkata), time.Date(2025, 1, 10, 9, 0, 0, 0, kolkata)},
		{"at first", time.Date(2025, 1, 10, 9, 0, 0, 0, kolkata), time.Date(2025, 1, 10, 21, 0, 0, 0, kolkata)},
		{"after second", time.Date(2025, 1, 10, 21, 30, 0, 0, kolkata), time.Date(2025, 1, 11, 9, 0, 0, 0, kolkata)},
		{"utc input", time.Date(2025, 1, 10, 4, 0, 0, 0, time.UTC), time.Date(2025, 1, 10, 21, 0, 0, 0, kolkata)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(sched.Next(tt.from)), "got %s", sched.Next(tt.from))
		})
	}

	_, err = NewSchedule(9, 25, kolkata)
	assert.Error(t, err)
}

func newTestScheduler(t *testing.T, st *memStore, state StateStore, runOnStart bool) (*Scheduler, *cache.Store, *notify.Recorder) {
	t.Helper()
	sched, err := NewSchedule(9, 21, kolkata)
	require.NoError(t, err)

	cs := cache.NewStore(
		func(context.Context) ([]booking.Stay, error) { return nil, nil },
		st.List,
		func(context.Context, booking.Month) ([]booking.CalendarDay, error) { return nil, nil },
	)
	rec := &notify.Recorder{}
	s := NewScheduler(newTestSyncer(okSource(), st, nil), SchedulerOptions{
		Schedule:   sched,
		State:      state,
		Cache:      cs,
		Publisher:  rec,
		RunOnStart: runOnStart,
	})
	return s, cs, rec
}

func TestScheduler_RunNow(t *testing.T) {
	st := newMemStore()
	state := setupState(t)
	s, cs, rec := newTestScheduler(t, st, state, false)
	ctx := context.Background()

	_, ok := s.Last()
	assert.False(t, ok)

	report := s.RunNow(ctx)
	assert.True(t, report.OK())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, report.StartedAt, last.StartedAt)

	assert.Equal(t, []string{notify.KeySyncCompleted}, rec.Keys())

	ext, ok := cs.External.Peek()
	require.True(t, ok)
	assert.Len(t, ext.Data, 3)

	saved, found, err := state.Load(ctx, StateName)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, saved.LastOK)
	assert.True(t, saved.NextDueAt.After(time.Now()))
}

func TestScheduler_PublishesFailure(t *testing.T) {
	st := newMemStore()
	st.failPlat = booking.ChannelAirbnb
	s, _, rec := newTestScheduler(t, st, nil, false)

	report := s.RunNow(context.Background())

	assert.Equal(t, "Airbnb sync failed", report.Message())
	assert.Equal(t, []string{notify.KeySyncFailed}, rec.Keys())
}

func TestScheduler_FirstDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, kolkata)

	t.Run("Cold start", func(t *testing.T) {
		s, _, _ := newTestScheduler(t, newMemStore(), nil, true)
		s.now = func() time.Time { return now }
		assert.Equal(t, now, s.firstDue(ctx))
	})

	t.Run("Missed tick", func(t *testing.T) {
		state := setupState(t)
		require.NoError(t, state.Save(ctx, store.SyncState{Name: StateName, NextDueAt: now.Add(-3 * time.Hour)}))

		s, _, _ := newTestScheduler(t, newMemStore(), state, false)
		s.now = func() time.Time { return now }
		assert.Equal(t, now, s.firstDue(ctx))
	})

	t.Run("Persisted future tick", func(t *testing.T) {
		state := setupState(t)
		due := time.Date(2025, 1, 10, 21, 0, 0, 0, kolkata)
		require.NoError(t, state.Save(ctx, store.SyncState{Name: StateName, NextDueAt: due}))

		s, _, _ := newTestScheduler(t, newMemStore(), state, false)
		s.now = func() time.Time { return now }
		assert.True(t, due.Equal(s.firstDue(ctx)))
	})

	t.Run("No state", func(t *testing.T) {
		s, _, _ := newTestScheduler(t, newMemStore(), nil, false)
		s.now = func() time.Time { return now }
		assert.True(t, time.Date(2025, 1, 10, 21, 0, 0, 0, kolkata).Equal(s.firstDue(ctx)))
	})
}

func TestScheduler_StartAndTrigger(t *testing.T) {
	s, _, rec := newTestScheduler(t, newMemStore(), nil, true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return len(rec.Keys()) == 1 }, 2*time.Second, 10*time.Millisecond)

	s.Trigger()
	assert.Eventually(t, func() bool { return len(rec.Keys()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, s.Next().IsZero())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_StartPersistsNextDue(t *testing.T) {
	state := setupState(t)
	lastRun := time.Date(2025, 1, 10, 9, 0, 5, 0, time.UTC)
	require.NoError(t, state.Save(context.Background(), store.SyncState{
		Name:        StateName,
		LastRunAt:   &lastRun,
		NextDueAt:   time.Now().Add(time.Hour),
		LastOK:      false,
		LastMessage: "Airbnb sync failed",
	}))

	s, _, rec := newTestScheduler(t, newMemStore(), state, false)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return !s.Next().IsZero() }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	saved, found, err := state.Load(context.Background(), StateName)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, s.Next().Equal(saved.NextDueAt), "saved %s, scheduled %s", saved.NextDueAt, s.Next())
	assert.Equal(t, "Airbnb sync failed", saved.LastMessage)
	require.NotNil(t, saved.LastRunAt)
	assert.True(t, lastRun.Equal(*saved.LastRunAt))
	assert.Empty(t, rec.Keys())
}

func TestScheduler_StartWithoutStatePersistsScheduledTick(t *testing.T) {
	state := setupState(t)
	s, _, rec := newTestScheduler(t, newMemStore(), state, false)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return !s.Next().IsZero() }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	saved, found, err := state.Load(context.Background(), StateName)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, saved.NextDueAt.After(time.Now()))
	assert.True(t, s.Next().Equal(saved.NextDueAt))
	assert.Nil(t, saved.LastRunAt)
	assert.Empty(t, rec.Keys())
}
