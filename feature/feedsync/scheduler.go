package feedsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booking-sync/core/cache"
	"booking-sync/core/notify"
	"booking-sync/core/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StateName is the sync_states row used by the scheduler.
const StateName = "feed_sync"

// StateStore persists the scheduler's progress.
type StateStore interface {
	Load(ctx context.Context, name string) (store.SyncState, bool, error)
	Save(ctx context.Context, st store.SyncState) error
}

// NewSchedule returns the twice-daily schedule "0 h1,h2 * * *" evaluated in loc.
func NewSchedule(firstHour, secondHour int, loc *time.Location) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(fmt.Sprintf("0 %d,%d * * *", firstHour, secondHour))
	if err != nil {
		return nil, fmt.Errorf("invalid sync hours %d,%d: %w", firstHour, secondHour, err)
	}
	if spec, ok := sched.(*cron.SpecSchedule); ok && loc != nil {
		spec.Location = loc
	}
	return sched, nil
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	Schedule   cron.Schedule
	State      StateStore
	Cache      *cache.Store
	Publisher  notify.Publisher
	RunOnStart bool
	Logger     *zap.Logger
}

// Scheduler runs the syncer on a wall-clock schedule and on demand.
type Scheduler struct {
	syncer     *Syncer
	schedule   cron.Schedule
	state      StateStore
	cache      *cache.Store
	publisher  notify.Publisher
	runOnStart bool
	logger     *zap.Logger
	now        func() time.Time

	trigger chan struct{}
	runMu   sync.Mutex

	mu   sync.RWMutex
	last *Report
	next time.Time
}

// NewScheduler creates a scheduler. State, Cache and Publisher are optional.
func NewScheduler(syncer *Syncer, opts SchedulerOptions) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Publisher == nil {
		opts.Publisher = notify.Nop{}
	}
	return &Scheduler{
		syncer:     syncer,
		schedule:   opts.Schedule,
		state:      opts.State,
		cache:      opts.Cache,
		publisher:  opts.Publisher,
		runOnStart: opts.RunOnStart,
		logger:     opts.Logger,
		now:        time.Now,
		trigger:    make(chan struct{}, 1),
	}
}

// Start runs the scheduler until ctx is cancelled. It returns nil on
// cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	due := s.firstDue(ctx)
	if due.After(s.now()) {
		s.saveDue(ctx, due)
	}
	s.logger.Info("Feed sync scheduler started", zap.Time("next_run", due))

	for {
		s.setNext(due)
		timer := time.NewTimer(time.Until(due))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Feed sync scheduler stopped")
			return nil
		case <-timer.C:
			s.RunNow(ctx)
		case <-s.trigger:
			timer.Stop()
			s.RunNow(ctx)
		}

		due = s.schedule.Next(s.now())
	}
}

// firstDue decides when the first run happens after a (re)start.
func (s *Scheduler) firstDue(ctx context.Context) time.Time {
	now := s.now()
	if s.runOnStart {
		return now
	}
	if s.state != nil {
		st, ok, err := s.state.Load(ctx, StateName)
		if err != nil {
			s.logger.Warn("Failed to load sync state", zap.Error(err))
		}
		if ok && !st.NextDueAt.After(now) {
			s.logger.Info("Missed scheduled sync, running now", zap.Time("due", st.NextDueAt))
			return now
		}
		if ok {
			return st.NextDueAt
		}
	}
	return s.schedule.Next(now)
}

// Trigger requests a run without waiting for it. Requests made while a run
// is pending are merged.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// RunNow syncs immediately and blocks until done. Concurrent calls are
// serialized.
func (s *Scheduler) RunNow(ctx context.Context) Report {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	report := s.syncer.Sync(ctx)

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	if s.cache != nil {
		if _, err := s.cache.External.Get(ctx, true); err != nil {
			s.logger.Warn("Failed to refresh external bookings after sync", zap.Error(err))
		}
		s.cache.InvalidateAvailability()
	}

	key := notify.KeySyncCompleted
	if !report.OK() {
		key = notify.KeySyncFailed
	}
	if err := s.publisher.Publish(ctx, key, report); err != nil {
		s.logger.Warn("Failed to publish sync event", zap.String("key", key), zap.Error(err))
	}

	s.persist(ctx, report)

	if msg := report.Message(); msg != "" {
		s.logger.Warn("Feed sync finished with failures", zap.String("message", msg))
	} else {
		s.logger.Info("Feed sync finished", zap.Int("sources", len(report.Sources)))
	}
	return report
}

func (s *Scheduler) persist(ctx context.Context, report Report) {
	if s.state == nil {
		return
	}
	finished := report.FinishedAt
	err := s.state.Save(ctx, store.SyncState{
		Name:        StateName,
		LastRunAt:   &finished,
		NextDueAt:   s.schedule.Next(s.now()),
		LastOK:      report.OK(),
		LastMessage: report.Message(),
	})
	if err != nil {
		s.logger.Warn("Failed to save sync state", zap.Error(err))
	}
}

// saveDue records due as the next run, keeping the last run's outcome.
func (s *Scheduler) saveDue(ctx context.Context, due time.Time) {
	if s.state == nil {
		return
	}
	st, _, err := s.state.Load(ctx, StateName)
	if err != nil {
		s.logger.Warn("Failed to load sync state", zap.Error(err))
		return
	}
	st.Name = StateName
	st.NextDueAt = due
	if err := s.state.Save(ctx, st); err != nil {
		s.logger.Warn("Failed to save sync state", zap.Error(err))
	}
}

// Last returns the most recent report.
func (s *Scheduler) Last() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Report{}, false
	}
	return *s.last, true
}

// Next returns the time of the next scheduled run, zero before Start.
func (s *Scheduler) Next() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.next
}

func (s *Scheduler) setNext(t time.Time) {
	s.mu.Lock()
	s.next = t
	s.mu.Unlock()
}
