package calendar

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"booking-sync/core/booking"
	"booking-sync/core/cache"
	"booking-sync/core/database"
	"booking-sync/core/pricing"
	"booking-sync/core/reservations"
	"booking-sync/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReservations struct {
	mu       sync.Mutex
	stays    []booking.Stay
	err      error
	calls    atomic.Int32
	accepted []string
	declined []string
}

func (f *fakeReservations) FetchAll(context.Context, *booking.StayStatus, *booking.Date) ([]booking.Stay, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return booking.CloneStays(f.stays), nil
}

func (f *fakeReservations) FetchByID(_ context.Context, id string) (booking.Stay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stays {
		if s.ID == id {
			return s, nil
		}
	}
	return booking.Stay{}, &reservations.APIError{Method: "GET", Path: "/reservations/" + id, StatusCode: 404}
}

func (f *fakeReservations) Accept(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = append(f.accepted, id)
	return nil
}

func (f *fakeReservations) Decline(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declined = append(f.declined, id)
	return nil
}

type fakeExternal struct {
	mu    sync.Mutex
	stays []booking.Stay
	err   error
}

func (f *fakeExternal) Replace(_ context.Context, platform booking.Channel, stays []booking.Stay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.stays[:0]
	for _, s := range f.stays {
		if s.Channel != platform {
			kept = append(kept, s)
		}
	}
	f.stays = append(kept, stays...)
	return nil
}

func (f *fakeExternal) List(context.Context) ([]booking.Stay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return booking.CloneStays(f.stays), nil
}

func (f *fakeExternal) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func jan(d int) booking.Date { return booking.NewDate(2025, time.January, d) }

func fixtures() ([]booking.Stay, []booking.Stay) {
	direct := []booking.Stay{
		{
			ID: "r-1", Channel: booking.ChannelDirect, Status: booking.StatusApproved,
			CheckIn: jan(5), CheckOut: jan(8), GuestName: "Ravi", GuestCount: 4,
			Room: &booking.RoomRef{ID: "room-1", Type: booking.RoomNonAC, Count: 1}, PaidAmount: 6750,
		},
		{
			ID: "r-2", Channel: booking.ChannelWebsite, Status: booking.StatusPending,
			CheckIn: jan(25), CheckOut: jan(27), GuestName: "Mira", GuestCount: 2,
		},
	}
	external := []booking.Stay{
		{ID: "abnb-echo", Channel: booking.ChannelAirbnb, Status: booking.StatusBlocked, CheckIn: jan(7), CheckOut: jan(9), Summary: "Reserved"},
		{ID: "abnb-jane", Channel: booking.ChannelAirbnb, Status: booking.StatusBlocked, CheckIn: jan(10), CheckOut: jan(12), Summary: "Reservation — Jane Doe", GuestName: "Jane Doe"},
		{ID: "bdc-dup", Channel: booking.ChannelBookingDotCom, Status: booking.StatusBlocked, CheckIn: jan(10), CheckOut: jan(12), Summary: "Not available"},
	}
	return direct, external
}

func setupMarks(t *testing.T) *store.MarkStore {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.NewMarkStore(db)
}

func setupService(t *testing.T) (*Service, *fakeReservations, *fakeExternal) {
	t.Helper()
	direct, external := fixtures()
	res := &fakeReservations{stays: direct}
	ext := &fakeExternal{stays: external}
	svc := NewService(res, ext, setupMarks(t), pricing.NewCalculator(pricing.DefaultRates()), time.UTC, zap.NewNop())
	return svc, res, ext
}

func stayIDs(stays []booking.Stay) []string {
	out := make([]string, len(stays))
	for i, s := range stays {
		out[i] = s.ID
	}
	return out
}

func TestService_GetAllReservations(t *testing.T) {
	svc, _, _ := setupService(t)

	all, err := svc.GetAllReservations(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"r-1", "abnb-jane", "r-2"}, stayIDs(all.Stays))
	assert.Equal(t, 1, all.Summary.EchoesDropped)
	assert.Equal(t, 1, all.Summary.DuplicatesDropped)
	assert.False(t, all.Stale)
}

func TestService_GetReservationsCaches(t *testing.T) {
	svc, res, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.GetReservations(ctx, false)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.GetReservations(ctx, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int32(1), res.calls.Load())

	_, err = svc.GetReservations(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), res.calls.Load())
}

func TestService_GetAvailability(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	month := booking.Month{Year: 2025, Month: time.January}

	_, err := svc.UpdateMarks(ctx, MarkUpdate{From: jan(20), To: jan(20), Status: booking.MarkClosed})
	require.NoError(t, err)

	r, err := svc.GetAvailability(ctx, month, false)
	require.NoError(t, err)
	require.Len(t, r.Data, 31)

	assert.Equal(t, booking.DayDirectBooked, r.Data[4].Status)
	assert.Equal(t, booking.DayDirectBooked, r.Data[6].Status)
	assert.Equal(t, booking.DayOpen, r.Data[7].Status, "check-out day is free")
	assert.Equal(t, booking.DayExternalBooked, r.Data[9].Status)
	assert.Equal(t, booking.ChannelAirbnb, r.Data[9].Platform)
	assert.Equal(t, booking.DayAdminBlocked, r.Data[19].Status)
	assert.Equal(t, booking.DayOpen, r.Data[24].Status, "pending stay does not book")
}

func TestService_UpdateMarksInvalidatesMonth(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	month := booking.Month{Year: 2025, Month: time.January}

	r, err := svc.GetAvailability(ctx, month, false)
	require.NoError(t, err)
	assert.Equal(t, booking.DayOpen, r.Data[14].Status)

	months, err := svc.UpdateMarks(ctx, MarkUpdate{From: jan(15), To: jan(16), Status: booking.MarkClosed})
	require.NoError(t, err)
	assert.Equal(t, []booking.Month{month}, months)

	r, err = svc.GetAvailability(ctx, month, false)
	require.NoError(t, err)
	assert.False(t, r.Cached)
	assert.Equal(t, booking.DayAdminBlocked, r.Data[14].Status)
	assert.Equal(t, booking.DayAdminBlocked, r.Data[15].Status)
}

func TestService_AcceptInvalidatesReservations(t *testing.T) {
	svc, res, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.GetReservations(ctx, false)
	require.NoError(t, err)

	require.NoError(t, svc.Accept(ctx, "r-2"))
	assert.Equal(t, []string{"r-2"}, res.accepted)

	r, err := svc.GetReservations(ctx, false)
	require.NoError(t, err)
	assert.False(t, r.Cached)
	assert.Equal(t, int32(2), res.calls.Load())

	require.NoError(t, svc.Decline(ctx, "r-1"))
	assert.Equal(t, []string{"r-1"}, res.declined)
}

func TestService_Classify(t *testing.T) {
	svc, _, _ := setupService(t)

	day, err := svc.Classify(context.Background(), jan(11))
	require.NoError(t, err)
	assert.Equal(t, booking.DayExternalBooked, day.Status)
	assert.Equal(t, booking.ChannelAirbnb, day.Platform)
}

func TestService_RefreshAllIsolatesFailures(t *testing.T) {
	svc, _, ext := setupService(t)
	ctx := context.Background()
	month := booking.Month{Year: 2025, Month: time.January}

	_, err := svc.GetAvailability(ctx, month, false)
	require.NoError(t, err)

	ext.setErr(errors.New("store offline"))
	report := svc.RefreshAll(ctx)

	assert.Contains(t, report.Refreshed, cache.SliceReservations)
	assert.Contains(t, report.Refreshed, "availability:2025-01")
	assert.Equal(t, "store offline", report.Failed[cache.SliceExternal])

	// The failed slice still serves its last good value.
	r, err := svc.GetExternalBookings(ctx, false)
	require.NoError(t, err)
	assert.True(t, r.Stale)
	assert.Len(t, r.Data, 3)
}

func TestService_HardErrorWithoutData(t *testing.T) {
	svc, res, _ := setupService(t)
	res.err = errors.New("api down")

	_, err := svc.GetAllReservations(context.Background(), false)
	assert.ErrorIs(t, err, cache.ErrNoData)
}

func TestService_ReconcileBalance(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	// 3 nights, 4 guests, non-AC: 3 x 2250.
	b, err := svc.ReconcileBalance(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, 6750.0, b.Expected)
	assert.Equal(t, pricing.Settled, b.Status)

	_, err = svc.ReconcileBalance(ctx, "r-2")
	assert.ErrorIs(t, err, ErrNoBalance)

	_, err = svc.ReconcileBalance(ctx, "missing")
	assert.ErrorIs(t, err, reservations.ErrNotFound)
}

func TestService_PreloadAndClear(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	jan := booking.Month{Year: 2025, Month: time.January}
	months := svc.PreloadAdjacentMonths(ctx, jan)
	assert.Equal(t, []booking.Month{
		{Year: 2024, Month: time.December},
		jan,
		{Year: 2025, Month: time.February},
	}, months)
	assert.Len(t, svc.Cache().Months(), 3)
	_, ok := svc.Cache().Month(jan).Peek()
	assert.True(t, ok)

	svc.ClearCache()
	_, ok = svc.Cache().Reservations.Peek()
	assert.False(t, ok)
}
