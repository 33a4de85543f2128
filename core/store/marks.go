package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-sync/core/booking"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidRange is returned when an update range ends before it starts.
var ErrInvalidRange = errors.New("invalid date range")

// maxMarkRange caps a single admin update.
const maxMarkRange = 366

// MarkStore keeps admin availability marks in the availability_marks table.
type MarkStore struct {
	db *gorm.DB
}

// NewMarkStore creates a mark store on db. Tables must be migrated.
func NewMarkStore(db *gorm.DB) *MarkStore {
	return &MarkStore{db: db}
}

// FetchMonth returns the marks dated within m.
func (s *MarkStore) FetchMonth(ctx context.Context, m booking.Month) ([]booking.AvailabilityMark, error) {
	return s.FetchRange(ctx, m.First(), m.End())
}

// FetchRange returns the marks dated in [from, to).
func (s *MarkStore) FetchRange(ctx context.Context, from, to booking.Date) ([]booking.AvailabilityMark, error) {
	var records []AvailabilityMarkRecord
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from.String(), to.String()).
		Order("date, room_key").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch availability marks: %w", err)
	}

	marks := make([]booking.AvailabilityMark, 0, len(records))
	for _, r := range records {
		d, err := booking.ParseDate(r.Date)
		if err != nil {
			continue
		}
		mark := booking.AvailabilityMark{
			Date:   d,
			Status: booking.MarkStatus(r.Status),
			Source: r.Source,
		}
		if r.RoomKey != "" {
			room := r.RoomKey
			mark.RoomID = &room
		}
		marks = append(marks, mark)
	}
	return marks, nil
}

// Update sets the mark of every date in [from, to], both ends included, and
// returns the months touched. Existing marks for the same date and room are
// overwritten.
func (s *MarkStore) Update(ctx context.Context, from, to booking.Date, status booking.MarkStatus, source string, roomID *string) ([]booking.Month, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidRange, from, to)
	}
	if from.DaysUntil(to) >= maxMarkRange {
		return nil, fmt.Errorf("%w: more than %d days", ErrInvalidRange, maxMarkRange)
	}
	if source == "" {
		source = booking.AdminSource
	}
	roomKey := ""
	if roomID != nil {
		roomKey = *roomID
	}

	now := time.Now().UTC()
	var records []AvailabilityMarkRecord
	var months []booking.Month
	booking.EachDay(from, to.AddDays(1), func(d booking.Date) {
		records = append(records, AvailabilityMarkRecord{
			Date:      d.String(),
			RoomKey:   roomKey,
			Status:    string(status),
			Source:    source,
			UpdatedAt: now,
		})
		if m := d.MonthOf(); len(months) == 0 || months[len(months)-1] != m {
			months = append(months, m)
		}
	})

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "room_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "source", "updated_at"}),
	}).CreateInBatches(records, insertBatchSize).Error
	if err != nil {
		return nil, fmt.Errorf("update availability marks: %w", err)
	}

	return months, nil
}
