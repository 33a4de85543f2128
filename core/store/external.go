package store

import (
	"context"
	"fmt"
	"time"

	"booking-sync/core/booking"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// insertBatchSize bounds the number of rows per INSERT.
const insertBatchSize = 200

// ExternalStore is the local persistence of synthesized external stays.
type ExternalStore interface {
	// Replace atomically swaps all stays of one platform.
	Replace(ctx context.Context, platform booking.Channel, stays []booking.Stay) error
	// List returns every stored external stay.
	List(ctx context.Context) ([]booking.Stay, error)
}

// GormExternalStore keeps external stays in the external_bookings table.
type GormExternalStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormExternalStore creates a store on db. Tables must be migrated.
func NewGormExternalStore(db *gorm.DB) *GormExternalStore {
	return &GormExternalStore{db: db, now: time.Now}
}

// Replace implements ExternalStore.
func (s *GormExternalStore) Replace(ctx context.Context, platform booking.Channel, stays []booking.Stay) error {
	records := make([]ExternalBookingRecord, 0, len(stays))
	syncedAt := s.now().UTC()
	seen := make(map[string]struct{}, len(stays))
	for _, st := range stays {
		// Feeds occasionally repeat an event; the first occurrence wins.
		if _, dup := seen[st.ID]; dup {
			continue
		}
		seen[st.ID] = struct{}{}

		payload, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode stay %s: %w", st.ID, err)
		}
		records = append(records, ExternalBookingRecord{
			Platform: string(platform),
			StayID:   st.ID,
			CheckIn:  st.CheckIn.String(),
			CheckOut: st.CheckOut.String(),
			Summary:  truncate(st.Summary, 255),
			Payload:  payload,
			SyncedAt: syncedAt,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("platform = ?", string(platform)).Delete(&ExternalBookingRecord{}).Error; err != nil {
			return fmt.Errorf("clear %s bookings: %w", platform, err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert %s bookings: %w", platform, err)
		}
		return nil
	})
}

// List implements ExternalStore. Stays are ordered by check-in then ID.
func (s *GormExternalStore) List(ctx context.Context) ([]booking.Stay, error) {
	var records []ExternalBookingRecord
	if err := s.db.WithContext(ctx).Order("check_in, stay_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list external bookings: %w", err)
	}
	return decodeRecords(records)
}

// ListPlatform returns the stays of one platform.
func (s *GormExternalStore) ListPlatform(ctx context.Context, platform booking.Channel) ([]booking.Stay, error) {
	var records []ExternalBookingRecord
	err := s.db.WithContext(ctx).
		Where("platform = ?", string(platform)).
		Order("check_in, stay_id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list %s bookings: %w", platform, err)
	}
	return decodeRecords(records)
}

func decodeRecords(records []ExternalBookingRecord) ([]booking.Stay, error) {
	stays := make([]booking.Stay, 0, len(records))
	for _, r := range records {
		var st booking.Stay
		if err := json.Unmarshal(r.Payload, &st); err != nil {
			return nil, fmt.Errorf("decode stay %s: %w", r.StayID, err)
		}
		stays = append(stays, st)
	}
	return stays, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
