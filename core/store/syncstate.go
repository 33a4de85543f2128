package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncState is the scheduler's persisted progress.
type SyncState struct {
	Name        string
	LastRunAt   *time.Time
	NextDueAt   time.Time
	LastOK      bool
	LastMessage string
}

// SyncStateStore reads and writes the sync_states table.
type SyncStateStore struct {
	db *gorm.DB
}

// NewSyncStateStore creates a store on db. Tables must be migrated.
func NewSyncStateStore(db *gorm.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

// Load returns the state named name. ok is false when none was saved.
func (s *SyncStateStore) Load(ctx context.Context, name string) (SyncState, bool, error) {
	var rec SyncStateRecord
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SyncState{}, false, nil
	}
	if err != nil {
		return SyncState{}, false, fmt.Errorf("load sync state %s: %w", name, err)
	}

	return SyncState{
		Name:        rec.Name,
		LastRunAt:   rec.LastRunAt,
		NextDueAt:   rec.NextDueAt,
		LastOK:      rec.LastOK,
		LastMessage: rec.LastMessage,
	}, true, nil
}

// Save upserts st.
func (s *SyncStateStore) Save(ctx context.Context, st SyncState) error {
	rec := SyncStateRecord{
		Name:        st.Name,
		LastRunAt:   st.LastRunAt,
		NextDueAt:   st.NextDueAt.UTC(),
		LastOK:      st.LastOK,
		LastMessage: truncate(st.LastMessage, 255),
		UpdatedAt:   time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save sync state %s: %w", st.Name, err)
	}
	return nil
}
