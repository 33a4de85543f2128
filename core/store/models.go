package store

import (
	"time"

	"gorm.io/datatypes"
)

// ExternalBookingRecord is one synthesized external stay.
type ExternalBookingRecord struct {
	ID       uint           `gorm:"column:id;primaryKey;autoIncrement"`
	Platform string         `gorm:"column:platform;type:varchar(32);not null;index"`
	StayID   string         `gorm:"column:stay_id;type:varchar(64);not null;uniqueIndex"`
	CheckIn  string         `gorm:"column:check_in;type:varchar(10);not null;index"`
	CheckOut string         `gorm:"column:check_out;type:varchar(10);not null"`
	Summary  string         `gorm:"column:summary;type:varchar(255)"`
	Payload  datatypes.JSON `gorm:"column:payload"`
	SyncedAt time.Time      `gorm:"column:synced_at;not null"`
}

func (ExternalBookingRecord) TableName() string { return "external_bookings" }

// AvailabilityMarkRecord is one admin mark.
type AvailabilityMarkRecord struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Date      string    `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_mark_date_room"`
	RoomKey   string    `gorm:"column:room_key;type:varchar(64);not null;default:'';uniqueIndex:idx_mark_date_room"`
	Status    string    `gorm:"column:status;type:varchar(16);not null"`
	Source    string    `gorm:"column:source;type:varchar(32);not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (AvailabilityMarkRecord) TableName() string { return "availability_marks" }

// SyncStateRecord holds the scheduler's persisted state.
type SyncStateRecord struct {
	Name        string     `gorm:"column:name;type:varchar(64);primaryKey"`
	LastRunAt   *time.Time `gorm:"column:last_run_at"`
	NextDueAt   time.Time  `gorm:"column:next_due_at;not null"`
	LastOK      bool       `gorm:"column:last_ok"`
	LastMessage string     `gorm:"column:last_message;type:varchar(255)"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (SyncStateRecord) TableName() string { return "sync_states" }

// Models lists every table model, in migration order.
func Models() []any {
	return []any{&ExternalBookingRecord{}, &AvailabilityMarkRecord{}, &SyncStateRecord{}}
}
