package health

import (
	"context"
	"errors"

	"booking-sync/core/booking"
	"booking-sync/core/storage"
	"booking-sync/core/store"
	"booking-sync/feature/health/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when archiving is off.
var ErrStorageDisabled = errors.New("object storage is disabled")

// Service handles health checks.
type Service struct {
	client   storage.Client
	archiver *storage.Archiver
	db       *gorm.DB
	feeds    []booking.FeedDescriptor
	logger   *zap.Logger
}

// NewService creates a new health service. client, archiver and db may be nil.
func NewService(client storage.Client, archiver *storage.Archiver, db *gorm.DB, feeds []booking.FeedDescriptor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		archiver: archiver,
		db:       db,
		feeds:    feeds,
		logger:   logger,
	}
}

// folders returns the archive folder of every configured feed.
func (s *Service) folders() []string {
	out := make([]string, 0, len(s.feeds))
	for _, f := range s.feeds {
		out = append(out, s.archiver.Folder(f.Platform))
	}
	return out
}

// CheckStructure returns the archive folders missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil || s.archiver == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStructure(ctx, s.client, s.archiver.Bucket(), s.folders())
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil || s.archiver == nil {
		return ErrStorageDisabled
	}
	return checks.FixStructure(ctx, s.client, s.archiver.Bucket(), s.logger, missing)
}

// CheckSchema compares the engine tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, store.Models())
}

// CheckFeeds validates the feed configuration.
func (s *Service) CheckFeeds() checks.FeedReport {
	return checks.CheckFeeds(s.feeds)
}

// Ping checks the database connection.
func (s *Service) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database connection is nil")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
