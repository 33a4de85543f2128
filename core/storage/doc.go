// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that storage
// interactions can be mocked in tests (see core/storage/mocks). Both AWS S3
// and self-hosted MinIO are supported.
//
// # Feed Snapshots
//
// Archiver keeps the raw calendar documents fetched by the sync scheduler,
// one folder per platform:
//
//	<archive_prefix>/<platform>/<20060102T150405Z>.ics
//
// Snapshots are pruned to a configured retention after each write. They are
// write-mostly; Latest exists for inspecting what a feed actually returned.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archiver := storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix, cfg.Storage.Retention, logger)
//	key, err := archiver.Put(ctx, booking.ChannelAirbnb, time.Now(), body)
package storage
