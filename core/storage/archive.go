package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"booking-sync/core/booking"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// snapshotLayout names snapshot objects so that lexical order is time order.
const snapshotLayout = "20060102T150405Z"

// ErrNoSnapshot is returned when a platform has no archived snapshot.
var ErrNoSnapshot = errors.New("no archived snapshot")

// Snapshot describes one archived feed document.
type Snapshot struct {
	Key       string    `json:"key"`
	Platform  string    `json:"platform"`
	FetchedAt time.Time `json:"fetched_at"`
	Size      int64     `json:"size"`
}

// Archiver stores raw feed documents in a bucket, one folder per platform.
type Archiver struct {
	client    Client
	bucket    string
	prefix    string
	retention int
	logger    *zap.Logger
}

// NewArchiver creates an archiver. retention is the number of snapshots kept
// per platform; 0 keeps all.
func NewArchiver(client Client, bucket, prefix string, retention int, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		retention: retention,
		logger:    logger,
	}
}

// Bucket returns the target bucket.
func (a *Archiver) Bucket() string { return a.bucket }

// Folder returns the object prefix of a platform, with a trailing slash.
func (a *Archiver) Folder(platform booking.Channel) string {
	return path.Join(a.prefix, string(platform)) + "/"
}

// EnsureBucket creates the bucket when it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created snapshot bucket", zap.String("bucket", a.bucket))
	return nil
}

// Put writes one snapshot and prunes old ones. It returns the object key.
func (a *Archiver) Put(ctx context.Context, platform booking.Channel, fetchedAt time.Time, body string) (string, error) {
	key := a.Folder(platform) + fetchedAt.UTC().Format(snapshotLayout) + ".ics"

	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/calendar",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s snapshot: %w", platform, err)
	}

	if a.retention > 0 {
		if err := a.Prune(ctx, platform); err != nil {
			a.logger.Warn("Snapshot pruning failed", zap.String("platform", string(platform)), zap.Error(err))
		}
	}

	return key, nil
}

// List returns a platform's snapshots, oldest first.
func (a *Archiver) List(ctx context.Context, platform booking.Channel) ([]Snapshot, error) {
	var out []Snapshot
	opts := minio.ListObjectsOptions{Prefix: a.Folder(platform), Recursive: true}

	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		name := strings.TrimSuffix(path.Base(obj.Key), ".ics")
		at, err := time.Parse(snapshotLayout, name)
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Key: obj.Key, Platform: string(platform), FetchedAt: at, Size: obj.Size})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Latest returns the newest snapshot body of a platform.
func (a *Archiver) Latest(ctx context.Context, platform booking.Channel) (Snapshot, string, error) {
	snaps, err := a.List(ctx, platform)
	if err != nil {
		return Snapshot{}, "", err
	}
	if len(snaps) == 0 {
		return Snapshot{}, "", fmt.Errorf("%w for %s", ErrNoSnapshot, platform)
	}

	last := snaps[len(snaps)-1]
	obj, err := a.client.GetObject(ctx, a.bucket, last.Key, minio.GetObjectOptions{})
	if err != nil {
		return Snapshot{}, "", fmt.Errorf("failed to read snapshot %s: %w", last.Key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return Snapshot{}, "", fmt.Errorf("failed to read snapshot %s: %w", last.Key, err)
	}
	return last, buf.String(), nil
}

// Prune deletes all but the newest retention snapshots of a platform.
func (a *Archiver) Prune(ctx context.Context, platform booking.Channel) error {
	snaps, err := a.List(ctx, platform)
	if err != nil {
		return err
	}
	if a.retention <= 0 || len(snaps) <= a.retention {
		return nil
	}

	stale := snaps[:len(snaps)-a.retention]
	objects := make(chan minio.ObjectInfo, len(stale))
	for _, s := range stale {
		objects <- minio.ObjectInfo{Key: s.Key}
	}
	close(objects)

	var firstErr error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objects, minio.RemoveObjectsOptions{}) {
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	if firstErr != nil {
		return firstErr
	}

	a.logger.Debug("Pruned snapshots", zap.String("platform", string(platform)), zap.Int("removed", len(stale)))
	return nil
}
