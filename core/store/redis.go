package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"booking-sync/core/booking"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

// RedisConfig holds configuration for the Redis-backed external store.
type RedisConfig struct {
	// Enabled switches external bookings from the database to Redis.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379" validate:"required_if=Enabled true"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database number.
	DB int `mapstructure:"db" default:"0" validate:"gte=0"`
	// KeyPrefix namespaces all keys.
	KeyPrefix string `mapstructure:"key_prefix" default:"booking-sync"`
}

// NewRedisClient creates a client and verifies it with PING.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisExternalStore keeps external stays in one hash per platform, keyed by
// stay ID.
type RedisExternalStore struct {
	client    *redis.Client
	prefix    string
	platforms []booking.Channel
}

// NewRedisExternalStore creates a store. platforms lists the hashes read by List.
func NewRedisExternalStore(client *redis.Client, prefix string, platforms []booking.Channel) *RedisExternalStore {
	return &RedisExternalStore{client: client, prefix: prefix, platforms: platforms}
}

// Key returns the hash key of a platform.
func (s *RedisExternalStore) Key(platform booking.Channel) string {
	return fmt.Sprintf("%s:external:%s", s.prefix, platform)
}

// Replace implements ExternalStore. The delete and the writes run in one
// MULTI/EXEC transaction so readers never see a half-written platform.
func (s *RedisExternalStore) Replace(ctx context.Context, platform booking.Channel, stays []booking.Stay) error {
	fields, err := encodeFields(stays)
	if err != nil {
		return err
	}

	key := s.Key(platform)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace %s bookings in redis: %w", platform, err)
	}
	return nil
}

// List implements ExternalStore. Stays are ordered by check-in then ID.
func (s *RedisExternalStore) List(ctx context.Context) ([]booking.Stay, error) {
	var stays []booking.Stay
	for _, p := range s.platforms {
		values, err := s.client.HGetAll(ctx, s.Key(p)).Result()
		if err != nil {
			return nil, fmt.Errorf("list %s bookings from redis: %w", p, err)
		}
		decoded, err := decodeFields(values)
		if err != nil {
			return nil, err
		}
		stays = append(stays, decoded...)
	}

	sort.SliceStable(stays, func(i, j int) bool {
		if !stays[i].CheckIn.Equal(stays[j].CheckIn) {
			return stays[i].CheckIn.Before(stays[j].CheckIn)
		}
		return stays[i].ID < stays[j].ID
	})
	return stays, nil
}

func encodeFields(stays []booking.Stay) (map[string]any, error) {
	fields := make(map[string]any, len(stays))
	for _, st := range stays {
		if _, dup := fields[st.ID]; dup {
			continue
		}
		b, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("encode stay %s: %w", st.ID, err)
		}
		fields[st.ID] = string(b)
	}
	return fields, nil
}

func decodeFields(values map[string]string) ([]booking.Stay, error) {
	stays := make([]booking.Stay, 0, len(values))
	for id, raw := range values {
		var st booking.Stay
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, fmt.Errorf("decode stay %s: %w", id, err)
		}
		stays = append(stays, st)
	}
	return stays, nil
}
