package store

import (
	"context"
	"testing"
	"time"

	"booking-sync/core/booking"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisExternalStore_Key(t *testing.T) {
	s := NewRedisExternalStore(nil, "booking-sync", nil)
	assert.Equal(t, "booking-sync:external:airbnb", s.Key(booking.ChannelAirbnb))
	assert.Equal(t, "booking-sync:external:booking_com", s.Key(booking.ChannelBookingDotCom))
}

func TestEncodeDecodeFields(t *testing.T) {
	stays := []booking.Stay{
		extStay("a1", booking.ChannelAirbnb, 10, 12),
		extStay("a1", booking.ChannelAirbnb, 10, 12),
		extStay("a2", booking.ChannelAirbnb, 14, 15),
	}

	fields, err := encodeFields(stays)
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	values := make(map[string]string, len(fields))
	for k, v := range fields {
		values[k] = v.(string)
	}
	decoded, err := decodeFields(values)
	require.NoError(t, err)
	assert.Len(t, decoded, 2)

	_, err = decodeFields(map[string]string{"bad": "{"})
	assert.ErrorContains(t, err, "decode stay bad")
}

func TestRedisExternalStore_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	s := NewRedisExternalStore(client, "test", []booking.Channel{booking.ChannelAirbnb})

	err = s.Replace(context.Background(), booking.ChannelAirbnb, []booking.Stay{extStay("a1", booking.ChannelAirbnb, 1, 2)})
	assert.ErrorContains(t, err, "replace airbnb bookings in redis")

	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "list airbnb bookings from redis")
}
