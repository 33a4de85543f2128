package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		raw    string
		host   string
		secure bool
	}{
		{"localhost:9000", "localhost:9000", false},
		{"http://localhost:9000", "localhost:9000", false},
		{"https://s3.amazonaws.com", "s3.amazonaws.com", true},
		{" https://minio.internal/ ", "minio.internal", true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, secure := splitEndpoint(tt.raw)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestNewClient(t *testing.T) {
	t.Run("PlainEndpoint", func(t *testing.T) {
		client, err := NewClient(Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "booking-feeds",
			Region:    "us-east-1",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("HTTPSEndpointForcesTLS", func(t *testing.T) {
		client, err := NewClient(Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		})
		require.NoError(t, err)

		store, ok := client.(*minioStore)
		require.True(t, ok)
		assert.Equal(t, "https", store.EndpointURL().Scheme)
	})

	t.Run("EmptyEndpoint", func(t *testing.T) {
		_, err := NewClient(Config{Endpoint: "  "})
		assert.Error(t, err)
	})
}

func TestNewTransport(t *testing.T) {
	tr := newTransport(0)
	assert.Equal(t, 4, tr.MaxIdleConnsPerHost)
	assert.NotNil(t, tr.DialContext)
}
