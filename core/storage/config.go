package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Enabled turns on archiving of raw feed snapshots.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding feed snapshots.
	Bucket string `mapstructure:"bucket" default:"booking-feeds" validate:"required_if=Enabled true"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ArchivePrefix is the folder under which snapshots are written.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"feeds"`
	// Retention is the number of snapshots kept per platform. 0 keeps all.
	Retention int `mapstructure:"retention" default:"60" validate:"gte=0"`
}
