package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends
const (
	StorageBackendFilesystem = "filesystem"
	StorageBackendMinio      = "minio"
)

// Database drivers
const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Upload   FileUploadConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"5m"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
}

type DatabaseConfig struct {
	Driver         string        `envconfig:"DB_DRIVER" default:"postgres"`
	Host           string        `envconfig:"DB_HOST" default:"localhost"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" default:"postgres"`
	Password       string        `envconfig:"DB_PASSWORD"`
	Name           string        `envconfig:"DB_NAME" default:"fileshare"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// StorageConfig selects where durable file bytes and in-flight chunks live.
// Chunks always stay on the local filesystem.
type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" default:"filesystem"`
	DataDir  string `envconfig:"STORAGE_DATA_DIR" default:"data/files"`
	ChunkDir string `envconfig:"STORAGE_CHUNK_DIR" default:"data/chunks"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"fileshare"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// NATSConfig configures file event publishing. An empty URL disables events.
type NATSConfig struct {
	URL          string `envconfig:"NATS_URL"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"FILE_EVENTS"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"files.events"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"file-audit"`
}

type FileUploadConfig struct {
	MaxFileSize            int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"524288000"`             // 500MB
	MaxDirectUploadSize    int64         `envconfig:"UPLOAD_MAX_DIRECT_SIZE" default:"52428800"`            // 50MB
	MaxChunkSize           int64         `envconfig:"UPLOAD_MAX_CHUNK_SIZE" default:"10485760"`             // 10MB
	MaxTotalChunks         int           `envconfig:"UPLOAD_MAX_TOTAL_CHUNKS" default:"10000"`
	MaxSessionsPerUser     int           `envconfig:"UPLOAD_MAX_SESSIONS_PER_USER" default:"5"`
	MaxPendingBytesPerUser int64         `envconfig:"UPLOAD_MAX_PENDING_BYTES_PER_USER" default:"2147483648"` // 2GB
	UserStorageLimit       int64         `envconfig:"UPLOAD_USER_STORAGE_LIMIT" default:"0"`                // 0 = unlimited
	MaxTTLHours            int           `envconfig:"UPLOAD_MAX_TTL_HOURS" default:"8760"`
	IdleSessionTimeout     time.Duration `envconfig:"UPLOAD_IDLE_SESSION_TIMEOUT" default:"2h"`
	SweepEvery             time.Duration `envconfig:"UPLOAD_SWEEP_EVERY" default:"5m"`
}

// MaxRequestBody is the largest body a single upload request may carry.
func (c FileUploadConfig) MaxRequestBody() int64 {
	if c.MaxDirectUploadSize > c.MaxChunkSize {
		return c.MaxDirectUploadSize + 1<<20
	}
	return c.MaxChunkSize + 1<<20
}

func Load() (*Config, error) {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks rules envconfig tags cannot express
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}

	switch c.Storage.Backend {
	case StorageBackendFilesystem:
	case StorageBackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			return errors.New("minio storage backend requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	switch c.Database.Driver {
	case DatabaseDriverPostgres, DatabaseDriverMemory:
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}

	u := c.Upload
	if u.MaxChunkSize <= 0 || u.MaxTotalChunks <= 0 || u.MaxFileSize <= 0 || u.MaxDirectUploadSize <= 0 {
		return errors.New("upload size limits must be positive")
	}
	if u.SweepEvery <= 0 || u.IdleSessionTimeout <= 0 {
		return errors.New("UPLOAD_SWEEP_EVERY and UPLOAD_IDLE_SESSION_TIMEOUT must be positive")
	}
	return nil
}
