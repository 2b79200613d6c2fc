package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// StorageDriver selects the persistence backend: "mongo" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER, default=mongo"`
	// SeedFile is a JSON fixtures file loaded by the memory driver.
	SeedFile string `env:"SEED_FILE"`

	HTTP       HTTPConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Geocoder   GeocoderConfig
	Ingestion  IngestionConfig
	Serializer SerializerConfig
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,     default=10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT,    default=15s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT, default=15s"`
	MaxBatchSize    int           `env:"HTTP_MAX_BATCH_SIZE,   default=100"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,       default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,        default=medcourier"`
	RetryFor time.Duration `env:"MONGO_RETRY_FOR, default=30s"`
}

type RedisConfig struct {
	Addr      string        `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB,         default=0"`
	RetryFor  time.Duration `env:"REDIS_RETRY_FOR,  default=30s"`
	ReplayTTL time.Duration `env:"REDIS_REPLAY_TTL, default=24h"`
}

type GeocoderConfig struct {
	BaseURL     string        `env:"GEOCODER_BASE_URL,    default=https://nominatim.openstreetmap.org"`
	UserAgent   string        `env:"GEOCODER_USER_AGENT,  default=medcourier-tracking/1.0"`
	Email       string        `env:"GEOCODER_EMAIL"`
	Timeout     time.Duration `env:"GEOCODER_TIMEOUT,     default=5s"`
	Concurrency int           `env:"GEOCODER_CONCURRENCY, default=8"`
	CacheTTL    time.Duration `env:"GEOCODER_CACHE_TTL,   default=720h"`
}

// IngestionConfig holds the anti-spoofing thresholds.
type IngestionConfig struct {
	TimestampPolicy       string        `env:"INGEST_TIMESTAMP_POLICY,   default=client"`
	MaxAge                time.Duration `env:"INGEST_MAX_AGE,            default=12h"`
	FutureTolerance       time.Duration `env:"INGEST_FUTURE_TOLERANCE,   default=2m"`
	MaxSpeedMPH           float64       `env:"INGEST_MAX_SPEED_MPH,      default=150"`
	ShortInterval         time.Duration `env:"INGEST_SHORT_INTERVAL,     default=2s"`
	ShortIntervalMaxMiles float64       `env:"INGEST_SHORT_INTERVAL_MAX, default=0.1"`
	JitterMeters          float64       `env:"INGEST_JITTER_METERS,      default=15"`
	MaxAttempts           int           `env:"INGEST_MAX_ATTEMPTS,       default=3"`
}

type SerializerConfig struct {
	Workers int `env:"SERIALIZER_WORKERS, default=32"`
}

// Load reads a .env file when one exists, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return &cfg
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.Ingestion.TimestampPolicy {
	case "client", "server":
	default:
		return fmt.Errorf("unknown INGEST_TIMESTAMP_POLICY %q", c.Ingestion.TimestampPolicy)
	}
	if c.JWTSecret == "" && c.Env != "development" {
		return errors.New("JWT_SECRET is required outside development")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
