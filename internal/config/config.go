package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Cheertaboi/promo-pricing-service/pkg/db"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	HTTP     HTTPConfig        `yaml:"http"`
	Log      LogConfig         `yaml:"log"`
	Storage  StorageConfig     `yaml:"storage"`
	Postgres db.PostgresConfig `yaml:"postgres"`
	Cache    CacheConfig       `yaml:"cache"`
	Kafka    KafkaConfig       `yaml:"kafka"`
	Pricing  PricingConfig     `yaml:"pricing"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"5s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type StorageConfig struct {
	Driver          string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	CatalogSeedPath string `yaml:"catalog_seed_path" env:"CATALOG_SEED_PATH"`
	MigrationsPath  string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

type CacheConfig struct {
	Driver        string        `yaml:"driver" env:"CACHE_DRIVER" env-default:"memory"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	TTL           time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"30s"`
}

// KafkaConfig leaves event publishing off while Brokers is empty.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	OfferTopic string   `yaml:"offer_topic" env:"KAFKA_OFFER_TOPIC" env-default:"offer-events"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type PricingConfig struct {
	Workers           int `yaml:"workers" env:"PRICING_WORKERS" env-default:"4"`
	ParallelThreshold int `yaml:"parallel_threshold" env:"PRICING_PARALLEL_THRESHOLD" env-default:"64"`
}

// Load reads the YAML file named by CONFIG_PATH when set, then applies the
// environment on top of it.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("config: unknown cache driver %q", c.Cache.Driver)
	}
	if c.Pricing.Workers < 1 {
		return fmt.Errorf("config: PRICING_WORKERS must be at least 1, got %d", c.Pricing.Workers)
	}
	if c.Pricing.ParallelThreshold < 0 {
		return fmt.Errorf("config: PRICING_PARALLEL_THRESHOLD must not be negative")
	}
	return nil
}
