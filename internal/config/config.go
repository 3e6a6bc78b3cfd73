package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	RabbitMQ  RabbitMQConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type StoreConfig struct {
	Backend string `envconfig:"CATALOG_STORE" default:"memory" validate:"oneof=memory postgres"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432" validate:"min=1,max=65535"`
	User     string `envconfig:"POSTGRES_USER" default:"vidcatalog"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"vidcatalog"`
	DBName   string `envconfig:"POSTGRES_DB" default:"vidcatalog"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379" validate:"min=1,max=65535"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0" validate:"min=0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m" validate:"gt=0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MinIOConfig struct {
	Enabled   bool   `envconfig:"MINIO_ENABLED" default:"false"`
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"catalog" validate:"required_if=Enabled true"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	Enabled  bool   `envconfig:"RABBITMQ_ENABLED" default:"false"`
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672" validate:"min=1,max=65535"`
	User     string `envconfig:"RABBITMQ_USER" default:"vidcatalog"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"vidcatalog"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

// BootstrapConfig locates the catalog loaded at startup. With MinIO enabled
// the catalog is read from ObjectKey in the bucket, otherwise from Path.
// An empty location disables the import.
type BootstrapConfig struct {
	Path      string `envconfig:"CATALOG_BOOTSTRAP_PATH" default:"videos.json"`
	ObjectKey string `envconfig:"CATALOG_BOOTSTRAP_OBJECT" default:"videos.json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from the environment. Variables from the
// given dotenv files are applied first without overriding the process
// environment; missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
