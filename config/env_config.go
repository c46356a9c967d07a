package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	MetadataBackendMongo    = "mongo"
	MetadataBackendPostgres = "postgres"

	BlobBackendLocal = "local"
	BlobBackendMinio = "minio"
)

type EnvConfig struct {
	App struct {
		Port      string `env:"PORT" envDefault:"8080"`
		PublicDir string `env:"PUBLIC_DIR" envDefault:"./public"`
		AssetsDir string `env:"ASSETS_DIR" envDefault:"./images"`
	}
	Upload struct {
		Dir         string `env:"UPLOAD_DIR" envDefault:"./public/uploads"`
		URLPrefix   string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
		FieldName   string `env:"UPLOAD_FIELD_NAME" envDefault:"images"`
		MaxFiles    int    `env:"UPLOAD_MAX_FILES" envDefault:"10"`
		MaxFileSize int64  `env:"UPLOAD_MAX_FILE_SIZE" envDefault:"10485760"` // 10MB per part
	}
	Storage struct {
		MetadataBackend string `env:"METADATA_BACKEND" envDefault:"mongo"`
		BlobBackend     string `env:"BLOB_BACKEND" envDefault:"local"`
	}
	Mongo struct {
		URI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
		Database   string `env:"MONGO_DB" envDefault:"gallery"`
		Collection string `env:"MONGO_COLLECTION" envDefault:"uploadedfiles"`
	}
	Postgres struct {
		HOST     string `env:"PGPOOL_HOST" envDefault:"localhost"`
		Database string `env:"PGPOOL_DB" envDefault:"gallery"`
		Username string `env:"PGPOOL_USER" envDefault:"postgres"`
		Password string `env:"PGPOOL_PASSWORD"`
		Port     string `env:"PGPOOL_PORT" envDefault:"5432"`
	}
	Redis struct {
		Password  string `env:"REDIS_PASSWORD"`
		Database  int    `env:"REDIS_DB" envDefault:"0"`
		RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
		RedisPort string `env:"REDIS_PORT" envDefault:"6379"`
		PathsKey  string `env:"REDIS_PATHS_KEY" envDefault:"validFiles"`
	}
	Minio struct {
		Endpoint     string `env:"MINIO_ENDPOINT"`
		RootUser     string `env:"MINIO_ROOT_USER"`
		RootPassword string `env:"MINIO_ROOT_PASSWORD"`
		Bucket       string `env:"MINIO_BUCKET" envDefault:"gallery-uploads"`
		UseSSL       bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	}
	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" envDefault:"false"`
		Host     string `env:"RABBITMQ_HOST" envDefault:"localhost"`
		Port     string `env:"RABBITMQ_PORT" envDefault:"5672"`
		Username string `env:"RABBITMQ_USER" envDefault:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	}
	Sweeper struct {
		Interval time.Duration `env:"SWEEP_INTERVAL" envDefault:"60s"`
	}
	CORS struct {
		AllowDomains string `env:"ALLOWED_DOMAINS"`
	}
	Grafana struct {
		OTLPEndpoint string `env:"GRAFANA_OTLP_ENDPOINT"`
		Insecure     bool   `env:"GRAFANA_OTLP_INSECURE" envDefault:"false"`
		ServiceName  string `env:"SERVICE_NAME" envDefault:"gau-gallery-service"`
	}
	Environment struct {
		Mode  string `env:"DEPLOY_ENV" envDefault:"development"`
		Group string `env:"GROUP_NAME" envDefault:"local"`
	}
}

func LoadEnvConfig() (*EnvConfig, error) {
	var config EnvConfig
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse env config: %w", err)
	}

	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	config.Grafana.OTLPEndpoint = strings.TrimPrefix(config.Grafana.OTLPEndpoint, "https://")
	if strings.HasPrefix(config.Grafana.OTLPEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(config.Grafana.OTLPEndpoint, "http://")
		config.Grafana.Insecure = true
	}

	config.Upload.URLPrefix = "/" + strings.Trim(config.Upload.URLPrefix, "/")

	switch config.Storage.MetadataBackend {
	case MetadataBackendMongo, MetadataBackendPostgres:
	default:
		return nil, fmt.Errorf("unsupported METADATA_BACKEND %q", config.Storage.MetadataBackend)
	}
	switch config.Storage.BlobBackend {
	case BlobBackendLocal, BlobBackendMinio:
	default:
		return nil, fmt.Errorf("unsupported BLOB_BACKEND %q", config.Storage.BlobBackend)
	}
	if config.Upload.MaxFiles <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_FILES must be positive, got %d", config.Upload.MaxFiles)
	}
	if config.Sweeper.Interval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", config.Sweeper.Interval)
	}

	return &config, nil
}

func (c *EnvConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.Postgres.HOST, c.Postgres.Username, c.Postgres.Password, c.Postgres.Database, c.Postgres.Port)
}

func (c *EnvConfig) RedisAddr() string {
	return c.Redis.RedisHost + ":" + c.Redis.RedisPort
}

func (c *EnvConfig) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.RabbitMQ.Username, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
