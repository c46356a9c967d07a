package infra

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-gallery-service/config"
	"github.com/tnqbao/gau-gallery-service/infra/produce"
	"go.opentelemetry.io/otel"
)

type Infra struct {
	Redis     *RedisClient
	Postgres  *PostgresClient
	Mongo     *MongoClient
	Logger    *LoggerClient
	Telemetry *Telemetry
	Metrics   *Metrics
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
	Minio     *MinioClient
	Blobs     BlobStorage
}

// InitInfra connects every configured backend. Remote stores that cannot be
// reached are logged and left nil (or replaced by an unavailable stand-in) so
// the HTTP surface still comes up; only local setup failures are returned.
func InitInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	env := cfg.EnvConfig

	telemetry, telemetryErr := InitTelemetry(ctx, env)
	if telemetryErr != nil {
		telemetry = &Telemetry{}
	}

	logger := InitLoggerClient(env, telemetry)
	if telemetryErr != nil {
		logger.ErrorWithContextf(ctx, telemetryErr, "[Infra] Telemetry disabled")
	}

	metrics, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		logger.ErrorWithContextf(ctx, err, "[Infra] Failed to register metrics")
	}

	in := &Infra{
		Logger:    logger,
		Telemetry: telemetry,
		Metrics:   metrics,
	}

	in.Redis = InitRedisClient(env)
	if err := in.Redis.Ping(ctx); err != nil {
		logger.ErrorWithContextf(ctx, err, "[Infra] Redis is unreachable at %s", env.RedisAddr())
	} else {
		logger.InfoWithContextf(ctx, "[Infra] Connected to Redis at %s", env.RedisAddr())
	}

	switch env.Storage.MetadataBackend {
	case config.MetadataBackendPostgres:
		pg, err := InitPostgresClient(env)
		if err != nil {
			logger.ErrorWithContextf(ctx, err, "[Infra] Postgres metadata store unavailable")
		} else {
			in.Postgres = pg
			logger.InfoWithContextf(ctx, "[Infra] Connected to Postgres at %s", env.Postgres.HOST)
		}
	default:
		mongo, err := InitMongoClient(ctx, env)
		if err != nil {
			logger.ErrorWithContextf(ctx, err, "[Infra] MongoDB metadata store unavailable")
		} else {
			in.Mongo = mongo
			logger.InfoWithContextf(ctx, "[Infra] Connected to MongoDB database %s", env.Mongo.Database)
		}
	}

	switch env.Storage.BlobBackend {
	case config.BlobBackendMinio:
		in.Blobs = unavailableBlobStorage{}
		minioClient, err := InitMinioClient(env)
		if err != nil {
			logger.ErrorWithContextf(ctx, err, "[Infra] MinIO blob store unavailable")
			break
		}
		in.Minio = minioClient
		store, err := NewMinioBlobStore(ctx, minioClient, env.Minio.Bucket)
		if err != nil {
			logger.ErrorWithContextf(ctx, err, "[Infra] MinIO bucket %s unavailable", env.Minio.Bucket)
			break
		}
		in.Blobs = store
		logger.InfoWithContextf(ctx, "[Infra] Using MinIO bucket %s at %s", env.Minio.Bucket, minioClient.Endpoint)
	default:
		store, err := NewLocalBlobStore(env.Upload.Dir)
		if err != nil {
			return nil, err
		}
		in.Blobs = store
		logger.InfoWithContextf(ctx, "[Infra] Using local upload dir %s", store.Root())
	}

	if env.RabbitMQ.Enabled {
		rabbit, err := InitRabbitMQClient(env)
		if err != nil {
			logger.ErrorWithContextf(ctx, err, "[Infra] RabbitMQ unavailable, image events disabled")
		} else {
			in.RabbitMQ = rabbit
			prod, err := produce.InitProduce(rabbit.Channel)
			if err != nil {
				logger.ErrorWithContextf(ctx, err, "[Infra] Failed to declare image event topology")
			} else {
				in.Produce = prod
			}
		}
	}

	return in, nil
}

// Close releases every connection that was opened. Telemetry is flushed last
// so shutdown logs are exported.
func (in *Infra) Close(ctx context.Context) error {
	var errs []error
	if in.RabbitMQ != nil {
		errs = append(errs, in.RabbitMQ.Close())
	}
	if in.Mongo != nil {
		errs = append(errs, in.Mongo.Close(ctx))
	}
	if in.Postgres != nil {
		errs = append(errs, in.Postgres.Close())
	}
	if in.Redis != nil {
		errs = append(errs, in.Redis.Close())
	}
	if in.Telemetry != nil {
		errs = append(errs, in.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
