package app

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/canonical"
	remoteclient "github.com/omrozmn/x-ear-sub010/internal/client/http/remote"
	"github.com/omrozmn/x-ear-sub010/internal/closer"
	"github.com/omrozmn/x-ear-sub010/internal/config"
	"github.com/omrozmn/x-ear-sub010/internal/converter"
	"github.com/omrozmn/x-ear-sub010/internal/kafka"
	"github.com/omrozmn/x-ear-sub010/internal/kafka/consumer"
	"github.com/omrozmn/x-ear-sub010/internal/kafka/middleware"
	"github.com/omrozmn/x-ear-sub010/internal/kafka/producer"
	"github.com/omrozmn/x-ear-sub010/internal/logger"
	"github.com/omrozmn/x-ear-sub010/internal/mirror"
	"github.com/omrozmn/x-ear-sub010/internal/model"
	"github.com/omrozmn/x-ear-sub010/internal/repository/snapshot"
	alertservice "github.com/omrozmn/x-ear-sub010/internal/service/alert"
	confconsumer "github.com/omrozmn/x-ear-sub010/internal/service/consumer/confirmation"
	queryservice "github.com/omrozmn/x-ear-sub010/internal/service/query"
	statsservice "github.com/omrozmn/x-ear-sub010/internal/service/stats"
	syncservice "github.com/omrozmn/x-ear-sub010/internal/service/sync"
)

type SyncService interface {
	Create(ctx context.Context, raw map[string]any) (*model.MutationResult, error)
	Update(ctx context.Context, id string, changes map[string]any) (*model.MutationResult, error)
	Delete(ctx context.Context, id string) (*model.MutationResult, error)
	AdjustStock(ctx context.Context, id string, delta int64) (*model.MutationResult, error)
	ConfirmCreate(ctx context.Context, temporaryID string, finalRaw map[string]any) error
	BulkCreate(ctx context.Context, rows []map[string]any) model.BulkResult
	BulkAdjustStock(ctx context.Context, adjustments []model.StockAdjustment) model.BulkResult
	BulkUpdatePrice(ctx context.Context, updates []model.PriceUpdate) model.BulkResult
	FlushPending(ctx context.Context) model.BulkResult
}

type QueryService interface {
	FetchPage(ctx context.Context, filter model.RecordFilter, page, perPage int) (*model.RecordPage, error)
	Reload(ctx context.Context) error
}

type StatsService interface {
	OnChange(reason bus.Reason)
	Recompute()
	Current() statsservice.Summary
	Options() statsservice.FilterOptions
}

type AlertService interface {
	Scan(ctx context.Context)
}

type ConfirmationConsumer interface {
	RunConfirmationConsume(ctx context.Context) error
}

type di struct {
	changeBus     *bus.Bus
	categories    canonical.CategoryNormalizer
	canonicalizer *canonical.Canonicalizer

	redisClient   *redis.Client
	mongoClient   *mongo.Client
	snapshotStore snapshot.Store
	recordMirror  *mirror.Mirror

	remoteClient *remoteclient.Client

	syncService  SyncService
	queryService QueryService
	statsService StatsService
	alertService AlertService

	confirmationConverter     confconsumer.ConfirmationConverter
	confirmationConsumerGroup sarama.ConsumerGroup
	confirmationKafkaConsumer kafka.Consumer
	confirmationConsumer      ConfirmationConsumer

	lowStockSyncProducer sarama.SyncProducer
	lowStockProducer     kafka.Producer
}

func NewDI() *di { return &di{} }

func (d *di) ChangeBus(ctx context.Context) *bus.Bus {
	if d.changeBus == nil {
		b := bus.New(config.C().Sync.BusBuffer())
		closer.AddNamed("Change bus", func(ctx context.Context) error {
			b.Close()
			return nil
		})

		d.changeBus = b
	}

	return d.changeBus
}

func (d *di) CategoryNormalizer(ctx context.Context) canonical.CategoryNormalizer {
	if d.categories == nil {
		d.categories = canonical.NewCategoryNormalizer()
	}

	return d.categories
}

func (d *di) Canonicalizer(ctx context.Context) *canonical.Canonicalizer {
	if d.canonicalizer == nil {
		d.canonicalizer = canonical.NewCanonicalizer(d.CategoryNormalizer(ctx))
	}

	return d.canonicalizer
}

func (d *di) RedisClient(ctx context.Context) *redis.Client {
	if d.redisClient == nil {
		cfg := config.C()

		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password(),
			DB:       cfg.Redis.DB(),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			panic(fmt.Sprintf("failed to ping redis: %v\n", err))
		}
		closer.AddNamed("Redis Client", func(ctx context.Context) error {
			return client.Close()
		})

		d.redisClient = client
	}

	return d.redisClient
}

func (d *di) MongoDB(ctx context.Context) *mongo.Client {
	if d.mongoClient == nil {
		cfg := config.C()

		mongoClient, err := mongo.Connect(
			options.Client().ApplyURI(cfg.Mongo.DSN()),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create mongodb client: %v\n", err))
		}
		closer.AddNamed("Mongo Client",
			func(ctx context.Context) error {
				return mongoClient.Disconnect(ctx)
			})

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping database: %v\n", err))
		}

		d.mongoClient = mongoClient
	}

	return d.mongoClient
}

func (d *di) SnapshotStore(ctx context.Context) snapshot.Store {
	if d.snapshotStore == nil {
		cfg := config.C()

		switch cfg.Snapshot.Backend() {
		case "redis":
			d.snapshotStore = snapshot.NewRedisStore(d.RedisClient(ctx), cfg.Snapshot.Key())
		case "mongo":
			collection := d.MongoDB(ctx).
				Database(cfg.Mongo.DatabaseName()).
				Collection(cfg.Mongo.SnapshotCollection())
			d.snapshotStore = snapshot.NewMongoStore(collection, cfg.Snapshot.Key())
		case "memory":
			d.snapshotStore = snapshot.NewMemory()
		default:
			panic(fmt.Sprintf("unknown snapshot backend: %q\n", cfg.Snapshot.Backend()))
		}
	}

	return d.snapshotStore
}

func (d *di) Mirror(ctx context.Context) *mirror.Mirror {
	if d.recordMirror == nil {
		d.recordMirror = mirror.New(
			d.SnapshotStore(ctx),
			d.ChangeBus(ctx),
			d.Canonicalizer(ctx),
		)
	}

	return d.recordMirror
}

func (d *di) RemoteClient(ctx context.Context) *remoteclient.Client {
	if d.remoteClient == nil {
		cfg := config.C()
		d.remoteClient = remoteclient.NewClient(cfg.Remote.BaseURL(), cfg.Remote.Timeout())
	}

	return d.remoteClient
}

func (d *di) SyncService(ctx context.Context) SyncService {
	if d.syncService == nil {
		d.syncService = syncservice.NewSyncService(
			d.Mirror(ctx),
			d.RemoteClient(ctx),
			d.Canonicalizer(ctx),
		)
	}

	return d.syncService
}

func (d *di) QueryService(ctx context.Context) QueryService {
	if d.queryService == nil {
		d.queryService = queryservice.NewQueryService(
			d.Mirror(ctx),
			d.RemoteClient(ctx),
			d.Canonicalizer(ctx),
		)
	}

	return d.queryService
}

func (d *di) StatsService(ctx context.Context) StatsService {
	if d.statsService == nil {
		d.statsService = statsservice.NewStatsService(d.Mirror(ctx))
	}

	return d.statsService
}

func (d *di) AlertService(ctx context.Context) AlertService {
	if d.alertService == nil {
		d.alertService = alertservice.NewAlertService(
			d.Mirror(ctx),
			d.LowStockProducer(ctx),
		)
	}

	return d.alertService
}

func (d *di) ConfirmationConverter(ctx context.Context) confconsumer.ConfirmationConverter {
	if d.confirmationConverter == nil {
		d.confirmationConverter = converter.NewConfirmationConverter()
	}

	return d.confirmationConverter
}

func (d *di) ConfirmationConsumerGroup(ctx context.Context) sarama.ConsumerGroup {
	if d.confirmationConsumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ConfirmationConsumerGroupID(),
			cfg.Kafka.ConfirmationConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create create-confirmation consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka create-confirmation consumer group", func(ctx context.Context) error {
			return consumerGroup.Close()
		})

		d.confirmationConsumerGroup = consumerGroup
	}

	return d.confirmationConsumerGroup
}

func (d *di) ConfirmationKafkaConsumer(ctx context.Context) kafka.Consumer {
	if d.confirmationKafkaConsumer == nil {
		d.confirmationKafkaConsumer = consumer.NewConsumer(
			d.ConfirmationConsumerGroup(ctx),
			[]string{
				config.C().Kafka.ConfirmationTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.confirmationKafkaConsumer
}

func (d *di) ConfirmationConsumer(ctx context.Context) ConfirmationConsumer {
	if d.confirmationConsumer == nil {
		d.confirmationConsumer = confconsumer.NewConfirmationConsumer(
			d.ConfirmationKafkaConsumer(ctx),
			d.ConfirmationConverter(ctx),
			d.SyncService(ctx),
		)
	}

	return d.confirmationConsumer
}

func (d *di) LowStockSyncProducer(ctx context.Context) sarama.SyncProducer {
	if d.lowStockSyncProducer == nil {
		cfg := config.C()

		syncProducer, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.LowStockProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create low-stock producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka low-stock producer", func(ctx context.Context) error {
			return syncProducer.Close()
		})

		d.lowStockSyncProducer = syncProducer
	}

	return d.lowStockSyncProducer
}

func (d *di) LowStockProducer(ctx context.Context) kafka.Producer {
	if d.lowStockProducer == nil {
		d.lowStockProducer = producer.NewProducer(
			d.LowStockSyncProducer(ctx),
			config.C().Kafka.LowStockTopic(),
			logger.L(),
		)
	}

	return d.lowStockProducer
}
