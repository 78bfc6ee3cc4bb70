package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpadapter "pickup/internal/adapters/in/http"
	"pickup/internal/adapters/out/cainiao"
	"pickup/internal/adapters/out/kafka"
	"pickup/internal/adapters/out/postgres"
	"pickup/internal/adapters/out/redislock"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/ports"
	"pickup/internal/jobs"
	"pickup/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type closablePublisher interface {
	ports.OrderEventPublisher
	Close() error
}

// CompositionRoot wires adapters into use case handlers.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *zap.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	gateway    ports.PickupGateway
	publisher  closablePublisher
	lock       ports.BatchLock
	redis      *redis.Client
}

// NewCompositionRoot builds the shared adapters. Kafka publishing is enabled
// only when brokers are configured and the batch lock uses Redis only when
// an address is set; otherwise no-op and in-process stand-ins are used.
//
// Example:
//
//	db, err := cmd.OpenDatabase(config, logger)
//	if err != nil {
//	    return err
//	}
//	app := cmd.NewCompositionRoot(config, db, logger)
//	defer app.Close()
func NewCompositionRoot(config Config, gormDB *gorm.DB, log *zap.Logger) *CompositionRoot {
	root := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     log,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, log),
		gateway:    cainiao.NewGateway(cainiao.NewClient(config.GatewayTimeout, log)),
	}

	if len(config.KafkaBrokers) > 0 {
		root.publisher = kafka.NewOrderEventPublisher(config.KafkaBrokers, config.KafkaOrderChangedTopic, log)
	} else {
		log.Info("no kafka brokers configured, order events are not published")
		root.publisher = kafka.NoopPublisher{}
	}

	if config.RedisAddr != "" {
		root.redis = redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		root.lock = redislock.NewRedisBatchLock(root.redis, "pickup:")
	} else {
		log.Info("no redis configured, batch lock is process-local")
		root.lock = redislock.NewInMemoryBatchLock()
	}

	return root
}

// OpenDatabase connects to PostgreSQL with SQL logged through zap.
func OpenDatabase(config Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(config.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(log, logger.GormLevel(config.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Ping checks the optional Redis connection.
func (c *CompositionRoot) Ping(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	return nil
}

// Migrate creates or updates the database schema.
func (c *CompositionRoot) Migrate() error {
	return postgres.Migrate(c.gormDB)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// CreateCreatePickupOrderCommandHandler wires the create use case.
func (c *CompositionRoot) CreateCreatePickupOrderCommandHandler() *commands.CreatePickupOrderCommandHandler {
	h := commands.NewCreatePickupOrderCommandHandler(c.uow(), c.gateway, c.publisher, c.logger)
	return &h
}

// CreateCancelOrderCommandHandler wires the cancel use case.
func (c *CompositionRoot) CreateCancelOrderCommandHandler() *commands.CancelOrderCommandHandler {
	h := commands.NewCancelOrderCommandHandler(c.uow(), c.gateway, c.publisher, c.logger)
	return &h
}

// CreateModifyOrderCommandHandler wires the modify use case.
func (c *CompositionRoot) CreateModifyOrderCommandHandler() *commands.ModifyOrderCommandHandler {
	h := commands.NewModifyOrderCommandHandler(c.uow(), c.gateway, c.logger)
	return &h
}

// CreateSyncOrderDetailCommandHandler wires order-detail sync with the
// configured batch lock and TTL.
func (c *CompositionRoot) CreateSyncOrderDetailCommandHandler() *commands.SyncOrderDetailCommandHandler {
	h := commands.NewSyncOrderDetailCommandHandler(
		c.uow(), c.gateway, c.publisher, c.lock, c.config.BatchLockTTL, c.logger)
	return &h
}

// CreateSyncLogisticsCommandHandler wires logistics sync with the configured
// batch lock and TTL.
func (c *CompositionRoot) CreateSyncLogisticsCommandHandler() *commands.SyncLogisticsCommandHandler {
	h := commands.NewSyncLogisticsCommandHandler(c.uow(), c.gateway, c.lock, c.config.BatchLockTTL, c.logger)
	return &h
}

// CreateGetOrderQueryHandler wires the single-order read model.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// CreateListOrdersQueryHandler wires the order list read model.
func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer loads and validates the embedded API description and
// builds the HTTP server over all handlers.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*httpadapter.Server, error) {
	doc, err := httpadapter.LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:     c.CreateCreatePickupOrderCommandHandler(),
		CancelOrder:     c.CreateCancelOrderCommandHandler(),
		ModifyOrder:     c.CreateModifyOrderCommandHandler(),
		SyncOrderDetail: c.CreateSyncOrderDetailCommandHandler(),
		SyncLogistics:   c.CreateSyncLogisticsCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
	}, doc, c.logger), nil
}

// CreateJobManager builds both sync jobs with the configured schedules and
// run timeout.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewOrderSyncJob(c.CreateSyncOrderDetailCommandHandler(),
			c.config.OrderSyncSchedule, c.config.SyncRunTimeout, c.logger),
		jobs.NewLogisticsSyncJob(c.CreateSyncLogisticsCommandHandler(),
			c.config.LogisticsSyncSchedule, c.config.SyncRunTimeout, c.logger),
	)
}

// Close releases the publisher, Redis and database connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	if err := c.publisher.Close(); err != nil {
		errList = append(errList, fmt.Errorf("close publisher: %w", err))
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close redis: %w", err))
		}
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errList...)
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create calls f.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
