package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"modgate/internal/broker"
	"modgate/internal/config"
	"modgate/internal/constants"
	"modgate/internal/enrichment"
	"modgate/internal/logger"
	"modgate/internal/moderation"
	"modgate/internal/rules"
	"modgate/pkg/bootstrap"
	"modgate/pkg/circuitbreaker"
	"modgate/pkg/health"
	"modgate/pkg/metrics"
	"modgate/pkg/middleware"
	"modgate/pkg/ratelimit"
	"modgate/pkg/tracing"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "moderation-service"

type App struct {
	base           *bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	resultConsumer broker.Consumer
	service        *moderation.Service
	intake         *moderation.Intake
	resultLogger   *moderation.ResultLogger
	engine         *rules.Engine
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
	logger         logger.Logger
	config         *config.Config
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		logger:      log,
		config:      cfg,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.base.InitBroker(serviceName); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	resultConsumer, err := broker.NewConsumerWithGroup(a.config.Broker, a.config.Broker.Kafka.ResultLoggerGroupID, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create result consumer: %w", err)
	}
	resultConsumer.SetServiceName(serviceName + "-result-logger")
	a.resultConsumer = resultConsumer

	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.initPipeline(); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeoutSeconds,
		WriteTimeout: a.config.Server.WriteTimeoutSeconds,
	}

	tp, err := tracing.Init(a.config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mongoClient, err := a.dbConnector.InitMongoDB(initCtx)
	if err != nil {
		return err
	}
	a.mongoClient = mongoClient

	dbName := a.config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	if err := moderation.EnsureIndexes(initCtx, mongoClient.Database(dbName)); err != nil {
		return err
	}

	redisClient, err := a.dbConnector.InitRedis(initCtx)
	if err != nil {
		a.logger.WarnwCtx(initCtx, "Redis connection failed, marker cache disabled", "error", err)
	} else {
		a.redisClient = redisClient
	}

	return nil
}

func (a *App) initPipeline() error {
	dbName := a.config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}

	var store moderation.ResultStore = moderation.NewResultStore(a.mongoClient.Database(dbName))
	if a.redisClient != nil {
		store = moderation.NewCachedResultStore(store, a.redisClient, a.config.Moderation.RecordTTL, a.logger)
		a.logger.Infow("Processed-event marker cache enabled")
	}

	var breaker *circuitbreaker.Wrapper
	if a.config.CircuitBreaker.Enabled {
		breaker = circuitbreaker.NewWrapper(circuitbreaker.Config{
			Name:         "enrichment",
			MaxRequests:  a.config.CircuitBreaker.MaxRequests,
			Interval:     a.config.CircuitBreaker.Interval,
			Timeout:      a.config.CircuitBreaker.Timeout,
			FailureRatio: a.config.CircuitBreaker.FailureRatio,
			MinRequests:  a.config.CircuitBreaker.MinRequests,
		})
		a.logger.Infow("Enrichment circuit breaker enabled")
	}

	fetcher := enrichment.NewClient(a.config.Enrichment, breaker, a.logger)

	workingHours, err := rules.NewWorkingHoursRule(a.config.Moderation.Rules)
	if err != nil {
		return err
	}
	a.engine = rules.NewEngine(a.logger,
		rules.NewDuplicateEventRule(store),
		rules.NewActiveRequestRule(a.config.Moderation.Rules),
		workingHours,
	)
	a.logger.Infow("Moderation rules registered", "rules", a.engine.RegisteredRules())

	publisher := moderation.NewResultPublisher(a.base.Producer, a.config.Broker.Kafka.OutputTopic, a.logger)

	a.service = moderation.NewService(fetcher, a.engine, store, publisher, a.config.Moderation.RecordTTL, a.logger)
	a.intake = moderation.NewIntake(a.service, a.logger)
	a.resultLogger = moderation.NewResultLogger(a.logger)

	return nil
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(serviceName))
	}

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	if a.config.API.RateLimit.Enabled {
		rateLimitConfig := ratelimit.DefaultConfig()
		if a.config.API.RateLimit.RPS > 0 {
			rateLimitConfig.RPS = a.config.API.RateLimit.RPS
		}
		if a.config.API.RateLimit.Burst > 0 {
			rateLimitConfig.Burst = a.config.API.RateLimit.Burst
		}
		router.Use(ratelimit.Middleware(rateLimitConfig))
		a.logger.Infow("Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	handler := moderation.NewHandler(a.service, a.engine, a.base.Producer, a.config.Broker.Kafka.InputTopic, a.logger)
	handler.RegisterRoutes(router)

	metrics.RegisterModerationMetrics()
	metrics.RegisterEnrichmentMetrics()
	metrics.RegisterAPIMetrics()
	if a.config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))
	healthRegistry.Register(health.NewKafkaChecker(a.config.Broker.Kafka.Brokers))
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(runCtx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := a.base.Consumer.Consume(runCtx, a.config.Broker.Kafka.InputTopic, a.intake.Handler())
		if err != nil && runCtx.Err() == nil {
			return fmt.Errorf("intake consumer error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := a.resultConsumer.Consume(runCtx, a.config.Broker.Kafka.OutputTopic, a.resultLogger.Handler())
		if err != nil && runCtx.Err() == nil {
			return fmt.Errorf("result consumer error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()
		return a.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
	defer cancel()

	return a.base.Shutdown(shutdownCtx, func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			if err := a.server.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
			}
		}

		if a.resultConsumer != nil {
			if err := a.resultConsumer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("result consumer close error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.mongoClient)...)
		return errs
	})
}
