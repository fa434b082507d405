package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/go-playground/validator/v10"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/flavorgraph/basil/config"
	ingredientrepo "github.com/flavorgraph/basil/internal/repositories/ingredient"
	reciperepo "github.com/flavorgraph/basil/internal/repositories/recipe"
	relationrepo "github.com/flavorgraph/basil/internal/repositories/relation"
	similarityrepo "github.com/flavorgraph/basil/internal/repositories/similarity"
	"github.com/flavorgraph/basil/pkg/database"
	"github.com/flavorgraph/basil/pkg/events"
	"github.com/flavorgraph/basil/pkg/graph"
	"github.com/flavorgraph/basil/pkg/kafka"
	"github.com/flavorgraph/basil/pkg/loader"
	"github.com/flavorgraph/basil/pkg/middleware"
	"github.com/flavorgraph/basil/pkg/processor"
	datasetroutes "github.com/flavorgraph/basil/pkg/routes/dataset"
	graphroutes "github.com/flavorgraph/basil/pkg/routes/graph"
	"github.com/flavorgraph/basil/pkg/routes/health"
	ingredientroutes "github.com/flavorgraph/basil/pkg/routes/ingredient"
	reciperoutes "github.com/flavorgraph/basil/pkg/routes/recipe"
	similarityroutes "github.com/flavorgraph/basil/pkg/routes/similarity"
	statsroutes "github.com/flavorgraph/basil/pkg/routes/stats"
	"github.com/flavorgraph/basil/pkg/startup"
	"github.com/flavorgraph/basil/pkg/stats"
	"github.com/flavorgraph/basil/pkg/tracing"
)

const version = "1.0.0"

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer zapLogger.Sync()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	if err := loader.ValidateMappings(); err != nil {
		fatal(logger, err, "Invalid loader field mappings")
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	ctx := context.Background()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName,
		cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)
	sqlxDB, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		fatal(logger, err, "Failed to connect to database")
	}
	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	db := database.NewDatabaseInstance(sqlxDB, logger)

	migrationDriver, err := migratepg.WithInstance(sqlxDB.DB, &migratepg.Config{})
	if err != nil {
		fatal(logger, err, "Failed to create migration driver")
	}
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	if err := migrations.Migrate(cfg.DatabaseName, migrationDriver); err != nil {
		fatal(logger, err, "Failed to run database migrations")
	}

	var graphClient *graph.Client
	var catalogService *graph.CatalogService
	if cfg.GraphDBEnabled {
		graphClient, err = graph.NewClient(graph.Config{
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			fatal(logger, err, "Failed to create graph client")
		}
		catalogService = graph.NewCatalogService(graphClient, logger)
	}

	var producer *kafka.Producer
	if cfg.KafkaEventsEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
	}
	emitter := events.NewEmitter(producer, logger)

	recipeRepo := reciperepo.NewRepository(db, logger)
	ingredientRepo := ingredientrepo.NewRepository(db, logger)
	relationRepo := relationrepo.NewRepository(db, logger)
	similarityRepo := similarityrepo.NewRepository(db, logger)

	proc := processor.NewProcessor(logger, cfg, recipeRepo, ingredientRepo, relationRepo, similarityRepo, catalogService, emitter)
	analyzer := stats.NewAnalyzer(logger, stats.Config{
		UncommonThreshold: cfg.UncommonThreshold,
		PopularTopN:       cfg.PopularTopN,
	})

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		fatal(logger, err, "Failed to create DI container")
	}
	mustRegister(logger, ectoinject.RegisterInstance[*reciperepo.Repository](container, recipeRepo))
	mustRegister(logger, ectoinject.RegisterInstance[*ingredientrepo.Repository](container, ingredientRepo))
	mustRegister(logger, ectoinject.RegisterInstance[*relationrepo.Repository](container, relationRepo))
	mustRegister(logger, ectoinject.RegisterInstance[*similarityrepo.Repository](container, similarityRepo))
	mustRegister(logger, ectoinject.RegisterInstance[*processor.Processor](container, proc))
	mustRegister(logger, ectoinject.RegisterInstance[*stats.Analyzer](container, analyzer))

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(cfg, logger, proc.HandleRecordMessage)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	api := e.Group("/api/v1")
	datasetroutes.Register(api.Group("/datasets"))
	reciperoutes.Register(api.Group("/recipes"))
	ingredientroutes.Register(api.Group("/ingredients"))
	similarityroutes.Register(api.Group("/similarity"))
	statsroutes.Register(api.Group("/stats"))
	graphroutes.Register(api.Group("/graph"))

	var graphPinger health.GraphPinger
	if graphClient != nil {
		graphPinger = graphClient
	}
	checker := health.NewChecker(sqlxDB, graphPinger, version)
	checker.RegisterRoutes(e)

	manager := startup.NewStartup[any](logger, cfg.StartupMaxAttempts)
	manager.AddDependency(&serverDependency{e: e, cfg: cfg, logger: logger})
	if consumer != nil {
		manager.AddDependency(&consumerDependency{consumer: consumer})
	}

	if err := manager.Start(ctx); err != nil {
		fatal(logger, err, "Failed to start")
	}
	checker.SetReady(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := manager.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to stop cleanly")
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Error("Failed to close Kafka producer")
		}
	}
	if graphClient != nil {
		if err := graphClient.Close(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to close graph client")
		}
	}
	if err := sqlxDB.Close(); err != nil {
		logger.WithError(err).Error("Failed to close database")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down tracer provider")
	}
}

func mustRegister(logger ectologger.Logger, err error) {
	if err != nil {
		fatal(logger, err, "Failed to register dependency")
	}
}

func fatal(logger ectologger.Logger, err error, msg string) {
	logger.WithError(err).Error(msg)
	os.Exit(1)
}

type serverDependency struct {
	e      *echo.Echo
	cfg    config.Config
	logger ectologger.Logger
}

func (d *serverDependency) GetName() string     { return "http-server" }
func (d *serverDependency) DependsOn() []string { return nil }

func (d *serverDependency) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.cfg.Port),
		ReadTimeout:       time.Duration(d.cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(d.cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(d.cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(d.cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    d.cfg.MaxHeaderBytes,
	}
	go func() {
		if err := d.e.StartServer(server); err != nil && err != http.ErrServerClosed {
			fatal(d.logger, err, "HTTP server stopped unexpectedly")
		}
	}()
	return nil
}

func (d *serverDependency) Stop(ctx context.Context) error {
	return d.e.Shutdown(ctx)
}

type consumerDependency struct {
	consumer *kafka.Consumer
}

func (d *consumerDependency) GetName() string     { return "kafka-consumer" }
func (d *consumerDependency) DependsOn() []string { return []string{"http-server"} }

func (d *consumerDependency) Start(ctx context.Context) error {
	return d.consumer.Start(ctx)
}

func (d *consumerDependency) Stop(ctx context.Context) error {
	return d.consumer.Stop()
}
