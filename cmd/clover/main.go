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
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/clover/config"
	investorrepo "github.com/Ramsey-B/clover/internal/repositories/investorprofile"
	matchrepo "github.com/Ramsey-B/clover/internal/repositories/match"
	startuprepo "github.com/Ramsey-B/clover/internal/repositories/startupprofile"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	investorroutes "github.com/Ramsey-B/clover/pkg/routes/investorprofile"
	matchroutes "github.com/Ramsey-B/clover/pkg/routes/match"
	startuproutes "github.com/Ramsey-B/clover/pkg/routes/startupprofile"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	ctx := context.Background()

	if cfg.TracingEnabled {
		shutdownTracing, err := initTracing(ctx, cfg)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize tracing")
		}
		defer shutdownTracing()
	}

	// PostgreSQL
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)
	sqlxDB, err := sqlx.Open(cfg.DatabaseDriver, dsn)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database connection")
	}
	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	db := database.NewDatabaseInstance(sqlxDB, logger)

	migrationService := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})

	// Repositories
	startupRepo := startuprepo.NewRepository(db, logger)
	investorRepo := investorrepo.NewRepository(db, logger)
	matchRepo := matchrepo.NewRepository(db, logger)

	// Kafka producer (match lifecycle events)
	var producer *kafka.Producer
	var emitter *events.Emitter
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		emitter = events.NewEmitter(producer, logger)
	}

	// Graph projection (match network queries)
	var graphClient *graph.Client
	var graphMatches *graph.MatchService
	if cfg.GraphDBEnabled {
		graphClient, err = graph.NewClient(graph.Config{
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create graph client")
		}
		graphMatches = graph.NewMatchService(graphClient, logger)
	}

	var matchEmitter matching.MatchEmitter
	if emitter != nil {
		matchEmitter = emitter
	}
	var matchProjector matching.MatchProjector
	if graphMatches != nil {
		matchProjector = graphMatches
	}

	generator := matching.NewGenerator(logger, startupRepo, investorRepo, matchRepo, matchEmitter, matchProjector, matching.Config{
		MinScore:     cfg.MatchMinScore,
		MaxGenerated: cfg.MatchMaxGenerated,
		MaxPreview:   cfg.MatchMaxPreview,
	})

	// Route handlers resolve their dependencies from ectoinject's default
	// container, so no per-request container wiring is needed.
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		logger.WithError(err).Fatal("Failed to create DI container")
	}
	registrations := []func() error{
		func() error { return ectoinject.RegisterInstance[ectologger.Logger](container, logger) },
		func() error { return ectoinject.RegisterInstance[*startuprepo.Repository](container, startupRepo) },
		func() error { return ectoinject.RegisterInstance[*investorrepo.Repository](container, investorRepo) },
		func() error { return ectoinject.RegisterInstance[*matchrepo.Repository](container, matchRepo) },
		func() error { return ectoinject.RegisterInstance[*matching.Generator](container, generator) },
	}
	if emitter != nil {
		registrations = append(registrations, func() error {
			return ectoinject.RegisterInstance[*events.Emitter](container, emitter)
		})
	}
	if graphMatches != nil {
		registrations = append(registrations, func() error {
			return ectoinject.RegisterInstance[*graph.MatchService](container, graphMatches)
		})
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			logger.WithError(err).Fatal("Failed to register dependencies")
		}
	}

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	api := e.Group("/api/v1")
	matchroutes.Register(api.Group("/matches"))
	startuproutes.Register(api.Group("/startups"))
	investorroutes.Register(api.Group("/investors"))

	var graphPinger interface{ Ping() error }
	if graphClient != nil {
		graphPinger = graphClient
	}
	checker := health.NewChecker(db, graphPinger, version)
	checker.RegisterRoutes(e)

	// Ordered startup with retries
	boot := startup.New(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&dependency{
		name: "database",
		start: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			driver, err := migratepg.WithInstance(sqlxDB.DB, &migratepg.Config{})
			if err != nil {
				return err
			}
			return migrationService.Migrate(cfg.DatabaseName, driver)
		},
		stop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	if graphClient != nil {
		boot.AddDependency(&dependency{
			name: "graph-database",
			start: func(ctx context.Context) error {
				return graphClient.VerifyConnectivity(ctx)
			},
			stop: func(ctx context.Context) error {
				return graphClient.Close(ctx)
			},
		})
	}
	if producer != nil {
		boot.AddDependency(&dependency{
			name:  "kafka-producer",
			start: func(ctx context.Context) error { return nil },
			stop: func(ctx context.Context) error {
				return producer.Close()
			},
		})
	}
	boot.AddDependency(&dependency{
		name:      "http-server",
		dependsOn: []string{"database"},
		start: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
					logger.WithError(err).Fatal("HTTP server stopped unexpectedly")
				}
			}()
			return nil
		},
		stop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Startup failed")
	}
	checker.SetReady(true)

	logger.WithFields(map[string]any{"port": cfg.Port, "version": version}).Info("clover is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	}
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func initTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingOTLPEndpoint,
		Protocol: cfg.TracingOTLPProtocol,
		Insecure: true,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.AppName),
			semconv.ServiceVersion(version),
		)),
	)
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}, nil
}

// dependency adapts start/stop funcs to the startup.Dependency interface.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string {
	return d.name
}

func (d *dependency) DependsOn() []string {
	return d.dependsOn
}

func (d *dependency) Start(ctx context.Context) error {
	return d.start(ctx)
}

func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}
