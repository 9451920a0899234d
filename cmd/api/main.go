package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docusafe/docs"
	"docusafe/internal/broadcast"
	"docusafe/internal/config"
	"docusafe/internal/database"
	"docusafe/internal/database/migration"
	handlers "docusafe/internal/http/handler"
	"docusafe/internal/http/middleware"
	"docusafe/internal/logging"
	"docusafe/internal/otel"
	"docusafe/internal/repository/kv"
	"docusafe/internal/seed"
	"docusafe/internal/service"
	"docusafe/internal/storage"
	"docusafe/internal/store"
	"docusafe/internal/store/memory"
	"docusafe/internal/store/mongodb"
	"docusafe/internal/store/postgres"
	"docusafe/internal/syncfeed"
)

const maxBodyBytes = 32 << 20

// @title DocuSafe API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location())
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server_stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	base, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	hubMetrics, err := broadcast.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register hub metrics: %w", err)
	}
	hub := broadcast.NewHub(broadcast.WithBuffer(cfg.Sync.BufferSize), broadcast.WithMetrics(hubMetrics))
	kvStore := store.NewBroadcasting(base, hub)

	if cfg.SeedData {
		data, err := seed.Default()
		if err != nil {
			return fmt.Errorf("load seed data: %w", err)
		}
		if _, err := seed.Apply(ctx, kvStore, data, logging.Component(log, "seed")); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
	}

	// Initialize object storage for document files
	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	// Initialize repositories and services
	repoLog := logging.Component(log, "repository")
	users := kv.NewUserRepository(kvStore, repoLog)
	sessions := kv.NewSessionRepository(kvStore, repoLog)
	documents := kv.NewDocumentRepository(kvStore, repoLog)
	categories := kv.NewCategoryRepository(kvStore, repoLog)
	logs := kv.NewLogRepository(kvStore, repoLog)
	branding := kv.NewBrandingRepository(kvStore, repoLog)

	svcLog := logging.Component(log, "service")
	audit := service.NewActivityLog(logs, sessions)
	authSvc := service.NewAuthService(users, sessions, audit, jwtSecret(cfg.Auth, log), cfg.Auth.TokenTTL(), svcLog)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    maxBodyBytes,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	// RequestID first so every later middleware and the error handler can read it.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		Store:      kvStore,
		Auth:       authSvc,
		Documents:  service.NewDocumentService(files, documents, categories, sessions, audit, svcLog),
		Users:      service.NewUserService(users, sessions, audit, svcLog),
		Categories: service.NewCategoryService(categories, audit, svcLog),
		Activity:   audit,
		Branding:   service.NewBrandingService(branding, audit, svcLog),
		Backup:     service.NewBackupService(users, documents, branding, categories, logs, sessions, audit, svcLog),
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	feed := syncfeed.New(hub, authSvc, time.Duration(cfg.Sync.WriteTimeout)*time.Second, logging.Component(log, "syncfeed"))
	syncSrv := &http.Server{
		Addr:              ":" + cfg.Sync.Port,
		Handler:           otelhttp.NewHandler(feed.Router(), "syncfeed"),
		ReadHeaderTimeout: 10 * time.Second,
		// Open feeds observe ctx and close when shutdown starts.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("sync_listening", "component", "syncfeed", "addr", syncSrv.Addr)
		if err := syncSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("sync listener: %w", err)
		}
	}()
	go func() {
		addr := ":" + cfg.Port
		log.Info("http_listening", "component", "http", "addr", addr)
		if err := app.Listen(addr); err != nil {
			errCh <- fmt.Errorf("http listener: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_started")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", "error", err.Error())
	}
	if err := syncSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("sync_shutdown_failed", "error", err.Error())
	}
	log.Info("shutdown_complete")
	return nil
}

// openStore connects the configured key-value backend.
func openStore(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres", "":
		db, err := database.NewPostgres(ctx, cfg.Database, logging.Component(log, "database"))
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return postgres.New(db), func() { _ = db.Close() }, nil
	case "mongo", "mongodb":
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		log.Info("mongo_connected", "component", "store", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
		return mongodb.New(coll), func() { _ = client.Disconnect(context.Background()) }, nil
	case "memory":
		log.Warn("memory_store_selected", "component", "store", "detail", "data is lost on restart")
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// jwtSecret falls back to a random per-process key so tokens simply
// expire on restart when no secret is configured.
func jwtSecret(c config.AuthConfig, log *slog.Logger) []byte {
	if c.JWTSecret != "" {
		return []byte(c.JWTSecret)
	}
	log.Warn("jwt_secret_missing", "component", "auth", "detail", "using a random key for this process")
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}
