package main

import (
	"context"
	"encoding/json"
	"log"
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

	"patientdocs/docs"
	"patientdocs/internal/cache"
	"patientdocs/internal/config"
	"patientdocs/internal/database"
	"patientdocs/internal/database/migration"
	handlers "patientdocs/internal/http/handler"
	"patientdocs/internal/http/middleware"
	"patientdocs/internal/otel"
	"patientdocs/internal/repository/postgres"
	"patientdocs/internal/service"
	"patientdocs/internal/storage"
	"patientdocs/internal/token"
)

// @title Patient Documents API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	objStore, err := newBlobStorage(cfg.Blob)
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}

	docCache := newDocumentCache(cfg.Redis, loc)

	tokens, err := token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	if err != nil {
		log.Fatalf("failed to initialize token manager: %v", err)
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo, docCache)
	authSvc := service.NewAuthService(userRepo, tokens)

	app := handlers.NewApp()

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, authSvc, docSvc)

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

	addr := ":" + cfg.Port

	go func() {
		<-ctx.Done()
		app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newBlobStorage picks the document byte store. MinIO is used when an
// endpoint is configured, otherwise PDFs are written under cfg.LocalDir.
func newBlobStorage(cfg config.BlobConfig) (storage.Storage, error) {
	if cfg.MinIO.Endpoint != "" {
		return storage.NewMinIO(cfg.MinIO)
	}
	return storage.NewFilesystem(cfg.LocalDir)
}

// newDocumentCache connects to Redis when an address is configured.
// Cache failures never block startup; the service runs uncached instead.
func newDocumentCache(cfg config.RedisConfig, loc *time.Location) cache.DocumentCache {
	if cfg.Addr == "" {
		return cache.Noop{}
	}

	c, err := cache.NewRedis(cfg)
	if err != nil {
		logJSON(loc, "warn", "cache_unavailable", map[string]any{
			"redis_addr": cfg.Addr,
			"error":      err.Error(),
		})
		return cache.Noop{}
	}
	return c
}

func logJSON(loc *time.Location, level, msg string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().In(loc).Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
