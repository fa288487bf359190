package main

import (
	"context"
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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"signage/docs"
	"signage/internal/config"
	handlers "signage/internal/http/handler"
	"signage/internal/http/middleware"
	"signage/internal/logger"
	"signage/internal/metrics"
	appotel "signage/internal/otel"
	"signage/internal/repository/file"
	"signage/internal/service"
	"signage/internal/storage"
)

// multipartSlack covers multipart headers and boundaries around the file part.
const multipartSlack = 1 << 20

// @title Signage Playlist API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Location())
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	backend, err := storage.New(cfg.Storage, cfg.MinIO, cfg.WebDAV)
	if err != nil {
		log.Fatal("failed to initialize media storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}

	storeMetrics, err := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register store metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	media := storage.NewMediaStore(backend, cfg.Storage.MaxUploadBytes)
	svc := service.NewPlaylistService(
		media,
		file.NewURLFile(cfg.Storage),
		service.WithLogger(log),
		service.WithMetrics(storeMetrics),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(media.MaxBytes() + multipartSlack),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, svc, handlers.Options{
		SlideshowFile:  cfg.SlideshowFile,
		MaxUploadBytes: media.MaxBytes(),
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

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
		log.Info("server starting",
			zap.String("addr", addr),
			zap.String("backend", cfg.Storage.Backend),
			zap.String("url_file", cfg.Storage.URLFile),
		)
		if err := app.Listen(addr); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("failed to shut down server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}
}
