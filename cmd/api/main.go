package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fadebook/internal/access"
	"fadebook/internal/api"
	"fadebook/internal/config"
	"fadebook/internal/database"
	"fadebook/internal/domain"
	"fadebook/internal/events"
	"fadebook/internal/export"
	"fadebook/internal/logging"
	"fadebook/internal/metrics"
	"fadebook/internal/models"
	"fadebook/internal/notifications"
	"fadebook/internal/repository"
	"fadebook/internal/service"
	"fadebook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	catalog, err := loadCatalog(cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	accessState, redisCloser := initAccessState(cfg, logger)
	if redisCloser != nil {
		defer redisCloser.Close()
	}
	accessSvc := access.NewService(cfg.Access.CustomerCode, cfg.Access.AdminCode, accessState, logger)

	bus := events.NewEventBus()
	availability := service.NewAvailabilityService(db, logger)
	bookings := service.NewBookingService(db, availability, catalog, bus, cfg.Booking.MaxDaysAhead, logger)
	exporter := export.NewExporter(catalog, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startNotifications(ctx, cfg, bus, logger)
	startMetrics(ctx, cfg, logger)

	httpServer := api.NewHTTPServer(cfg.Server, bookings, availability, accessSvc, catalog, exporter, logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()
	logger.Info().Int("port", cfg.Server.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func loadCatalog(path string, logger zerolog.Logger) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", path).Msg("read catalog")
		return nil, err
	}

	var catalogConfig struct {
		Services []models.Service `yaml:"services"`
		Extras   []models.Extra   `yaml:"extras"`
	}
	if err := yaml.Unmarshal(data, &catalogConfig); err != nil {
		logger.Error().Err(err).Str("catalog_path", path).Msg("parse catalog")
		return nil, err
	}
	if len(catalogConfig.Services) == 0 {
		return nil, fmt.Errorf("catalog %s contains no services", path)
	}

	return models.NewCatalog(catalogConfig.Services, catalogConfig.Extras), nil
}

// initAccessState собирает хранилище счётчиков доступа: Redis с
// фолбэком в память, либо только память, если Redis не настроен.
func initAccessState(cfg *config.Config, logger zerolog.Logger) (domain.AccessStateRepository, io.Closer) {
	memory := repository.NewMemoryAccessStateRepository()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory access state")
		return memory, nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with failover repository")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	primary := repository.NewRedisAccessStateRepository(client, time.Duration(cfg.Redis.TTL)*time.Second)
	return repository.NewFailoverAccessStateRepository(primary, memory, logger), client
}

func startNotifications(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger zerolog.Logger) {
	n := cfg.Notifications
	notifier := notifications.NewBrevoClient(n.BrevoAPIKey, n.SenderEmail, n.SenderName, n.OwnerEmail, n.OwnerName)
	if notifier == nil {
		logger.Info().Msg("brevo not configured, notifications disabled")
		return
	}

	notifyWorker := worker.NewNotifyWorker(notifier, worker.RetryPolicy{MaxRetries: n.MaxRetries}, logger)
	notifyWorker.SubscribeTo(bus)
	notifyWorker.Start(ctx)
	logger.Info().Str("owner", n.OwnerEmail).Msg("booking notifications enabled")
}

func startMetrics(ctx context.Context, cfg *config.Config, logger zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
