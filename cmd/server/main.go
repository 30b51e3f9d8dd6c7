package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/studyspot-booking/internal/auth"
	"github.com/iliyamo/studyspot-booking/internal/booking"
	"github.com/iliyamo/studyspot-booking/internal/catalog"
	"github.com/iliyamo/studyspot-booking/internal/config"
	"github.com/iliyamo/studyspot-booking/internal/database"
	"github.com/iliyamo/studyspot-booking/internal/handler"
	"github.com/iliyamo/studyspot-booking/internal/metrics"
	"github.com/iliyamo/studyspot-booking/internal/middleware"
	"github.com/iliyamo/studyspot-booking/internal/model"
	"github.com/iliyamo/studyspot-booking/internal/notify"
	"github.com/iliyamo/studyspot-booking/internal/queue"
	"github.com/iliyamo/studyspot-booking/internal/router"
	"github.com/iliyamo/studyspot-booking/internal/service"
	"github.com/iliyamo/studyspot-booking/internal/storage"
	"github.com/iliyamo/studyspot-booking/internal/store"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.NeedsRedis() || config.LoadRateLimitConfig().Enabled || config.LoadCacheConfig().Enabled {
		rdb = config.NewRedisClient(config.LoadRedisOptions())
		if rdb == nil {
			if cfg.NeedsRedis() {
				fatal("redis is required by the storage backend or sync transport but is unreachable")
			}
			logger.Warn("redis unreachable, rate limiting and response cache disabled")
		} else {
			defer rdb.Close()
		}
	}

	medium, closeMedium := openMedium(ctx, cfg, rdb)
	defer closeMedium()

	transport, closeTransport := openTransport(cfg, rdb, logger)
	defer closeTransport()

	bus := notify.NewBus()
	storeOpts := []store.OptionFunc{
		store.WithDebug(cfg.StoreDebug),
		store.WithBus(bus),
		store.WithLogger(logger),
		store.WithErrorHandler(metrics.ObserveStoreError),
	}
	if transport != nil {
		storeOpts = append(storeOpts, store.WithTransport(transport))
	}

	userStore := store.New[*model.User](ctx, auth.StorageKey, nil, medium, storeOpts...)
	defer userStore.Close()
	bookingStore := store.New(ctx, booking.StorageKey, []model.Booking{}, medium, storeOpts...)
	defer bookingStore.Close()

	cat, err := catalog.Default()
	if err != nil {
		fatal("load catalog", "error", err)
	}

	authSvc := auth.NewService(userStore,
		auth.WithTokens(cfg.JWTSecret, cfg.AccessTTLMin),
		auth.WithLogger(logger),
	)

	regOpts := []booking.Option{booking.WithLogger(logger)}
	if cfg.EventsEnabled {
		pub := service.NewBookingPublisher(cfg.RabbitMQURL, logger)
		defer pub.Close()
		regOpts = append(regOpts, booking.WithEventPublisher(pub))

		consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.EventsLogDir, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", "error", err)
			}
		}()
	}
	registry := booking.NewRegistry(bookingStore, regOpts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("http: request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	router.RegisterRoutes(e, &handler.HealthHandler{Storage: cfg.StorageBackend, Transport: cfg.SyncTransport})
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewSpaceHandler(cat), middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger))
	router.RegisterBookings(e, handler.NewBookingHandler(registry, cat, authSvc), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env,
			"storage", cfg.StorageBackend, "transport", cfg.SyncTransport, "bookings", registry.Total())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("http server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.StoreDebug || cfg.Env == "dev" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openMedium(ctx context.Context, cfg config.Config, rdb *redis.Client) (storage.Medium, func()) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return storage.NewRedis(rdb, cfg.RedisPrefix), func() {}
	case config.StorageMySQL:
		db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
		if err != nil {
			fatal("open mysql", "error", err)
		}
		m := storage.NewMySQL(db)
		if err := m.EnsureSchema(ctx); err != nil {
			fatal("ensure mysql schema", "error", err)
		}
		return m, closer(db)
	default:
		var opts []storage.MemoryOption
		if cfg.StorageQuota > 0 {
			opts = append(opts, storage.WithQuota(cfg.StorageQuota))
		}
		return storage.NewMemory(opts...), func() {}
	}
}

func openTransport(cfg config.Config, rdb *redis.Client, logger *slog.Logger) (notify.Transport, func()) {
	switch cfg.SyncTransport {
	case config.TransportRedis:
		return notify.NewRedisTransport(rdb, notify.DefaultRedisChannel, logger), func() {}
	case config.TransportAMQP:
		t, err := notify.DialAMQP(cfg.RabbitMQURL, notify.DefaultExchange, logger)
		if err != nil {
			fatal("dial rabbitmq", "error", err)
		}
		return t, func() { _ = t.Close() }
	default:
		return nil, func() {}
	}
}

func closer(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
