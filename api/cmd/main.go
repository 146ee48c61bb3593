package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	zlog "github.com/rs/zerolog/log"

	"github.com/groupware-kr/calendar-service/internal/application/event"
	"github.com/groupware-kr/calendar-service/internal/config"
	"github.com/groupware-kr/calendar-service/internal/infrastructure/caching/redis"
	"github.com/groupware-kr/calendar-service/internal/infrastructure/db/postgres"
	"github.com/groupware-kr/calendar-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/groupware-kr/calendar-service/internal/infrastructure/storage"
	"github.com/groupware-kr/calendar-service/internal/logger"
	"github.com/groupware-kr/calendar-service/internal/transport/http/handlers"
	authmw "github.com/groupware-kr/calendar-service/internal/transport/http/middleware"
	"github.com/groupware-kr/calendar-service/internal/transport/http/router"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Postgres ----
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		pingCtx, cancel := context.WithTimeout(rootCtx, 3*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
		zlog.Info().Msg("postgres connected")
	}

	repo := postgres.New(db)

	// ---- Redis cache (best effort) ----
	var cache event.Cache
	if cfg.RedisURL != "" {
		c, err := redis.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, detail caching disabled")
		} else {
			cache = c
			zlog.Info().Msg("redis connected")
		}
	}

	// ---- RabbitMQ change feed ----
	var pub event.ChangePublisher = event.NoopPublisher{}
	var consumer *rabbitmq.Consumer
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		defer p.Close()
		pub = p

		c, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit consumer init failed")
		}
		defer c.Close()
		consumer = c
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit connected")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: falling back to cron refresh only")
	}

	// ---- Event store ----
	store := event.NewStore(repo, sysClock{}, pub, cache, cfg.Location(), cfg.CacheTTLDetails)

	{
		loadCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		defer cancel()
		if err := store.Refresh(loadCtx); err != nil {
			// the first request will retry; do not refuse to start
			zlog.Warn().Err(err).Msg("initial snapshot load failed")
		}
	}

	if consumer != nil {
		consumer.Start(rootCtx)
		go store.Watch(rootCtx, consumer.Notes())
	}

	// Periodic refresh catches anything the change feed missed.
	cr := cron.New()
	if _, err := cr.AddFunc(cfg.RefreshCron, func() {
		ctx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
		defer cancel()
		if err := store.Refresh(ctx); err != nil {
			zlog.Warn().Err(err).Msg("scheduled refresh failed")
		}
	}); err != nil {
		zlog.Fatal().Err(err).Str("spec", cfg.RefreshCron).Msg("invalid REFRESH_CRON")
	}
	cr.Start()
	defer cr.Stop()

	// ---- Attachments ----
	var attachments *handlers.AttachmentsHandler
	if cfg.S3AccessKeyID != "" {
		s3c, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    cfg.S3UsePathStyle,
		}, logger.Logger)
		if err != nil {
			zlog.Fatal().Err(err).Msg("s3 client init failed")
		}
		attachments = handlers.NewAttachmentsHandler(store, s3c, cfg.AttachmentURLTTL)
		zlog.Info().Str("bucket", cfg.S3Bucket).Msg("attachment storage ready")
	} else {
		zlog.Warn().Msg("S3 credentials empty: attachment uploads disabled")
	}

	// ---- Transport ----
	h := router.Handlers{
		Events:      handlers.NewEventsHandler(store),
		Views:       handlers.NewViewsHandler(store, sysClock{}, cfg.CellBudget),
		Feed:        handlers.NewFeedHandler(store, sysClock{}),
		Attachments: attachments,
		Health:      handlers.NewHealthHandler(),
	}
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, auth, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		zlog.Info().Msg("shutdown signal received")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	zlog.Info().Msg("shutdown complete")
}
