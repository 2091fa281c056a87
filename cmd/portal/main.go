// Command portal serves the Deepmetric institute portal API.
//
// @title                       Deepmetric Institute Portal API
// @version                     1.0
// @description                 Course catalog, enrollment and completion approval, reviews, advisor and certificates.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/deepmetric/institute-portal/docs"
	"github.com/deepmetric/institute-portal/internal/api"
	"github.com/deepmetric/institute-portal/internal/core/ports"
	"github.com/deepmetric/institute-portal/internal/core/service"
	"github.com/deepmetric/institute-portal/internal/infrastructure/ai"
	"github.com/deepmetric/institute-portal/internal/infrastructure/certificate"
	mongodb "github.com/deepmetric/institute-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/deepmetric/institute-portal/internal/infrastructure/db/redis"
	"github.com/deepmetric/institute-portal/internal/infrastructure/http/handlers"
	"github.com/deepmetric/institute-portal/internal/infrastructure/notify"
	"github.com/deepmetric/institute-portal/internal/infrastructure/queue"
	"github.com/deepmetric/institute-portal/internal/infrastructure/storage"
	"github.com/deepmetric/institute-portal/internal/pkg/config"
	"github.com/deepmetric/institute-portal/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	dedupTTL        = time.Hour
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
	log.Info().Msg("portal stopped")
}

// backend is the selected persistence driver.
type backend struct {
	kv      storage.KV
	dedup   ports.IdempotencyStore
	checks  map[string]handlers.Pinger
	closeFn func(context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		kv := redisdb.NewKV(client, cfg.Redis.Prefix)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis storage")
		return &backend{
			kv:      kv,
			dedup:   redisdb.NewDedupStore(client, cfg.Redis.Prefix),
			checks:  map[string]handlers.Pinger{"redis": kv},
			closeFn: func(context.Context) error { return client.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		kv := mongodb.NewKV(db, cfg.Mongo.Collection)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo storage")
		return &backend{
			kv:      kv,
			dedup:   storage.NewMemoryIdempotency(dedupTTL),
			checks:  map[string]handlers.Pinger{"mongodb": kv},
			closeFn: client.Disconnect,
		}, nil

	default:
		log.Warn().Msg("using in-memory storage, state is lost on restart")
		return &backend{
			kv:      storage.NewMemoryKV(),
			dedup:   storage.NewMemoryIdempotency(dedupTTL),
			checks:  map[string]handlers.Pinger{},
			closeFn: func(context.Context) error { return nil },
		}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := be.closeFn(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	store := storage.NewStore(be.kv, logger.Component("storage"))
	be.checks["storage"] = store

	// --- Notifications ---
	feed := notify.NewFeed(cfg.Notify.TTL)
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, logger.Component("dispatcher"),
		feed, notify.NewLogSink(logger.Component("email")))

	// --- Services ---
	catalog := service.NewCatalogService(store, store, be.dedup, dispatcher, logger.Component("catalog"))
	enrollment := service.NewEnrollmentService(store, catalog, dispatcher, logger.Component("enrollment"))

	aiClient := ai.NewClient(ai.Config{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
		RPS:        cfg.AI.RPS,
	}, logger.Component("ai"))
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, advisor will be unavailable")
	}
	advisor := service.NewAdvisorService(aiClient, aiClient, catalog, logger.Component("advisor"))

	png, err := certificate.NewPNGRenderer()
	if err != nil {
		return fmt.Errorf("load certificate fonts: %w", err)
	}
	certs := service.NewCertificateService(enrollment, catalog, png, certificate.HTMLRenderer{},
		cfg.CertIssuer, dispatcher, logger.Component("certificate"))

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "dev-secret"
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	e := api.NewRouter(api.Deps{
		Enrollment:   enrollment,
		Catalog:      catalog,
		Advisor:      advisor,
		Certificates: certs,
		Feed:         feed,
		Tokens:       service.NewTokenIssuer(jwtSecret, cfg.TokenTTL),
		JWTSecret:    jwtSecret,
		AdminEmails:  cfg.AdminEmails,
		Readiness:    be.checks,
		Log:          logger.Component("http"),
	})

	g, gctx := errgroup.WithContext(ctx)

	dispatcher.Start(gctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("storage", cfg.StorageDriver).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
