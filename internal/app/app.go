package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/auth"
	"github.com/HashibulAmin/reward-claim/internal/claims"
	"github.com/HashibulAmin/reward-claim/internal/config"
	"github.com/HashibulAmin/reward-claim/internal/httpserver"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/index"
	"github.com/HashibulAmin/reward-claim/internal/logger"
	"github.com/HashibulAmin/reward-claim/internal/redis"
	"github.com/HashibulAmin/reward-claim/internal/scheduler"
	mongostore "github.com/HashibulAmin/reward-claim/internal/store/mongo"
	redisstore "github.com/HashibulAmin/reward-claim/internal/store/redis"
	"github.com/HashibulAmin/reward-claim/internal/version"
)

// backend is what the app needs from either document store.
type backend interface {
	claims.Store
	scheduler.LinkStore
	deps.Pinger
}

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	closeStore func(ctx context.Context) error
	reloader   *scheduler.AdminReloader
	expirer    *scheduler.LinkExpirer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Connect the store early - fail fast if unavailable
	store, closeStore, err := openStore(context.Background(), cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}
	loggerClient.Info("store initialized successfully", logger.String("backend", cfg.StoreBackend))

	admins := index.NewAdminIndex()

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewAdminReloader(
		cfg.AdminFile,
		admins,
		loggerClient,
		cfg.AdminReloadInterval,
		reloadTrigger,
	)

	var expirer *scheduler.LinkExpirer
	if cfg.LinkMaxAge > 0 {
		expirer = scheduler.NewLinkExpirer(store, loggerClient, cfg.ExpiryInterval, cfg.LinkMaxAge)
	} else {
		loggerClient.Info("link max age not configured, links never expire")
	}

	opts := claims.Options{
		Store:         store,
		Logger:        loggerClient,
		PublicBaseURL: cfg.PublicBaseURL,
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RequestTimeout:  cfg.RequestTimeout,
		ClaimRateBurst:  cfg.ClaimRateBurst,
		ClaimRatePerMin: cfg.ClaimRatePerMin,
		Store:           store,
		StoreBackend:    cfg.StoreBackend,
		Links:           claims.NewLinks(opts),
		Coordinator:     claims.NewCoordinator(opts),
		Aggregator:      claims.NewAggregator(opts),
		Auth:            auth.NewAuthenticator(admins, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), loggerClient),
		Admins:          admins,
		ReloadTrigger:   reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		closeStore: closeStore,
		reloader:   reloader,
		expirer:    expirer,
	}
}

// openStore connects the configured backend and returns it with its close func.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (backend, func(context.Context) error, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		log.Info("Connecting to MongoDB", logger.String("database", cfg.MongoDatabase))
		client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoConnectTimeout, log)
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewStore(client, cfg.MongoDatabase)

		idxCtx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
		defer cancel()
		if err := store.EnsureIndexes(idxCtx); err != nil {
			_ = store.Close(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return store, store.Close, nil

	default:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		store := redisstore.NewStore(client)
		return store, func(context.Context) error { return store.Close() }, nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting reward-claim v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("reward-claim %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start admin reloader (loads admins and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start admin reloader: %w", err)
	}
	a.logger.Info("admin reloader started",
		logger.Duration("interval", a.cfg.AdminReloadInterval))

	if a.expirer != nil {
		if err := a.expirer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start link expirer: %w", err)
		}
		a.logger.Info("link expirer started",
			logger.Duration("interval", a.cfg.ExpiryInterval),
			logger.Duration("max_age", a.cfg.LinkMaxAge))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	if a.expirer != nil {
		a.expirer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.closeStore(shutdownCtx); err != nil {
		a.logger.Warnf("failed to close store: %v", err)
	} else {
		a.logger.Info("✅ Store closed cleanly")
	}

	a.logger.Info("✅ reward-claim stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
