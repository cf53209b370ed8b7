package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/api"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/connectivity"
	"portfolio-backend/internal/content"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/feed"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/notifications"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	monitor := connectivity.NewMonitor(logger)

	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB, monitor.ServerMonitor())
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Without Redis the cache is off and change notices stay in this process.
	var cacheStore cache.Cache = cache.NewNoop()
	var changes feed.Feed = feed.NewLocal()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		if cfg.RedisURL != "" {
			logger.Info("redis connected (url)")
		} else {
			logger.Info("redis connected", slog.String("addr", cfg.RedisAddr))
		}
		cacheStore = redisCache
		changes = feed.NewRedis(redisCache.Client(), logger)
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "portfolio-backend",
		}
	} else {
		logger.Warn("jwt secret missing, admin sessions disabled")
	}

	val := validation.New()
	gate := content.NewGate(monitor)

	catalog := portfolio.NewCatalog(portfolio.MongoStores(database), portfolio.Quotas{
		Create:        cfg.RateLimitCreate,
		Update:        cfg.RateLimitUpdate,
		ContactUpdate: cfg.RateLimitContactUpdate,
		Delete:        cfg.RateLimitDelete,
	}, content.Deps{
		Cache:     cacheStore,
		Feed:      changes,
		Gate:      gate,
		Validator: val,
		Log:       logger,
		Freshness: cfg.CacheFreshness(),
		Retention: cfg.CacheRetention(),
		Window:    cfg.RateLimitWindow(),
	})
	// Mirrors follow the change feed for the life of the process.
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()
	if err := catalog.Start(appCtx); err != nil {
		logger.Error("content start failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer catalog.Close()
	logger.Info("content mirrors started")

	// Changes published while the store was unreachable may have been missed.
	stopWatching := monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		go func() {
			if err := catalog.Resync(appCtx); err != nil {
				logger.Warn("content resync: failed", slog.String("error", err.Error()))
			}
		}()
	})
	defer stopWatching()

	server := &api.Server{
		Cfg:     cfg,
		Catalog: catalog,
		Users:   users.NewRepository(database.Collection(db.CollectionUsers)),
		Tokens:  jwtManager,
		Gate:    gate,
		Conn:    monitor,
		Val:     val,
		Log:     logger,
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		server.Mailer = mailer
	}

	if cfg.S3Bucket != "" {
		uploads, err := media.NewS3(ctx, media.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
			TTL:       time.Duration(cfg.UploadTTLMinutes) * time.Minute,
		})
		if err != nil {
			logger.Error("s3 setup failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("media uploads enabled", slog.String("bucket", cfg.S3Bucket))
		server.Uploads = uploads
	} else {
		logger.Info("media uploads disabled")
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: api.NewRouter(server),
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
