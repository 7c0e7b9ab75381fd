package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-category-cache/internal/config"
	"github.com/goliatone/go-category-cache/internal/httpapi"
	"github.com/goliatone/go-category-cache/internal/logger"
	"github.com/goliatone/go-category-cache/pkg/di"
	"github.com/goliatone/go-category-cache/source"
	"github.com/goliatone/go-category-cache/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("main: failed to load configuration")
	}

	logger.Init(cfg.LogLevel)
	if cfg.IsDevelopment() {
		logger.SetTextFormatter()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(ctx, cfg, newSource); err != nil {
		logger.Component("main").WithError(err).Error("main: server stopped with error")
		stop()
		os.Exit(1)
	}
}

// sourceOpener builds the category source and returns a func releasing it.
type sourceOpener func(ctx context.Context, cfg *config.Config) (store.Source, func(), error)

// run serves the category API until ctx is done or the listener fails. The
// source is always released before run returns.
func run(ctx context.Context, cfg *config.Config, open sourceOpener) error {
	log := logger.Component("main")

	src, closeSource, err := open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build category source: %w", err)
	}
	defer closeSource()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	container, err := di.NewContainer(src, cfg.CacheConfig(),
		store.WithLogger(logger.Component("store")),
		store.WithRegisterer(reg),
	)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	// warm the cache; failures are logged by the store and retried on demand
	go func() {
		if _, err := container.Store().Categories(ctx); err == nil {
			log.WithField("records", container.Store().Status().Records).Info("main: category cache warmed")
		}
	}()

	apiLog := logger.Component("httpapi")
	engine := httpapi.NewRouter(
		httpapi.NewCategoryHandler(container.Store(), container.Hierarchy(), apiLog),
		httpapi.NewCacheHandler(container.Store(), apiLog),
		httpapi.Options{
			RateLimitLimit:  cfg.RateLimitLimit,
			RateLimitPeriod: cfg.RateLimitPeriod,
			Logger:          apiLog,
		},
	)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	done := make(chan struct{})
	defer close(done)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("main: failed to stop http server")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"source": cfg.Source,
		"ttl":    cfg.CacheTTL.String(),
	}).Info("main: http server started")

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on :%s: %w", cfg.HTTPPort, err)
	}
	<-stopped
	return nil
}

// newSource builds the upstream selected by CATEGORY_SOURCE. The returned
// func releases any connection it opened.
func newSource(ctx context.Context, cfg *config.Config) (store.Source, func(), error) {
	switch cfg.Source {
	case config.SourcePostgres:
		db, err := source.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		src, err := source.NewSQL(db, cfg.CategoryQuery)
		if err != nil {
			safeClose(db)
			return nil, nil, err
		}
		return src, func() { safeClose(db) }, nil
	default:
		src, err := source.NewHTTP(cfg.SourceURL,
			source.WithHTTPClient(&http.Client{Timeout: cfg.SourceTimeout}),
		)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Warn("main: failed to close database")
	}
}
