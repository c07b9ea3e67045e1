package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmacedo/blogapp/internal/config"
	"github.com/rmacedo/blogapp/internal/db"
	httpx "github.com/rmacedo/blogapp/internal/http"
	"github.com/rmacedo/blogapp/internal/observability"
	"github.com/rmacedo/blogapp/internal/repo/postgres"
	"github.com/rmacedo/blogapp/internal/session"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	// tracing is best effort; the app runs fine without a collector
	shutdownTracer, err := observability.InitTracer(ctx, "blogapp", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to database", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	err = db.Migrate(ctx, cfg.DBURL)

	if err != nil {
		log.Error("could not run migrations", "err", err)
		os.Exit(1)
	}

	err = db.EnsureAdminUser(ctx, pool, cfg)

	if err != nil {
		log.Error("could not seed admin user", "err", err)
		os.Exit(1)
	}

	// session store

	sessionStore := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer sessionStore.Close()

	pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
	err = sessionStore.Ping(pingCtx)
	cancelPing()

	if err != nil {
		log.Error("could not connect to redis", "err", err)
		os.Exit(1)
	}

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL(), cfg.Env == "prod")

	// metrics

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	categoriesRepo := postgres.NewCategoriesRepo(pool, prom)
	postsRepo := postgres.NewPostsRepo(pool, prom)

	router := httpx.NewRouter(httpx.Deps{
		Env:      cfg.Env,
		Log:      log,
		Sessions: sessions,
		Prom:     prom,

		Users:      usersRepo,
		Categories: categoriesRepo,
		Posts:      postsRepo,

		PingDB: func() error {
			pctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(pctx)
		},
		PingSessions: func() error {
			pctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return sessionStore.Ping(pctx)
		},

		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(sctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		err = shutdownTracer(sctx)

		if err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
