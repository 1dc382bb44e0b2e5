// cmd/template-service/main.go
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

	"docmagic/internal/api"
	"docmagic/internal/cache"
	"docmagic/internal/common/camunda"
	"docmagic/internal/common/config"
	"docmagic/internal/common/database"
	"docmagic/internal/common/logger"
	"docmagic/internal/common/observability"
	"docmagic/internal/generation"
	"docmagic/internal/search"
	"docmagic/internal/service"
	"docmagic/internal/store"
	"docmagic/internal/templates"
	"docmagic/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	log.Info("starting template service", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	if err := run(cfg, log); err != nil {
		log.Error("template service stopped with error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	log.Info("template service stopped gracefully", nil)
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx := context.Background()

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown(context.Background())

	// --- Catalog ---
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		loaded, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		cat = loaded
	}
	log.Info("catalog loaded", map[string]interface{}{"entries": cat.Len()})

	validator := templates.NewValidator()
	opts := []service.Option{
		service.WithObservability(obs),
		service.WithBatchLimits(cfg.Validation.BatchConcurrency, cfg.Validation.MaxBatchSize),
	}
	checks := map[string]api.Pinger{}

	// --- Init Redis with retry ---
	if cfg.Database.Redis.Enabled {
		redis := database.NewRedis(cfg.Database.Redis)
		err := retryWithBackoff(func() error { return redis.Ping(ctx) }, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return err
		}
		defer redis.Close()
		opts = append(opts, service.WithCache(cache.New(redis.Client, cfg.Validation.CacheTTLDuration())))
		checks["redis"] = redis
		log.Info("Redis connected successfully", nil)
	}

	// --- Init PostgreSQL with retry ---
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return err
		}
		defer pg.Close()

		st := store.New(pg.DB)
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, service.WithStore(st))
		checks["postgres"] = pg
		log.Info("PostgreSQL connected successfully", nil)
	}

	// --- Init Elasticsearch with retry ---
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			return err
		}

		idx := search.NewIndex(es.Client, es.Index)
		if err := idx.EnsureIndex(ctx); err != nil {
			return err
		}
		if cfg.Catalog.IndexOnStart {
			if err := idx.IndexCatalog(ctx, cat.All()); err != nil {
				log.Warn("catalog indexing failed, text search uses the in-memory catalog", map[string]interface{}{"error": err})
			}
		}
		opts = append(opts, service.WithSearchIndex(idx))
		checks["elasticsearch"] = es
		log.Info("Elasticsearch connected successfully", nil)
	}

	// --- Template generation ---
	var model generation.Model
	if cfg.GenAI.Enabled {
		gm, err := generation.NewGeminiModel(ctx, cfg.GenAI)
		if err != nil {
			return err
		}
		model = gm
	}
	generator := generation.NewGenerator(model, validator, config.GetDuration(cfg.GenAI.Timeout), log)
	opts = append(opts, service.WithGenerator(generator))

	// --- Notifications ---
	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		return err
	}
	if notifier != nil {
		opts = append(opts, service.WithNotifier(notifier))
	}

	svc := service.New(validator, cat, log, opts...)

	// --- Zeebe workers ---
	if cfg.Camunda.Enabled {
		zc, err := camunda.NewClient(ctx, cfg.Camunda, nil, log)
		if err != nil {
			return err
		}
		defer zc.Close()

		manager := camunda.NewManager(zc.Zeebe(), log)
		registerWorkers(manager, cfg, svc, notifier, log)
		defer manager.Close()
		checks["zeebe"] = api.PingFunc(zc.HealthCheck)
		log.Info("Zeebe workers registered", map[string]interface{}{"taskTypes": manager.TaskTypes()})
	}

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(svc, api.NewHealthHandler(cfg.App.Version, checks), log).Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", map[string]interface{}{"error": err})
	}
	return nil
}
