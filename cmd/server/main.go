package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Memartyes/y-lab-uni-sub000/internal/api"
	"github.com/Memartyes/y-lab-uni-sub000/internal/cache"
	"github.com/Memartyes/y-lab-uni-sub000/internal/config"
	"github.com/Memartyes/y-lab-uni-sub000/internal/engine"
	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
	"github.com/Memartyes/y-lab-uni-sub000/internal/metrics"
	"github.com/Memartyes/y-lab-uni-sub000/internal/report"
	"github.com/Memartyes/y-lab-uni-sub000/internal/storage"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("COWORKING_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	cal, err := cfg.WorkingCalendar()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid calendar config")
	}

	bus := events.NewBus()

	journal, err := storage.Open(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open booking journal error")
	}
	defer journal.Close()
	journal.Attach(bus)

	var rdb *redis.Client
	var slots *cache.SlotCache
	if cfg.Redis.Address != "" && cfg.SlotCacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		slots = cache.New(rdb, cfg.SlotCacheTTL(), &logger)
		slots.Attach(bus)
	}

	eng := engine.New(engine.Options{
		Calendar:            cal,
		WorkspaceCapacity:   cfg.Rooms.WorkspaceCapacity,
		PrepopulateNewRooms: cfg.Rooms.PrepopulateNewRooms,
		Bus:                 bus,
		Logger:              &logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Rooms.Bootstrap {
		if err := eng.Bootstrap(ctx); err != nil {
			logger.Fatal().Err(err).Msg("bootstrap default rooms error")
		}
	}

	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, journal, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		metrics.Attach(bus)
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewServer(eng, report.NewService(eng), slots, &logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("booking service started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

func startHealthServer(ctx context.Context, port int, journal *storage.Journal, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := journal.PingContext(ctxPing); err != nil {
			http.Error(w, "journal not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
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
