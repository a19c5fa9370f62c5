package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/spawnkit/internal/config"
	"github.com/udisondev/spawnkit/internal/db"
	"github.com/udisondev/spawnkit/internal/spawn"
	"github.com/udisondev/spawnkit/internal/world"
)

const ConfigPath = "config/spawnsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("SPAWNKIT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("spawnsim starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick", cfg.TickInterval,
		"seed", seed)

	// Метрики ставим до создания менеджера, иначе инструменты привяжутся к no-op провайдеру
	if cfg.Metrics.Enabled {
		shutdown, err := setupMetrics(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("setting up metrics: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics shutdown failed", "error", err)
			}
		}()
		slog.Info("metrics exporter enabled", "interval", cfg.Metrics.Interval)
	}

	w := world.New(cfg.World)

	manager, err := spawn.NewManager(w, world.EffectLog{}, seed)
	if err != nil {
		return fmt.Errorf("creating spawn manager: %w", err)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			slog.Error("closing spawn manager", "error", err)
		}
	}()

	if err := manager.Load(ctx, spawn.StaticRepository(cfg.Spawners)); err != nil {
		slog.Warn("some configured spawners were skipped", "error", err)
	}

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		if err := manager.Load(ctx, db.NewSpawnerStore(database.Pool())); err != nil {
			slog.Warn("some stored spawners were skipped", "error", err)
		}
	}

	if manager.Count() == 0 {
		slog.Warn("no spawners registered")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return manager.Run(gctx, cfg.TickInterval)
	})

	g.Go(func() error {
		return runWorld(gctx, w, cfg.WorldInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		manager.Stop()
		slog.Info("simulation stopped",
			"spawners", manager.Count(),
			"active", manager.ActiveCount(),
			"live", manager.LiveCount(),
			"objects", w.ObjectCount())
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runWorld ages world instances and removes destroyed ones every interval
func runWorld(ctx context.Context, w *world.World, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if removed := w.Step(dt); removed > 0 {
				slog.Debug("world step", "removed", removed, "objects", w.ObjectCount())
			}
		}
	}
}

// setupMetrics installs global OTel meter provider with periodic stdout export.
func setupMetrics(cfg config.MetricsConfig) (func(context.Context) error, error) {
	exp, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("creating stdout exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.Interval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
