// Command seed reconciles the Collabia database with the built-in fixtures.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabia/internal/cache"
	"collabia/internal/config"
	"collabia/internal/database"
	"collabia/internal/observability"
	"collabia/internal/repository"
	"collabia/internal/security"
	"collabia/internal/seed"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag keys, bound into viper so CLEAN=true etc. work as well.
const (
	flagClean   = "clean"
	flagMigrate = "migrate"
	flagSeed    = "seed"
)

func main() {
	pflag.Bool(flagClean, false, "Remove all seeded rows before seeding")
	pflag.Bool(flagMigrate, false, "Apply the schema (DB_SCHEMA_MODE) before seeding")
	pflag.Bool(flagSeed, true, "Reconcile the fixture data")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.Logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		return err
	}
	observability.Configure(cfg.Env, cfg.LogLevel)

	runID := observability.NewRunID()
	ctx = observability.WithRunID(ctx, runID)
	log := observability.Logger

	metrics := observability.NewSeedMetrics()
	defer func() {
		metrics.RecordRun(err)
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if perr := observability.PushMetrics(pushCtx, cfg.PushgatewayURL, runID); perr != nil {
			log.WarnContext(ctx, "Failed to push metrics", slog.String("error", perr.Error()))
		}
		if err != nil {
			log.ErrorContext(ctx, "❌ Seeding failed", slog.String("error", err.Error()))
		}
	}()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  "collabia-seed",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
			log.WarnContext(ctx, "Failed to flush traces", slog.String("error", serr.Error()))
		}
	}()

	clean, migrate, doSeed := viper.GetBool(flagClean), viper.GetBool(flagMigrate), viper.GetBool(flagSeed)
	log.InfoContext(ctx, "🌱 Collabia seeder starting",
		slog.String("env", cfg.Env),
		slog.Bool(flagClean, clean),
		slog.Bool(flagMigrate, migrate),
		slog.Bool(flagSeed, doSeed),
	)

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil {
			log.WarnContext(ctx, "Error closing database", slog.String("error", cerr.Error()))
		}
	}()

	if cfg.RedisURL != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer cache.Close(ctx, rdb)

		release, err := cache.AcquireSeedLock(ctx, rdb, runID, cfg.SeedLockTTL())
		if err != nil {
			if errors.Is(err, cache.ErrSeedInProgress) {
				log.WarnContext(ctx, "Another seeding run is in progress", slog.String("error", err.Error()))
			}
			return err
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				log.WarnContext(ctx, "Failed to release seed lock", slog.String("error", rerr.Error()))
			}
		}()
	}

	if migrate {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
	}

	if clean {
		if cfg.IsProduction() {
			return errors.New("refusing to clean seeded tables in production")
		}
		if err := database.TruncateSeededTables(ctx, db); err != nil {
			return err
		}
	}

	if !doSeed {
		log.InfoContext(ctx, "Seeding disabled, nothing left to do")
		return nil
	}

	random := seed.NewRandomSource(cfg.SeedRandomSeed)
	reconciler, err := seed.NewReconciler(
		repository.NewStore(db),
		security.NewBcryptHasher(cfg.SeedBcryptCost),
		random,
		cfg.SeedPassword,
		seed.WithLogger(log),
		seed.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	if _, err := reconciler.Run(ctx); err != nil {
		return err
	}

	log.InfoContext(ctx, "✨ All done! Your database is now populated with test data.")
	if !cfg.IsProduction() {
		log.InfoContext(ctx, "📧 All seeded users share the configured SEED_PASSWORD")
	}
	return nil
}
