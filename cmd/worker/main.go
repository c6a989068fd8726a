/**
 * @description
 * Worker Service Entry Point.
 * Responsible for background tasks:
 * 1. Sweeping expired markets into the resolving state on a cron schedule.
 * 2. Refreshing the cached market catalog after each sweep.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/ledger
 * - github.com/robfig/cron/v3: Job scheduling
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockcast-project/backend/internal/config"
	"github.com/blockcast-project/backend/internal/db"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/logger"
	"github.com/blockcast-project/backend/internal/store"
	"github.com/robfig/cron/v3"
)

func main() {
	logger.Info("🔥 Starting Blockcast Worker...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect DBs
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}

	// 3. Initialize Ledger Engine
	engine := ledger.NewEngine(store.NewGorm(pgDB), redisClient)

	// 4. Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Schedule the Expiry Sweep
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Worker.SweepSpec, func() {
		sweepExpired(ctx, engine)
	}); err != nil {
		logger.Fatal("Invalid sweep schedule %q: %v", cfg.Worker.SweepSpec, err)
	}
	scheduler.Start()

	// Initial sweep so a restart doesn't leave stale markets open
	sweepExpired(ctx, engine)

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	// Wait for any in-flight sweep to finish
	<-scheduler.Stop().Done()

	time.Sleep(1 * time.Second) // Give connections time to close
	logger.Info("Worker exited.")
}

// sweepExpired moves markets past their expiry out of the active state.
func sweepExpired(ctx context.Context, engine *ledger.Engine) {
	logger.Info("🔄 Sweeping expired markets...")

	swept, err := engine.ExpireMarkets(ctx)
	if err != nil {
		logger.Error("Expiry sweep failed: %v", err)
		return
	}

	if swept == 0 {
		logger.Info("No expired markets found.")
		return
	}
	logger.Info("✅ Moved %d markets to resolving.", swept)
}
