package main

import (
	"context"
	"log"
	"time"

	"github.com/blockcast-project/backend/internal/catalog"
	"github.com/blockcast-project/backend/internal/config"
	"github.com/blockcast-project/backend/internal/db"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/blockcast-project/backend/internal/store"
)

func main() {
	log.Println("🚀 Seeding Blockcast schema and starter markets...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := pgDB.AutoMigrate(
		&models.Market{},
		&models.User{},
		&models.Bet{},
		&models.MarketBookmark{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("✅ Schema migrated.")

	st := store.NewGorm(pgDB)
	ctx := context.Background()

	markets := catalog.Seed(time.Now().UTC())
	if err := st.UpsertMarkets(ctx, markets); err != nil {
		log.Fatalf("market seed failed: %v", err)
	}
	log.Printf("✅ Upserted %d starter markets.", len(markets))

	engine := ledger.NewEngine(st, nil)
	demo, err := engine.SyncUser(ctx, "auth|demo-caster", "demo@blockcast.dev", "Demo Caster")
	if err != nil {
		log.Fatalf("demo user seed failed: %v", err)
	}
	log.Printf("✅ Demo user %s ready with balance %s.", demo.ID, demo.Balance)

	var activeCount int64
	if err := pgDB.Model(&models.Market{}).Where("status = ?", models.MarketStatusActive).Count(&activeCount).Error; err == nil {
		log.Printf("✅ Active markets stored in Postgres: %d", activeCount)
	} else {
		log.Printf("⚠️ Failed to count active markets: %v", err)
	}

	log.Println("✅ Seed completed successfully.")
}
