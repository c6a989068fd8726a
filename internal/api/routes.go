/**
 * @description
 * API Route definitions.
 * Sets up the router groups and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 * - backend/internal/ledger
 */

package api

import (
	"log"

	"github.com/blockcast-project/backend/internal/api/handlers"
	"github.com/blockcast-project/backend/internal/api/middleware"
	"github.com/blockcast-project/backend/internal/config"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/services"
	"github.com/blockcast-project/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Middleware
	if err := middleware.InitAuthMiddleware(cfg); err != nil {
		log.Printf("Failed to init auth middleware: %v", err)
		// We don't panic here to allow app to start in dev modes without valid keys,
		// but protected routes will fail.
	}

	// 2. Initialize Engine and Services
	st := store.NewGorm(db)
	engine := ledger.NewEngine(st, rdb)
	catalogService := services.NewCatalogService(st, rdb)
	oddsHub := services.NewOddsStreamHub(rdb, ledger.OddsUpdateChannel)
	watchlistService := services.NewWatchlistService(db)
	notificationService := services.NewNotificationService(db)

	// 3. Initialize Handlers
	marketHandler := handlers.NewMarketHandler(catalogService, engine, oddsHub, notificationService)
	betHandler := handlers.NewBetHandler(engine)
	userHandler := handlers.NewUserHandler(engine)
	watchlistHandler := handlers.NewWatchlistHandler(engine, watchlistService)
	notificationHandler := handlers.NewNotificationHandler(engine, notificationService)

	// 4. Define Routes
	apiGroup := app.Group("/api")
	v1 := apiGroup.Group("/v1")

	// Public Routes
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Market Routes (Public)
	v1.Get("/markets", marketHandler.ListMarkets)
	markets := v1.Group("/markets")
	markets.Get("/stream", marketHandler.StreamOdds)
	markets.Get("/:id", marketHandler.GetMarket)
	markets.Get("/:id/casters", marketHandler.TopCasters)

	// Resolution (admin only)
	markets.Post("/:id/resolve", middleware.AdminOnly(cfg), marketHandler.ResolveMarket)

	// Bet Routes (Protected)
	v1.Post("/bets", middleware.Protected(), betHandler.PlaceBet)
	bets := v1.Group("/bets", middleware.Protected())
	bets.Get("/preview", betHandler.PreviewBet)

	// User Routes (Protected)
	users := v1.Group("/users", middleware.Protected())
	users.Post("/sync", userHandler.SyncUser)

	v1.Get("/me", middleware.Protected(), userHandler.GetMe)
	me := v1.Group("/me", middleware.Protected())
	me.Get("/portfolio", userHandler.GetPortfolio)
	me.Get("/watchlist", watchlistHandler.GetWatchlist)
	me.Post("/watchlist/:marketId", watchlistHandler.ToggleBookmark)
	me.Delete("/watchlist/:marketId", watchlistHandler.RemoveBookmark)
	me.Get("/notifications", notificationHandler.ListNotifications)
	me.Post("/notifications/read", notificationHandler.MarkAllRead)
	me.Post("/notifications/:id/read", notificationHandler.MarkRead)
}
