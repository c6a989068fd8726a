/**
 * @description
 * Watchlist API Handlers.
 * Bookmark, unbookmark, and list starred markets for the authenticated user.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"github.com/blockcast-project/backend/internal/api/middleware"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/blockcast-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WatchlistHandler struct {
	Engine  *ledger.Engine
	Service *services.WatchlistService
}

func NewWatchlistHandler(engine *ledger.Engine, service *services.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{Engine: engine, Service: service}
}

func (h *WatchlistHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	authID, err := middleware.AuthSubject(c)
	if err != nil {
		return nil, err
	}
	return h.Engine.UserByAuthID(c.Context(), authID)
}

// GetWatchlist returns the user's starred markets with live odds
// GET /api/v1/me/watchlist
func (h *WatchlistHandler) GetWatchlist(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := h.Service.GetWatchlist(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch watchlist"})
	}
	return c.JSON(items)
}

// ToggleBookmark flips the bookmark state of a market
// POST /api/v1/me/watchlist/:marketId
func (h *WatchlistHandler) ToggleBookmark(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	marketID := c.Params("marketId")
	if _, err := h.Engine.GetMarket(c.Context(), marketID); err != nil {
		return respondLedgerError(c, err)
	}

	bookmarked, err := h.Service.ToggleBookmark(c.Context(), user.ID, marketID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle bookmark"})
	}
	return c.JSON(fiber.Map{"market_id": marketID, "bookmarked": bookmarked})
}

// RemoveBookmark removes a market from the watchlist
// DELETE /api/v1/me/watchlist/:marketId
func (h *WatchlistHandler) RemoveBookmark(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.Service.RemoveBookmark(c.Context(), user.ID, c.Params("marketId")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove bookmark"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
