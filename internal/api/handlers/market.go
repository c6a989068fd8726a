/**
 * @description
 * Market API Handlers.
 * Exposes the catalog listing, single-market reads, the live odds stream,
 * top casters, and the admin resolution endpoint.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 * - backend/internal/ledger
 */

package handlers

import (
	"bufio"
	"fmt"

	"github.com/blockcast-project/backend/internal/catalog"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/blockcast-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MarketHandler struct {
	Catalog       *services.CatalogService
	Engine        *ledger.Engine
	Hub           *services.OddsStreamHub
	Notifications *services.NotificationService
}

func NewMarketHandler(catalogService *services.CatalogService, engine *ledger.Engine, hub *services.OddsStreamHub, notifications *services.NotificationService) *MarketHandler {
	return &MarketHandler{
		Catalog:       catalogService,
		Engine:        engine,
		Hub:           hub,
		Notifications: notifications,
	}
}

// ListMarkets returns the filtered catalog
// GET /api/v1/markets
func (h *MarketHandler) ListMarkets(c *fiber.Ctx) error {
	ctx := c.Context()

	f := catalog.Filter{
		Category:   c.Query("category"),
		Country:    c.Query("country"),
		Confidence: models.ConfidenceLevel(c.Query("confidence")),
		Status:     models.MarketStatus(c.Query("status")),
		Query:      c.Query("q"),
	}

	markets, err := h.Catalog.ListMarkets(ctx, f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch markets",
		})
	}
	return c.JSON(markets)
}

// GetMarket returns a single market with derived odds
// GET /api/v1/markets/:id
func (h *MarketHandler) GetMarket(c *fiber.Ctx) error {
	market, err := h.Engine.GetMarket(c.Context(), c.Params("id"))
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.JSON(market)
}

// TopCasters returns the largest open stakes on a market
// GET /api/v1/markets/:id/casters
func (h *MarketHandler) TopCasters(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	casters, err := h.Engine.TopCasters(c.Context(), c.Params("id"), limit)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.JSON(casters)
}

// ResolveMarket settles a market to an outcome (admin only)
// POST /api/v1/markets/:id/resolve
func (h *MarketHandler) ResolveMarket(c *fiber.Ctx) error {
	ctx := c.Context()
	marketID := c.Params("id")

	var req struct {
		Outcome models.BetPosition `json:"outcome"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	settled, err := h.Engine.ResolveMarket(ctx, marketID, req.Outcome)
	if err != nil {
		return respondLedgerError(c, err)
	}

	if h.Notifications != nil {
		if market, err := h.Engine.GetMarket(ctx, marketID); err == nil {
			h.Notifications.NotifySettlement(ctx, market, settled)
		}
	}
	if h.Catalog != nil {
		h.Catalog.Invalidate(ctx)
	}

	return c.JSON(fiber.Map{
		"market_id": marketID,
		"outcome":   req.Outcome,
		"settled":   settled,
	})
}

// StreamOdds streams live odds updates over SSE
// GET /api/v1/markets/stream
func (h *MarketHandler) StreamOdds(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestCtx := c.Context()

	updates, unsubscribe := h.Hub.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		requestDone := requestCtx.Done()

		for {
			select {
			case <-requestDone:
				return
			case payload, ok := <-updates:
				if !ok {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
