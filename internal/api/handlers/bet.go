/**
 * @description
 * Bet API Handlers.
 * Placement and payout preview for the authenticated caster.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/ledger
 */

package handlers

import (
	"github.com/blockcast-project/backend/internal/api/middleware"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type BetHandler struct {
	Engine *ledger.Engine
}

func NewBetHandler(engine *ledger.Engine) *BetHandler {
	return &BetHandler{Engine: engine}
}

// PlaceBetRequest defines the placement payload
type PlaceBetRequest struct {
	MarketID string             `json:"market_id"`
	Position models.BetPosition `json:"position"`
	Amount   models.Amount      `json:"amount"` // cents
}

// PlaceBet stakes the authenticated user on one side of a market
// POST /api/v1/bets
func (h *BetHandler) PlaceBet(c *fiber.Ctx) error {
	ctx := c.Context()

	authID, err := middleware.AuthSubject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req PlaceBetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "details": err.Error()})
	}

	user, err := h.Engine.UserByAuthID(ctx, authID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	bet, err := h.Engine.PlaceBet(ctx, req.MarketID, user.ID, req.Position, req.Amount)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"bet":     bet,
		"preview": ledger.Preview(bet.Amount, bet.Odds),
	})
}

// PreviewBet quotes the payout a stake would lock in right now
// GET /api/v1/bets/preview?market_id=...&position=yes&amount=1000
func (h *BetHandler) PreviewBet(c *fiber.Ctx) error {
	marketID := c.Query("market_id")
	position := models.BetPosition(c.Query("position"))
	amount := models.Amount(c.QueryInt("amount", 0))

	preview, err := h.Engine.PreviewBet(c.Context(), marketID, position, amount)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return c.JSON(preview)
}
