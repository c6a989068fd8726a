/**
 * @description
 * User API Handlers.
 * Handles account synchronization, profile retrieval, and portfolio.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/ledger
 */

package handlers

import (
	"github.com/blockcast-project/backend/internal/api/middleware"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/logger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Engine *ledger.Engine
}

func NewUserHandler(engine *ledger.Engine) *UserHandler {
	return &UserHandler{Engine: engine}
}

// SyncUserRequest defines payload for syncing user
type SyncUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// SyncUser ensures the user exists, seeding the starting balance on first sync
// POST /api/v1/users/sync
func (h *UserHandler) SyncUser(c *fiber.Ctx) error {
	authID, err := middleware.AuthSubject(c)
	if err != nil {
		logger.Error("SyncUser: Failed to get auth subject from context: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req SyncUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "details": err.Error()})
	}

	user, err := h.Engine.SyncUser(c.Context(), authID, req.Email, req.DisplayName)
	if err != nil {
		logger.Error("SyncUser: failed to sync user %s: %v", authID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sync user"})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// GetMe returns the current authenticated user
// GET /api/v1/me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	authID, err := middleware.AuthSubject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := h.Engine.UserByAuthID(c.Context(), authID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// GetPortfolio returns the caster's bets with fresh aggregates
// GET /api/v1/me/portfolio
func (h *UserHandler) GetPortfolio(c *fiber.Ctx) error {
	authID, err := middleware.AuthSubject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := h.Engine.UserByAuthID(c.Context(), authID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	portfolio, err := h.Engine.GetUserPortfolio(c.Context(), user.ID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return c.JSON(portfolio)
}
