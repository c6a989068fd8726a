/**
 * @description
 * Shared translation of the ledger error taxonomy into HTTP responses.
 * Expected user-input failures (balance, closed market) map to 4xx without
 * logging; state-machine misuse is logged as a programmer error.
 */

package handlers

import (
	"errors"

	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/logger"
	"github.com/gofiber/fiber/v2"
)

func respondLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidOutcome):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrMarketClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrAlreadyResolved):
		logger.Error("Handler: attempted re-resolution rejected: %v", err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrMarketNotFound), errors.Is(err, ledger.ErrUserNotFound), errors.Is(err, ledger.ErrBetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("Handler: internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
