/**
 * @description
 * Notification API Handlers.
 * Lists settlement notices and marks them read.
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
	"github.com/google/uuid"
)

type NotificationHandler struct {
	Engine  *ledger.Engine
	Service *services.NotificationService
}

func NewNotificationHandler(engine *ledger.Engine, service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Engine: engine, Service: service}
}

func (h *NotificationHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	authID, err := middleware.AuthSubject(c)
	if err != nil {
		return nil, err
	}
	return h.Engine.UserByAuthID(c.Context(), authID)
}

// ListNotifications returns the user's notifications, newest first
// GET /api/v1/me/notifications?unread=true&limit=50
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	limit := c.QueryInt("limit", 50)
	unreadOnly := c.QueryBool("unread", false)

	notifications, err := h.Service.ListNotifications(c.Context(), user.ID, limit, unreadOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	unread, err := h.Service.UnreadCount(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count notifications"})
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead marks one notification as read
// POST /api/v1/me/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	if err := h.Service.MarkRead(c.Context(), user.ID, notificationID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification read"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead marks every notification read
// POST /api/v1/me/notifications/read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.Service.MarkAllRead(c.Context(), user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
