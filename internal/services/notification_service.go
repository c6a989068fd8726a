/**
 * @description
 * Notification Service for settlement notices.
 * Writes one notification per settled bet when a market resolves.
 *
 * @dependencies
 * - gorm.io/gorm
 * - backend/internal/models
 */

package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blockcast-project/backend/internal/logger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService handles notification operations
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db: db,
	}
}

// settlementData is the structured payload attached to settlement notices
type settlementData struct {
	MarketID      string             `json:"market_id"`
	Claim         string             `json:"claim"`
	Resolution    models.BetPosition `json:"resolution"`
	BetID         string             `json:"bet_id"`
	Position      models.BetPosition `json:"position"`
	Amount        models.Amount      `json:"amount"`
	ActualWinning models.Amount      `json:"actual_winning"`
}

// NotifySettlement creates one notification per settled bet. Failures are
// logged, not surfaced: the settlement itself has already committed.
func (s *NotificationService) NotifySettlement(ctx context.Context, market *models.Market, bets []models.Bet) {
	if market == nil || market.Resolution == nil {
		return
	}

	for _, bet := range bets {
		var winning models.Amount
		if bet.ActualWinning != nil {
			winning = *bet.ActualWinning
		}

		data, err := json.Marshal(settlementData{
			MarketID:      market.ID,
			Claim:         market.Claim,
			Resolution:    *market.Resolution,
			BetID:         bet.ID.String(),
			Position:      bet.Position,
			Amount:        bet.Amount,
			ActualWinning: winning,
		})
		if err != nil {
			logger.Error("NotificationService: failed to marshal settlement data: %v", err)
			continue
		}

		n := models.Notification{
			UserID: bet.UserID,
			Data:   string(data),
		}
		if bet.Status == models.BetStatusWon {
			n.Type = models.NotificationTypeBetWon
			n.Title = fmt.Sprintf("You won %s", winning)
			n.Message = fmt.Sprintf("Your %s cast of %s on %q paid out %s.", bet.Position, bet.Amount, market.Claim, winning)
		} else {
			n.Type = models.NotificationTypeBetLost
			n.Title = "Cast lost"
			n.Message = fmt.Sprintf("The claim %q resolved %s; your %s cast of %s did not pay out.", market.Claim, *market.Resolution, bet.Position, bet.Amount)
		}

		if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
			logger.Error("NotificationService: failed to create notification for user %s: %v", bet.UserID, err)
		}
	}
}

// ListNotifications returns a user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

// MarkAllRead marks every notification for the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
