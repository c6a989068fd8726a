/**
 * @description
 * Watchlist Service for market bookmark operations.
 * Manages user's starred markets in the database and annotates them with
 * live pool-derived odds.
 *
 * @dependencies
 * - gorm.io/gorm
 * - backend/internal/models
 * - backend/internal/ledger
 */

package services

import (
	"context"
	"time"

	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/logger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchlistService handles market bookmark operations
type WatchlistService struct {
	db *gorm.DB
}

// NewWatchlistService creates a new WatchlistService
func NewWatchlistService(db *gorm.DB) *WatchlistService {
	return &WatchlistService{
		db: db,
	}
}

// BookmarkMarket adds a market to user's watchlist
func (s *WatchlistService) BookmarkMarket(ctx context.Context, userID uuid.UUID, marketID string) error {
	if marketID == "" {
		return nil
	}

	bookmark := &models.MarketBookmark{
		UserID:    userID,
		MarketID:  marketID,
		CreatedAt: time.Now(),
	}

	// Use FirstOrCreate to avoid duplicates
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ?", userID, marketID).
		FirstOrCreate(bookmark)

	if result.Error != nil {
		logger.Error("WatchlistService: Failed to bookmark market: %v", result.Error)
		return result.Error
	}

	return nil
}

// RemoveBookmark removes a market from user's watchlist
func (s *WatchlistService) RemoveBookmark(ctx context.Context, userID uuid.UUID, marketID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ?", userID, marketID).
		Delete(&models.MarketBookmark{})

	if result.Error != nil {
		logger.Error("WatchlistService: Failed to remove bookmark: %v", result.Error)
		return result.Error
	}

	return nil
}

// GetWatchlist returns user's bookmarked markets with live odds
func (s *WatchlistService) GetWatchlist(ctx context.Context, userID uuid.UUID) ([]models.WatchlistItem, error) {
	var bookmarks []models.MarketBookmark

	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks)

	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]models.WatchlistItem, 0, len(bookmarks))
	for _, b := range bookmarks {
		var market models.Market
		if err := s.db.WithContext(ctx).
			Where("id = ?", b.MarketID).
			First(&market).Error; err != nil {
			// Skip markets that no longer exist
			continue
		}

		ledger.AttachOdds(&market)

		items = append(items, models.WatchlistItem{
			MarketBookmark: b,
			Claim:          market.Claim,
			Category:       market.Category,
			YesOdds:        market.YesOdds,
			NoOdds:         market.NoOdds,
			TotalPool:      market.TotalPool(),
			TotalCasters:   market.TotalCasters,
			Status:         market.Status,
		})
	}

	return items, nil
}

// IsBookmarked checks if user has bookmarked a specific market
func (s *WatchlistService) IsBookmarked(ctx context.Context, userID uuid.UUID, marketID string) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&models.MarketBookmark{}).
		Where("user_id = ? AND market_id = ?", userID, marketID).
		Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// ToggleBookmark toggles bookmark status and returns the new state
func (s *WatchlistService) ToggleBookmark(ctx context.Context, userID uuid.UUID, marketID string) (bool, error) {
	isBookmarked, err := s.IsBookmarked(ctx, userID, marketID)
	if err != nil {
		return false, err
	}

	if isBookmarked {
		err = s.RemoveBookmark(ctx, userID, marketID)
		return false, err
	}

	err = s.BookmarkMarket(ctx, userID, marketID)
	return true, err
}
