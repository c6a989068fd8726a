/**
 * @description
 * Watchlist and notification database models.
 * Maps to market_bookmarks and notifications tables.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketBookmark represents a user's starred market for watchlist
type MarketBookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	MarketID  string    `gorm:"size:64;not null" json:"market_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Market *Market `gorm:"foreignKey:MarketID" json:"market,omitempty"`
}

func (MarketBookmark) TableName() string {
	return "market_bookmarks"
}

func (b *MarketBookmark) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// WatchlistItem is a bookmarked market annotated with live pool data
type WatchlistItem struct {
	MarketBookmark
	Claim        string       `json:"claim"`
	Category     string       `json:"category"`
	YesOdds      float64      `json:"yes_odds"`
	NoOdds       float64      `json:"no_odds"`
	TotalPool    Amount       `json:"total_pool"`
	TotalCasters int          `json:"total_casters"`
	Status       MarketStatus `json:"status"`
}

// NotificationType defines types of notifications
type NotificationType string

const (
	NotificationTypeBetWon         NotificationType = "BET_WON"
	NotificationTypeBetLost        NotificationType = "BET_LOST"
	NotificationTypeMarketResolved NotificationType = "MARKET_RESOLVED"
	NotificationTypeSystem         NotificationType = "SYSTEM"
)

// Notification stores per-user settlement and system notices
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
	Type      NotificationType `gorm:"size:32;default:'SYSTEM'" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `json:"message"`
	Data      string           `gorm:"type:jsonb" json:"data"` // JSON string for flexible data
	Read      bool             `gorm:"default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
