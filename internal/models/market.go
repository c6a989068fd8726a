/**
 * @description
 * Market database model.
 * Maps to the 'markets' table in PostgreSQL.
 * Pools are the authoritative state; odds are derived on read and never stored.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import (
	"time"
)

// MarketStatus defines the lifecycle state of a market
type MarketStatus string

const (
	MarketStatusActive    MarketStatus = "active"
	MarketStatusResolving MarketStatus = "resolving"
	MarketStatusResolved  MarketStatus = "resolved"
)

// ConfidenceLevel is the displayed verification confidence for a claim
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Market represents a binary claim open for casting.
// yes_pool / no_pool hold the staked funds in cents; total pool is always
// their sum and is kept strictly positive by seeding both sides at creation.
type Market struct {
	ID          string          `gorm:"primaryKey;column:id;size:64" json:"id"`
	Claim       string          `gorm:"column:claim;not null" json:"claim"`
	Category    string          `gorm:"column:category;index" json:"category"`
	Subcategory string          `gorm:"column:subcategory" json:"subcategory"`
	Source      string          `gorm:"column:source" json:"source"`
	Description string          `gorm:"column:description" json:"description"`
	Country     string          `gorm:"column:country;index" json:"country"`
	Confidence  ConfidenceLevel `gorm:"column:confidence;type:varchar(8)" json:"confidence"`

	YesPool      Amount `gorm:"column:yes_pool;type:bigint;not null" json:"yes_pool"`
	NoPool       Amount `gorm:"column:no_pool;type:bigint;not null" json:"no_pool"`
	TotalCasters int    `gorm:"column:total_casters;default:0" json:"total_casters"`
	Trending     bool   `gorm:"column:trending;default:false" json:"trending"`

	ExpiresAt  time.Time    `gorm:"column:expires_at;index" json:"expires_at"`
	Status     MarketStatus `gorm:"column:status;type:varchar(16);default:'active';index" json:"status"`
	Resolution *BetPosition `gorm:"column:resolution;type:varchar(8)" json:"resolution,omitempty"`

	// Derived on read from the raw pools; never persisted (see ledger.AttachOdds)
	YesOdds float64 `gorm:"-" json:"yes_odds"`
	NoOdds  float64 `gorm:"-" json:"no_odds"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by Market to `markets`
func (Market) TableName() string {
	return "markets"
}

// TotalPool returns the combined staked funds on both sides.
func (m *Market) TotalPool() Amount {
	return m.YesPool + m.NoPool
}

// Pool returns the staked funds on a single side.
func (m *Market) Pool(side BetPosition) Amount {
	if side == PositionYes {
		return m.YesPool
	}
	return m.NoPool
}

// OpenForCasting reports whether new bets are accepted at the given instant.
func (m *Market) OpenForCasting(now time.Time) bool {
	return m.Status == MarketStatusActive && now.Before(m.ExpiresAt)
}

// TimeRemaining returns the time left until expiry, floored at zero.
func (m *Market) TimeRemaining(now time.Time) time.Duration {
	if !now.Before(m.ExpiresAt) {
		return 0
	}
	return m.ExpiresAt.Sub(now)
}
