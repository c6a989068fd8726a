/**
 * @description
 * Bet (position) database model.
 * Maps to the 'bets' table in PostgreSQL.
 * The odds locked at placement are immutable; later casts never reprice an
 * existing bet.
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

// BetPosition is the side of the claim a bet is staked on
type BetPosition string

const (
	PositionYes BetPosition = "yes"
	PositionNo  BetPosition = "no"
)

// Valid reports whether the position is one of the two sides.
func (p BetPosition) Valid() bool {
	return p == PositionYes || p == PositionNo
}

// BetStatus defines the state of a bet in our system
type BetStatus string

const (
	// BetStatusActive: placed on an open market, awaiting resolution
	BetStatusActive BetStatus = "active"
	// BetStatusPending: the market expired but has not resolved yet
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
)

// Open reports whether the bet is still awaiting settlement.
func (s BetStatus) Open() bool {
	return s == BetStatusActive || s == BetStatusPending
}

// Bet represents a single stake on one side of a market
type Bet struct {
	ID       uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID string      `gorm:"column:market_id;size:64;not null;index:idx_bets_market" json:"market_id"`
	UserID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_bets_user" json:"user_id"`
	Position BetPosition `gorm:"column:position;type:varchar(8);not null" json:"position"`
	Amount   Amount      `gorm:"column:amount;type:bigint;not null" json:"amount"`

	// Odds in effect at the instant of placement (pre-trade quote).
	// Write-once: settlement pays against this value, not the final pools.
	Odds float64 `gorm:"column:odds;type:decimal;not null" json:"odds"`

	Status        BetStatus  `gorm:"column:status;type:varchar(8);default:'active';index:idx_bets_status" json:"status"`
	PlacedAt      time.Time  `gorm:"column:placed_at;not null" json:"placed_at"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ActualWinning *Amount    `gorm:"column:actual_winning;type:bigint" json:"actual_winning,omitempty"`

	// Associations
	Market Market `gorm:"foreignKey:MarketID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name used by Bet to `bets`
func (Bet) TableName() string {
	return "bets"
}

// BeforeCreate ensures UUID is generated if not present
func (b *Bet) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
