/**
 * @description
 * User database model.
 * Maps to the 'users' table in PostgreSQL.
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

// User represents a registered caster in the system.
// Balance is in cents and may never go negative: every debit is paired with
// an equal credit to a market pool, every credit with a settlement payout.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthID      string    `gorm:"column:auth_id;uniqueIndex;not null" json:"auth_id"`
	Email       string    `json:"email"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`

	Balance           Amount `gorm:"column:balance;type:bigint;not null" json:"balance"`
	TotalBets         int    `gorm:"column:total_bets;default:0" json:"total_bets"`
	TotalWinnings     Amount `gorm:"column:total_winnings;type:bigint;default:0" json:"total_winnings"`
	VerificationCount int    `gorm:"column:verification_count;default:0" json:"verification_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}

// BeforeCreate ensures UUID is generated if not present (though DB usually handles this)
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
