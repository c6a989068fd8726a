/**
 * @description
 * Persistence boundary for the ledger engine.
 * The engine only ever talks to this interface, so the core is testable
 * without Postgres (see memory.go) and the storage tech is swappable.
 *
 * @dependencies
 * - backend/internal/models
 * - github.com/google/uuid
 */

package store

import (
	"context"
	"errors"

	"github.com/blockcast-project/backend/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist.
// The engine maps it onto its own per-entity error taxonomy.
var ErrNotFound = errors.New("record not found")

// Store is the repository boundary backing the ledger engine.
//
// Atomic runs fn against a transactional view of the store: either every
// mutation fn performs is published together, or none are. Implementations
// must guarantee an observer never sees a balance debit without the matching
// pool credit. The ForUpdate variants take row locks inside Atomic; callers
// must acquire the market before the user to keep lock ordering global.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Store) error) error

	GetMarket(ctx context.Context, id string) (*models.Market, error)
	GetMarketForUpdate(ctx context.Context, id string) (*models.Market, error)
	ListMarkets(ctx context.Context) ([]models.Market, error)
	ListMarketsByStatus(ctx context.Context, status models.MarketStatus) ([]models.Market, error)
	SaveMarket(ctx context.Context, m *models.Market) error
	UpsertMarkets(ctx context.Context, markets []models.Market) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByAuthID(ctx context.Context, authID string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error

	CreateBet(ctx context.Context, b *models.Bet) error
	SaveBet(ctx context.Context, b *models.Bet) error
	GetBet(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	ListMarketBets(ctx context.Context, marketID string, statuses ...models.BetStatus) ([]models.Bet, error)
	ListUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error)
}
