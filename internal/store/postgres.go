/**
 * @description
 * GORM-backed Store implementation.
 * Atomicity is a real Postgres transaction; the ForUpdate getters take
 * SELECT ... FOR UPDATE row locks so concurrent writers serialize per entity.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/jackc/pgx/v5/pgconn (retryable error codes on batch upserts)
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/blockcast-project/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGorm wraps a GORM connection in the Store interface.
func NewGorm(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *gormStore) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	var m models.Market
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *gormStore) GetMarketForUpdate(ctx context.Context, id string) (*models.Market, error) {
	var m models.Market
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *gormStore) ListMarkets(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *gormStore) ListMarketsByStatus(ctx context.Context, status models.MarketStatus) ([]models.Market, error) {
	var markets []models.Market
	if err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id ASC").
		Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *gormStore) SaveMarket(ctx context.Context, m *models.Market) error {
	return s.db.WithContext(ctx).Save(m).Error
}

// UpsertMarkets batch-inserts the catalog, keeping pool state on conflict so
// a re-seed never resets live markets. Retries on deadlock/serialization
// failures the way managed Postgres occasionally surfaces them.
func (s *gormStore) UpsertMarkets(ctx context.Context, markets []models.Market) error {
	if len(markets) == 0 {
		return nil
	}

	const maxRetries = 5
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"claim",
				"category",
				"subcategory",
				"source",
				"description",
				"country",
				"confidence",
				"trending",
				"expires_at",
			}),
		}).CreateInBatches(markets, 100).Error
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "40P01" || pgErr.Code == "40001") {
			backoff := time.Duration(attempt*100+rand.Intn(100)) * time.Millisecond
			time.Sleep(backoff)
			continue
		}
		break
	}
	return fmt.Errorf("failed to upsert markets: %w", err)
}

func (s *gormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormStore) GetUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormStore) GetUserByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "auth_id = ?", authID).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormStore) SaveUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *gormStore) CreateBet(ctx context.Context, b *models.Bet) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *gormStore) SaveBet(ctx context.Context, b *models.Bet) error {
	return s.db.WithContext(ctx).Save(b).Error
}

func (s *gormStore) GetBet(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var b models.Bet
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *gormStore) ListMarketBets(ctx context.Context, marketID string, statuses ...models.BetStatus) ([]models.Bet, error) {
	query := s.db.WithContext(ctx).Where("market_id = ?", marketID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var bets []models.Bet
	if err := query.Order("placed_at ASC").Find(&bets).Error; err != nil {
		return nil, err
	}
	return bets, nil
}

func (s *gormStore) ListUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error) {
	var bets []models.Bet
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Find(&bets).Error; err != nil {
		return nil, err
	}
	return bets, nil
}
