/**
 * @description
 * Market Ledger Engine.
 * Owns the authoritative mutation paths for markets, users, and bets:
 * placement, settlement, expiry. Every stake-moving operation runs inside
 * Store.Atomic so a balance debit is never visible without its pool credit.
 *
 * @dependencies
 * - backend/internal/store
 * - backend/internal/models
 * - github.com/redis/go-redis/v9 (optional cache invalidation + odds pub/sub)
 */

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/blockcast-project/backend/internal/logger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/blockcast-project/backend/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CatalogCacheKey holds the cached market listing; invalidated on every
	// pool mutation so readers never see stale odds.
	CatalogCacheKey = "markets:catalog"

	// OddsUpdateChannel carries pool/odds snapshots after each placement.
	OddsUpdateChannel = "market:odds_updates"
)

// Engine exposes the invariant-preserving operations over the ledger state.
// Redis is optional; when nil no cache is touched and no updates publish.
type Engine struct {
	Store store.Store
	Redis *redis.Client

	// Now is injectable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

// NewEngine wires the engine to its persistence boundary.
func NewEngine(st store.Store, rdb *redis.Client) *Engine {
	return &Engine{
		Store: st,
		Redis: rdb,
		Now:   time.Now,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// GetMarket fetches a single market with derived odds attached.
func (e *Engine) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	m, err := e.Store.GetMarket(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMarketNotFound
		}
		return nil, err
	}
	AttachOdds(m)
	return m, nil
}

// ListMarkets returns the full catalog with derived odds attached.
func (e *Engine) ListMarkets(ctx context.Context) ([]models.Market, error) {
	markets, err := e.Store.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}
	AttachOddsAll(markets)
	return markets, nil
}

// CreateMarket registers a new market, seeding both pools so odds are
// computable from the first moment it is displayed.
func (e *Engine) CreateMarket(ctx context.Context, m *models.Market) error {
	if m.YesPool <= 0 {
		m.YesPool = SeedPool
	}
	if m.NoPool <= 0 {
		m.NoPool = SeedPool
	}
	if m.Status == "" {
		m.Status = models.MarketStatusActive
	}
	if err := e.Store.SaveMarket(ctx, m); err != nil {
		return fmt.Errorf("failed to create market: %w", err)
	}
	AttachOdds(m)
	e.invalidateCatalog(ctx)
	return nil
}

// GetUser fetches a user by internal id.
func (e *Engine) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := e.Store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// SyncUser returns the account for an external auth subject, creating it
// with the starting balance on first sight.
func (e *Engine) SyncUser(ctx context.Context, authID, email, displayName string) (*models.User, error) {
	u, err := e.Store.GetUserByAuthID(ctx, authID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	u = &models.User{
		AuthID:      authID,
		Email:       email,
		DisplayName: displayName,
		Balance:     StartingBalance,
	}
	if err := e.Store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logger.Info("Ledger: created user %s with starting balance %s", u.ID, u.Balance)
	return u, nil
}

// UserByAuthID resolves an external auth subject to an account.
func (e *Engine) UserByAuthID(ctx context.Context, authID string) (*models.User, error) {
	u, err := e.Store.GetUserByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// PlaceBet stakes amount on one side of a market.
//
// All preconditions are checked before any mutation; the debit, the pool
// credit, the counters, and the new bet row commit together or not at all.
// The recorded odds are the pre-trade quote: the market state before this
// stake moved the pool, so later casts never reprice an earlier bet.
func (e *Engine) PlaceBet(ctx context.Context, marketID string, userID uuid.UUID, position models.BetPosition, amount models.Amount) (*models.Bet, error) {
	if !position.Valid() {
		return nil, ErrInvalidOutcome
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := e.now()
	var placed *models.Bet
	var updated *models.Market

	err := e.Store.Atomic(ctx, func(tx store.Store) error {
		// Market first, then user: fixed lock order across all operations.
		m, err := tx.GetMarketForUpdate(ctx, marketID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMarketNotFound
			}
			return err
		}
		if !m.OpenForCasting(now) {
			return ErrMarketClosed
		}

		u, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if amount > u.Balance {
			return ErrInsufficientBalance
		}

		// Quote locked before the stake lands in the pool.
		lockedOdds := Odds(m.Pool(position), m.TotalPool())

		u.Balance -= amount
		u.TotalBets++

		if position == models.PositionYes {
			m.YesPool += amount
		} else {
			m.NoPool += amount
		}
		m.TotalCasters++
		AttachOdds(m)

		bet := &models.Bet{
			MarketID: m.ID,
			UserID:   u.ID,
			Position: position,
			Amount:   amount,
			Odds:     lockedOdds,
			Status:   models.BetStatusActive,
			PlacedAt: now,
		}

		if err := tx.SaveMarket(ctx, m); err != nil {
			return fmt.Errorf("failed to save market: %w", err)
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := tx.CreateBet(ctx, bet); err != nil {
			return fmt.Errorf("failed to record bet: %w", err)
		}

		placed = bet
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.invalidateCatalog(ctx)
	e.publishOddsUpdate(ctx, updated)
	return placed, nil
}

// PreviewBet quotes the payout a stake would lock in right now, using the
// same pre-trade pricing PlaceBet records.
func (e *Engine) PreviewBet(ctx context.Context, marketID string, position models.BetPosition, amount models.Amount) (*PayoutPreview, error) {
	if !position.Valid() {
		return nil, ErrInvalidOutcome
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	m, err := e.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if !m.OpenForCasting(e.now()) {
		return nil, ErrMarketClosed
	}

	preview := Preview(amount, Odds(m.Pool(position), m.TotalPool()))
	return &preview, nil
}

// ResolveMarket settles a market to the given outcome.
//
// Resolution is write-once: a second call surfaces ErrAlreadyResolved and
// changes nothing, so winners can never be double-paid. Winning bets are
// credited amount * lockedOdds minus the profit fee; losing stakes stay in
// the opposing pool's payout arithmetic.
func (e *Engine) ResolveMarket(ctx context.Context, marketID string, outcome models.BetPosition) ([]models.Bet, error) {
	if !outcome.Valid() {
		return nil, ErrInvalidOutcome
	}

	now := e.now()
	var settled []models.Bet

	err := e.Store.Atomic(ctx, func(tx store.Store) error {
		m, err := tx.GetMarketForUpdate(ctx, marketID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMarketNotFound
			}
			return err
		}
		if m.Status == models.MarketStatusResolved {
			return ErrAlreadyResolved
		}

		m.Status = models.MarketStatusResolved
		m.Resolution = &outcome
		AttachOdds(m)
		if err := tx.SaveMarket(ctx, m); err != nil {
			return fmt.Errorf("failed to save market: %w", err)
		}

		bets, err := tx.ListMarketBets(ctx, marketID, models.BetStatusActive, models.BetStatusPending)
		if err != nil {
			return fmt.Errorf("failed to list open bets: %w", err)
		}

		for i := range bets {
			bet := &bets[i]
			resolvedAt := now
			bet.ResolvedAt = &resolvedAt

			if bet.Position == outcome {
				preview := Preview(bet.Amount, bet.Odds)
				winning := preview.Payout
				bet.Status = models.BetStatusWon
				bet.ActualWinning = &winning

				u, err := tx.GetUserForUpdate(ctx, bet.UserID)
				if err != nil {
					return fmt.Errorf("failed to load winner %s: %w", bet.UserID, err)
				}
				u.Balance += preview.Credit
				u.TotalWinnings += preview.Credit
				u.VerificationCount++
				if err := tx.SaveUser(ctx, u); err != nil {
					return fmt.Errorf("failed to credit winner %s: %w", bet.UserID, err)
				}
			} else {
				zero := models.Amount(0)
				bet.Status = models.BetStatusLost
				bet.ActualWinning = &zero
			}

			if err := tx.SaveBet(ctx, bet); err != nil {
				return fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
			}
		}

		settled = bets
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Ledger: resolved market %s as %s, settled %d bets", marketID, outcome, len(settled))
	e.invalidateCatalog(ctx)
	return settled, nil
}

// ExpireMarkets sweeps active markets past their expiry into resolving and
// flips their open bets to pending. Returns the number of markets swept.
func (e *Engine) ExpireMarkets(ctx context.Context) (int, error) {
	now := e.now()
	swept := 0

	err := e.Store.Atomic(ctx, func(tx store.Store) error {
		markets, err := tx.ListMarketsByStatus(ctx, models.MarketStatusActive)
		if err != nil {
			return err
		}

		for i := range markets {
			m := &markets[i]
			if now.Before(m.ExpiresAt) {
				continue
			}

			m.Status = models.MarketStatusResolving
			if err := tx.SaveMarket(ctx, m); err != nil {
				return fmt.Errorf("failed to expire market %s: %w", m.ID, err)
			}

			bets, err := tx.ListMarketBets(ctx, m.ID, models.BetStatusActive)
			if err != nil {
				return err
			}
			for j := range bets {
				bets[j].Status = models.BetStatusPending
				if err := tx.SaveBet(ctx, &bets[j]); err != nil {
					return err
				}
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		e.invalidateCatalog(ctx)
	}
	return swept, nil
}

// GetUserPortfolio returns a user's bets with read-only aggregates computed
// fresh from the bet records on every call.
func (e *Engine) GetUserPortfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error) {
	if _, err := e.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	bets, err := e.Store.ListUserBets(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Portfolio{
		Bets:    bets,
		Summary: Summarize(bets),
	}, nil
}

// CasterStake is one user's aggregate stake on a market.
type CasterStake struct {
	UserID     uuid.UUID     `json:"user_id"`
	TotalStake models.Amount `json:"total_stake"`
	Bets       int           `json:"bets"`
}

// TopCasters ranks open stakes on a market by size, id-stable on ties.
func (e *Engine) TopCasters(ctx context.Context, marketID string, limit int) ([]CasterStake, error) {
	if _, err := e.GetMarket(ctx, marketID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	bets, err := e.Store.ListMarketBets(ctx, marketID, models.BetStatusActive, models.BetStatusPending)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID]*CasterStake)
	var order []uuid.UUID
	for _, b := range bets {
		cs, ok := byUser[b.UserID]
		if !ok {
			cs = &CasterStake{UserID: b.UserID}
			byUser[b.UserID] = cs
			order = append(order, b.UserID)
		}
		cs.TotalStake += b.Amount
		cs.Bets++
	}

	out := make([]CasterStake, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	sortCasters(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortCasters(cs []CasterStake) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].TotalStake != cs[j].TotalStake {
			return cs[i].TotalStake > cs[j].TotalStake
		}
		return cs[i].UserID.String() < cs[j].UserID.String()
	})
}

// OddsUpdate is the payload published after every stake mutation.
type OddsUpdate struct {
	MarketID  string        `json:"market_id"`
	YesPool   models.Amount `json:"yes_pool"`
	NoPool    models.Amount `json:"no_pool"`
	YesOdds   float64       `json:"yes_odds"`
	NoOdds    float64       `json:"no_odds"`
	TotalPool models.Amount `json:"total_pool"`
}

func (e *Engine) publishOddsUpdate(ctx context.Context, m *models.Market) {
	if e.Redis == nil || m == nil {
		return
	}

	payload, err := json.Marshal(OddsUpdate{
		MarketID:  m.ID,
		YesPool:   m.YesPool,
		NoPool:    m.NoPool,
		YesOdds:   m.YesOdds,
		NoOdds:    m.NoOdds,
		TotalPool: m.TotalPool(),
	})
	if err != nil {
		logger.Error("Ledger: failed to marshal odds update: %v", err)
		return
	}

	if err := e.Redis.Publish(ctx, OddsUpdateChannel, payload).Err(); err != nil {
		logger.Error("Ledger: failed to publish odds update: %v", err)
	}
}

func (e *Engine) invalidateCatalog(ctx context.Context) {
	if e.Redis == nil {
		return
	}
	if err := e.Redis.Del(ctx, CatalogCacheKey).Err(); err != nil {
		logger.Error("Ledger: failed to invalidate catalog cache: %v", err)
	}
}
