/**
 * @description
 * In-memory Store implementation.
 * Backs the ledger tests and the seed command. Atomic works on a cloned
 * snapshot that is swapped in only when the callback succeeds, so a failed
 * operation leaves no partial state behind.
 *
 * @dependencies
 * - backend/internal/models
 */

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/blockcast-project/backend/internal/models"
	"github.com/google/uuid"
)

type memState struct {
	markets map[string]*models.Market
	users   map[uuid.UUID]*models.User
	bets    map[uuid.UUID]*models.Bet
	betSeq  []uuid.UUID // insertion order, used for deterministic listings
}

func newMemState() *memState {
	return &memState{
		markets: make(map[string]*models.Market),
		users:   make(map[uuid.UUID]*models.User),
		bets:    make(map[uuid.UUID]*models.Bet),
	}
}

func (st *memState) clone() *memState {
	c := newMemState()
	for id, m := range st.markets {
		c.markets[id] = copyMarket(m)
	}
	for id, u := range st.users {
		c.users[id] = copyUser(u)
	}
	for id, b := range st.bets {
		c.bets[id] = copyBet(b)
	}
	c.betSeq = append([]uuid.UUID(nil), st.betSeq...)
	return c
}

func copyMarket(m *models.Market) *models.Market {
	c := *m
	if m.Resolution != nil {
		r := *m.Resolution
		c.Resolution = &r
	}
	return &c
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyBet(b *models.Bet) *models.Bet {
	c := *b
	if b.ResolvedAt != nil {
		t := *b.ResolvedAt
		c.ResolvedAt = &t
	}
	if b.ActualWinning != nil {
		w := *b.ActualWinning
		c.ActualWinning = &w
	}
	return &c
}

// Memory is a mutex-guarded in-process Store.
type Memory struct {
	mu    sync.Mutex
	state *memState
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{state: newMemState()}
}

// Atomic runs fn against a snapshot and publishes it only on success.
func (s *Memory) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memTx{state: snapshot}); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

func (s *Memory) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.getMarket(id)
}

func (s *Memory) GetMarketForUpdate(ctx context.Context, id string) (*models.Market, error) {
	return s.GetMarket(ctx, id)
}

func (s *Memory) ListMarkets(ctx context.Context) ([]models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.listMarkets(""), nil
}

func (s *Memory) ListMarketsByStatus(ctx context.Context, status models.MarketStatus) ([]models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.listMarkets(status), nil
}

func (s *Memory) SaveMarket(ctx context.Context, m *models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.saveMarket(m)
}

func (s *Memory) UpsertMarkets(ctx context.Context, markets []models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range markets {
		if err := s.state.saveMarket(&markets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Memory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.getUser(id)
}

func (s *Memory) GetUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.GetUser(ctx, id)
}

func (s *Memory) GetUserByAuthID(ctx context.Context, authID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.getUserByAuthID(authID)
}

func (s *Memory) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.createUser(u)
}

func (s *Memory) SaveUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.saveUser(u)
}

func (s *Memory) CreateBet(ctx context.Context, b *models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.createBet(b)
}

func (s *Memory) SaveBet(ctx context.Context, b *models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.saveBet(b)
}

func (s *Memory) GetBet(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.getBet(id)
}

func (s *Memory) ListMarketBets(ctx context.Context, marketID string, statuses ...models.BetStatus) ([]models.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.listMarketBets(marketID, statuses), nil
}

func (s *Memory) ListUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.listUserBets(userID), nil
}

// memTx is the transactional view handed to Atomic callbacks. The root lock
// is already held, so it touches the snapshot directly.
type memTx struct {
	state *memState
}

func (t *memTx) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (t *memTx) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	return t.state.getMarket(id)
}

func (t *memTx) GetMarketForUpdate(ctx context.Context, id string) (*models.Market, error) {
	return t.state.getMarket(id)
}

func (t *memTx) ListMarkets(ctx context.Context) ([]models.Market, error) {
	return t.state.listMarkets(""), nil
}

func (t *memTx) ListMarketsByStatus(ctx context.Context, status models.MarketStatus) ([]models.Market, error) {
	return t.state.listMarkets(status), nil
}

func (t *memTx) SaveMarket(ctx context.Context, m *models.Market) error {
	return t.state.saveMarket(m)
}

func (t *memTx) UpsertMarkets(ctx context.Context, markets []models.Market) error {
	for i := range markets {
		if err := t.state.saveMarket(&markets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTx) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return t.state.getUser(id)
}

func (t *memTx) GetUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return t.state.getUser(id)
}

func (t *memTx) GetUserByAuthID(ctx context.Context, authID string) (*models.User, error) {
	return t.state.getUserByAuthID(authID)
}

func (t *memTx) CreateUser(ctx context.Context, u *models.User) error {
	return t.state.createUser(u)
}

func (t *memTx) SaveUser(ctx context.Context, u *models.User) error {
	return t.state.saveUser(u)
}

func (t *memTx) CreateBet(ctx context.Context, b *models.Bet) error {
	return t.state.createBet(b)
}

func (t *memTx) SaveBet(ctx context.Context, b *models.Bet) error {
	return t.state.saveBet(b)
}

func (t *memTx) GetBet(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	return t.state.getBet(id)
}

func (t *memTx) ListMarketBets(ctx context.Context, marketID string, statuses ...models.BetStatus) ([]models.Bet, error) {
	return t.state.listMarketBets(marketID, statuses), nil
}

func (t *memTx) ListUserBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error) {
	return t.state.listUserBets(userID), nil
}

func (st *memState) getMarket(id string) (*models.Market, error) {
	m, ok := st.markets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyMarket(m), nil
}

func (st *memState) listMarkets(status models.MarketStatus) []models.Market {
	ids := make([]string, 0, len(st.markets))
	for id := range st.markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.Market, 0, len(ids))
	for _, id := range ids {
		m := st.markets[id]
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, *copyMarket(m))
	}
	return out
}

func (st *memState) saveMarket(m *models.Market) error {
	st.markets[m.ID] = copyMarket(m)
	return nil
}

func (st *memState) getUser(id uuid.UUID) (*models.User, error) {
	u, ok := st.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (st *memState) getUserByAuthID(authID string) (*models.User, error) {
	for _, u := range st.users {
		if u.AuthID == authID {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (st *memState) createUser(u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	st.users[u.ID] = copyUser(u)
	return nil
}

func (st *memState) saveUser(u *models.User) error {
	st.users[u.ID] = copyUser(u)
	return nil
}

func (st *memState) createBet(b *models.Bet) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	st.bets[b.ID] = copyBet(b)
	st.betSeq = append(st.betSeq, b.ID)
	return nil
}

func (st *memState) saveBet(b *models.Bet) error {
	if _, ok := st.bets[b.ID]; !ok {
		return st.createBet(b)
	}
	st.bets[b.ID] = copyBet(b)
	return nil
}

func (st *memState) getBet(id uuid.UUID) (*models.Bet, error) {
	b, ok := st.bets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBet(b), nil
}

func (st *memState) listMarketBets(marketID string, statuses []models.BetStatus) []models.Bet {
	var out []models.Bet
	for _, id := range st.betSeq {
		b := st.bets[id]
		if b.MarketID != marketID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, b.Status) {
			continue
		}
		out = append(out, *copyBet(b))
	}
	return out
}

func (st *memState) listUserBets(userID uuid.UUID) []models.Bet {
	var out []models.Bet
	for i := len(st.betSeq) - 1; i >= 0; i-- {
		b := st.bets[st.betSeq[i]]
		if b.UserID == userID {
			out = append(out, *copyBet(b))
		}
	}
	return out
}

func containsStatus(statuses []models.BetStatus, s models.BetStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
