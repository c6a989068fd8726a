package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/blockcast-project/backend/internal/models"
	"github.com/blockcast-project/backend/internal/store"
	"github.com/google/uuid"
)

var testClock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	engine := NewEngine(mem, nil)
	engine.Now = func() time.Time { return testClock }
	return engine, mem
}

func seedMarket(t *testing.T, mem *store.Memory, id string, yes, no models.Amount) *models.Market {
	t.Helper()
	m := &models.Market{
		ID:        id,
		Claim:     "Test claim for " + id,
		Category:  "Finance",
		YesPool:   yes,
		NoPool:    no,
		Status:    models.MarketStatusActive,
		ExpiresAt: testClock.Add(24 * time.Hour),
	}
	if err := mem.SaveMarket(context.Background(), m); err != nil {
		t.Fatalf("failed to seed market: %v", err)
	}
	return m
}

func seedUser(t *testing.T, mem *store.Memory, balance models.Amount) *models.User {
	t.Helper()
	u := &models.User{
		AuthID:  "auth|" + uuid.NewString(),
		Email:   "caster@example.com",
		Balance: balance,
	}
	if err := mem.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func TestPlaceBetMovesPoolAndLocksPreTradeOdds(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-a", models.Dollars(50), models.Dollars(50))
	user := seedUser(t, mem, models.Dollars(10))

	bet, err := engine.PlaceBet(ctx, "mkt-a", user.ID, models.PositionYes, models.Dollars(10))
	if err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	if bet.Odds != 2.0 {
		t.Errorf("locked odds = %v, want 2.0 (pre-trade quote)", bet.Odds)
	}
	if bet.Status != models.BetStatusActive {
		t.Errorf("bet status = %s, want active", bet.Status)
	}

	m, err := engine.GetMarket(ctx, "mkt-a")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if m.YesPool != models.Dollars(60) || m.NoPool != models.Dollars(50) {
		t.Errorf("pools = %s/%s, want $60.00/$50.00", m.YesPool, m.NoPool)
	}
	if m.TotalPool() != models.Dollars(110) {
		t.Errorf("total pool = %s, want $110.00", m.TotalPool())
	}
	if math.Abs(m.YesOdds-110.0/60.0) > 1e-9 {
		t.Errorf("new yes odds = %v, want ~1.833", m.YesOdds)
	}
	if m.TotalCasters != 1 {
		t.Errorf("total casters = %d, want 1", m.TotalCasters)
	}

	u, err := engine.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Balance != 0 {
		t.Errorf("balance = %s, want $0.00", u.Balance)
	}
	if u.TotalBets != 1 {
		t.Errorf("total bets = %d, want 1", u.TotalBets)
	}
}

func TestPlaceBetLockedOddsSurviveLaterCasts(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-lock", models.Dollars(50), models.Dollars(50))
	first := seedUser(t, mem, models.Dollars(100))
	second := seedUser(t, mem, models.Dollars(100))

	bet, err := engine.PlaceBet(ctx, "mkt-lock", first.ID, models.PositionYes, models.Dollars(10))
	if err != nil {
		t.Fatalf("first PlaceBet failed: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-lock", second.ID, models.PositionYes, models.Dollars(40)); err != nil {
		t.Fatalf("second PlaceBet failed: %v", err)
	}

	stored, err := mem.GetBet(ctx, bet.ID)
	if err != nil {
		t.Fatalf("GetBet failed: %v", err)
	}
	if stored.Odds != 2.0 {
		t.Errorf("first bet odds after later cast = %v, want still 2.0", stored.Odds)
	}
}

func TestPlaceBetRejectsBadInput(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-bad", models.Dollars(50), models.Dollars(50))
	user := seedUser(t, mem, models.Dollars(5))

	if _, err := engine.PlaceBet(ctx, "mkt-bad", user.ID, models.BetPosition("maybe"), models.Dollars(1)); !errors.Is(err, ErrInvalidOutcome) {
		t.Errorf("invalid position: got %v, want ErrInvalidOutcome", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-bad", user.ID, models.PositionYes, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-bad", user.ID, models.PositionYes, models.Dollars(-3)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := engine.PlaceBet(ctx, "missing", user.ID, models.PositionYes, models.Dollars(1)); !errors.Is(err, ErrMarketNotFound) {
		t.Errorf("missing market: got %v, want ErrMarketNotFound", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-bad", uuid.New(), models.PositionYes, models.Dollars(1)); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user: got %v, want ErrUserNotFound", err)
	}
}

func TestPlaceBetInsufficientBalanceLeavesNoPartialState(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-broke", models.Dollars(50), models.Dollars(50))
	user := seedUser(t, mem, models.Dollars(5))

	_, err := engine.PlaceBet(ctx, "mkt-broke", user.ID, models.PositionYes, models.Dollars(10))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("got %v, want ErrInsufficientBalance", err)
	}

	m, _ := engine.GetMarket(ctx, "mkt-broke")
	if m.YesPool != models.Dollars(50) {
		t.Errorf("yes pool mutated on rejected bet: %s", m.YesPool)
	}
	u, _ := engine.GetUser(ctx, user.ID)
	if u.Balance != models.Dollars(5) {
		t.Errorf("balance mutated on rejected bet: %s", u.Balance)
	}
	bets, _ := mem.ListUserBets(ctx, user.ID)
	if len(bets) != 0 {
		t.Errorf("rejected bet was recorded: %d bets", len(bets))
	}
}

func TestPlaceBetRejectsClosedAndExpiredMarkets(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, mem, models.Dollars(100))

	expired := seedMarket(t, mem, "mkt-expired", models.Dollars(50), models.Dollars(50))
	expired.ExpiresAt = testClock.Add(-time.Minute)
	if err := mem.SaveMarket(ctx, expired); err != nil {
		t.Fatalf("failed to expire market: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-expired", user.ID, models.PositionYes, models.Dollars(1)); !errors.Is(err, ErrMarketClosed) {
		t.Errorf("expired market: got %v, want ErrMarketClosed", err)
	}

	resolved := seedMarket(t, mem, "mkt-done", models.Dollars(50), models.Dollars(50))
	resolved.Status = models.MarketStatusResolved
	if err := mem.SaveMarket(ctx, resolved); err != nil {
		t.Fatalf("failed to close market: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-done", user.ID, models.PositionYes, models.Dollars(1)); !errors.Is(err, ErrMarketClosed) {
		t.Errorf("resolved market: got %v, want ErrMarketClosed", err)
	}
}

func TestResolveMarketSettlesWinnersAndLosers(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-b", models.Dollars(50), models.Dollars(50))
	winner := seedUser(t, mem, models.Dollars(100))
	loser := seedUser(t, mem, models.Dollars(100))

	winBet, err := engine.PlaceBet(ctx, "mkt-b", winner.ID, models.PositionYes, models.Dollars(10))
	if err != nil {
		t.Fatalf("winner PlaceBet failed: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-b", loser.ID, models.PositionNo, models.Dollars(20)); err != nil {
		t.Fatalf("loser PlaceBet failed: %v", err)
	}

	settled, err := engine.ResolveMarket(ctx, "mkt-b", models.PositionYes)
	if err != nil {
		t.Fatalf("ResolveMarket failed: %v", err)
	}
	if len(settled) != 2 {
		t.Fatalf("settled %d bets, want 2", len(settled))
	}

	m, _ := engine.GetMarket(ctx, "mkt-b")
	if m.Status != models.MarketStatusResolved {
		t.Errorf("market status = %s, want resolved", m.Status)
	}
	if m.Resolution == nil || *m.Resolution != models.PositionYes {
		t.Errorf("resolution = %v, want yes", m.Resolution)
	}

	// Winner staked $10 at locked odds 2.0: gross payout $20, profit $10,
	// 3% fee on profit = $0.30, credit $19.70.
	stored, _ := mem.GetBet(ctx, winBet.ID)
	if stored.Status != models.BetStatusWon {
		t.Errorf("winning bet status = %s, want won", stored.Status)
	}
	if stored.ActualWinning == nil || *stored.ActualWinning != models.Dollars(20) {
		t.Errorf("actual winning = %v, want $20.00 gross", stored.ActualWinning)
	}
	if stored.ResolvedAt == nil || !stored.ResolvedAt.Equal(testClock) {
		t.Errorf("resolved at = %v, want test clock", stored.ResolvedAt)
	}

	u, _ := engine.GetUser(ctx, winner.ID)
	wantBalance := models.Dollars(90) + models.Cents(1970)
	if u.Balance != wantBalance {
		t.Errorf("winner balance = %s, want %s", u.Balance, wantBalance)
	}
	if u.TotalWinnings != models.Cents(1970) {
		t.Errorf("winner total winnings = %s, want $19.70", u.TotalWinnings)
	}
	if u.VerificationCount != 1 {
		t.Errorf("winner verification count = %d, want 1", u.VerificationCount)
	}

	l, _ := engine.GetUser(ctx, loser.ID)
	if l.Balance != models.Dollars(80) {
		t.Errorf("loser balance = %s, want $80.00 (unchanged by settlement)", l.Balance)
	}
	for _, b := range settled {
		if b.Position == models.PositionNo {
			if b.Status != models.BetStatusLost {
				t.Errorf("losing bet status = %s, want lost", b.Status)
			}
			if b.ActualWinning == nil || *b.ActualWinning != 0 {
				t.Errorf("losing bet actual winning = %v, want 0", b.ActualWinning)
			}
		}
	}
}

func TestResolveMarketIsWriteOnce(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-once", models.Dollars(50), models.Dollars(50))
	user := seedUser(t, mem, models.Dollars(100))
	if _, err := engine.PlaceBet(ctx, "mkt-once", user.ID, models.PositionYes, models.Dollars(10)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	if _, err := engine.ResolveMarket(ctx, "mkt-once", models.PositionYes); err != nil {
		t.Fatalf("first resolution failed: %v", err)
	}
	u, _ := engine.GetUser(ctx, user.ID)
	balanceAfterFirst := u.Balance

	_, err := engine.ResolveMarket(ctx, "mkt-once", models.PositionNo)
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("second resolution: got %v, want ErrAlreadyResolved", err)
	}

	m, _ := engine.GetMarket(ctx, "mkt-once")
	if m.Resolution == nil || *m.Resolution != models.PositionYes {
		t.Errorf("resolution changed on second call: %v", m.Resolution)
	}
	u, _ = engine.GetUser(ctx, user.ID)
	if u.Balance != balanceAfterFirst {
		t.Errorf("winner paid twice: %s vs %s", u.Balance, balanceAfterFirst)
	}
}

func TestResolveMarketSettlesPendingBets(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-pending", models.Dollars(50), models.Dollars(50))
	user := seedUser(t, mem, models.Dollars(100))
	if _, err := engine.PlaceBet(ctx, "mkt-pending", user.ID, models.PositionYes, models.Dollars(10)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	m, err := mem.GetMarket(ctx, "mkt-pending")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	m.ExpiresAt = testClock.Add(-time.Minute)
	if err := mem.SaveMarket(ctx, m); err != nil {
		t.Fatalf("failed to backdate expiry: %v", err)
	}
	if _, err := engine.ExpireMarkets(ctx); err != nil {
		t.Fatalf("ExpireMarkets failed: %v", err)
	}

	settled, err := engine.ResolveMarket(ctx, "mkt-pending", models.PositionYes)
	if err != nil {
		t.Fatalf("ResolveMarket failed: %v", err)
	}
	if len(settled) != 1 || settled[0].Status != models.BetStatusWon {
		t.Fatalf("pending bet not settled: %+v", settled)
	}
}

func TestFeeConsistentBetweenPreviewAndSettlement(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-fee", models.Dollars(70), models.Dollars(30))
	user := seedUser(t, mem, models.Dollars(500))

	amount := models.Cents(3317) // awkward amount to exercise rounding
	preview, err := engine.PreviewBet(ctx, "mkt-fee", models.PositionNo, amount)
	if err != nil {
		t.Fatalf("PreviewBet failed: %v", err)
	}

	if _, err := engine.PlaceBet(ctx, "mkt-fee", user.ID, models.PositionNo, amount); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if _, err := engine.ResolveMarket(ctx, "mkt-fee", models.PositionNo); err != nil {
		t.Fatalf("ResolveMarket failed: %v", err)
	}

	u, _ := engine.GetUser(ctx, user.ID)
	wantBalance := models.Dollars(500) - amount + preview.Credit
	if u.Balance != wantBalance {
		t.Errorf("settled balance = %s, want %s (preview credit honored)", u.Balance, wantBalance)
	}
	if u.TotalWinnings != preview.Credit {
		t.Errorf("total winnings = %s, want preview credit %s", u.TotalWinnings, preview.Credit)
	}
}

func TestConservationAcrossPlacementAndSettlement(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-cons", models.Dollars(50), models.Dollars(50))
	alice := seedUser(t, mem, models.Dollars(200))
	bob := seedUser(t, mem, models.Dollars(200))

	startingBalances := models.Dollars(400)

	if _, err := engine.PlaceBet(ctx, "mkt-cons", alice.ID, models.PositionYes, models.Dollars(30)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-cons", bob.ID, models.PositionNo, models.Dollars(45)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	m, _ := engine.GetMarket(ctx, "mkt-cons")
	a, _ := engine.GetUser(ctx, alice.ID)
	b, _ := engine.GetUser(ctx, bob.ID)

	// Every debited cent is in a pool: balances + stakes == starting balances.
	staked := m.TotalPool() - models.Dollars(100)
	if a.Balance+b.Balance+staked != startingBalances {
		t.Errorf("funds leaked at placement: balances %s + staked %s != %s",
			a.Balance+b.Balance, staked, startingBalances)
	}

	settled, err := engine.ResolveMarket(ctx, "mkt-cons", models.PositionYes)
	if err != nil {
		t.Fatalf("ResolveMarket failed: %v", err)
	}

	// After settlement each winner's credit equals its preview exactly, and
	// losers get nothing; no bet is paid more than amount * lockedOdds.
	a, _ = engine.GetUser(ctx, alice.ID)
	b, _ = engine.GetUser(ctx, bob.ID)
	var credited models.Amount
	for _, bet := range settled {
		if bet.Status == models.BetStatusWon {
			credited += Preview(bet.Amount, bet.Odds).Credit
		}
	}
	want := startingBalances - staked + credited
	if a.Balance+b.Balance != want {
		t.Errorf("post-settlement balances = %s, want %s", a.Balance+b.Balance, want)
	}
}

func TestExpireMarketsSweep(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	past := seedMarket(t, mem, "mkt-past", models.Dollars(50), models.Dollars(50))
	past.ExpiresAt = testClock.Add(-time.Hour)
	if err := mem.SaveMarket(ctx, past); err != nil {
		t.Fatalf("failed to backdate market: %v", err)
	}
	seedMarket(t, mem, "mkt-future", models.Dollars(50), models.Dollars(50))

	user := seedUser(t, mem, models.Dollars(100))
	bet := &models.Bet{
		MarketID: "mkt-past",
		UserID:   user.ID,
		Position: models.PositionYes,
		Amount:   models.Dollars(10),
		Odds:     2.0,
		Status:   models.BetStatusActive,
		PlacedAt: testClock.Add(-2 * time.Hour),
	}
	if err := mem.CreateBet(ctx, bet); err != nil {
		t.Fatalf("failed to seed bet: %v", err)
	}

	swept, err := engine.ExpireMarkets(ctx)
	if err != nil {
		t.Fatalf("ExpireMarkets failed: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}

	m, _ := engine.GetMarket(ctx, "mkt-past")
	if m.Status != models.MarketStatusResolving {
		t.Errorf("expired market status = %s, want resolving", m.Status)
	}
	fresh, _ := engine.GetMarket(ctx, "mkt-future")
	if fresh.Status != models.MarketStatusActive {
		t.Errorf("future market status = %s, want active", fresh.Status)
	}
	stored, _ := mem.GetBet(ctx, bet.ID)
	if stored.Status != models.BetStatusPending {
		t.Errorf("swept bet status = %s, want pending", stored.Status)
	}

	// Idempotent: a second sweep finds nothing.
	swept, err = engine.ExpireMarkets(ctx)
	if err != nil || swept != 0 {
		t.Errorf("second sweep = (%d, %v), want (0, nil)", swept, err)
	}
}

func TestSyncUserCreatesOnceWithStartingBalance(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	u, err := engine.SyncUser(ctx, "auth|abc", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("SyncUser failed: %v", err)
	}
	if u.Balance != StartingBalance {
		t.Errorf("starting balance = %s, want %s", u.Balance, StartingBalance)
	}

	again, err := engine.SyncUser(ctx, "auth|abc", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("second SyncUser failed: %v", err)
	}
	if again.ID != u.ID {
		t.Errorf("SyncUser created a second account: %s vs %s", again.ID, u.ID)
	}
}

func TestTopCastersAggregatesAndRanks(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-top", models.Dollars(50), models.Dollars(50))
	small := seedUser(t, mem, models.Dollars(100))
	big := seedUser(t, mem, models.Dollars(100))

	if _, err := engine.PlaceBet(ctx, "mkt-top", small.ID, models.PositionYes, models.Dollars(5)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-top", big.ID, models.PositionNo, models.Dollars(20)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if _, err := engine.PlaceBet(ctx, "mkt-top", big.ID, models.PositionYes, models.Dollars(10)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	casters, err := engine.TopCasters(ctx, "mkt-top", 10)
	if err != nil {
		t.Fatalf("TopCasters failed: %v", err)
	}
	if len(casters) != 2 {
		t.Fatalf("got %d casters, want 2", len(casters))
	}
	if casters[0].UserID != big.ID || casters[0].TotalStake != models.Dollars(30) || casters[0].Bets != 2 {
		t.Errorf("top caster = %+v, want big with $30.00 over 2 bets", casters[0])
	}
	if casters[1].UserID != small.ID || casters[1].TotalStake != models.Dollars(5) {
		t.Errorf("second caster = %+v, want small with $5.00", casters[1])
	}
}

func TestGetUserPortfolio(t *testing.T) {
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	seedMarket(t, mem, "mkt-port", models.Dollars(50), models.Dollars(50))
	user := seedUser(t, mem, models.Dollars(100))
	if _, err := engine.PlaceBet(ctx, "mkt-port", user.ID, models.PositionYes, models.Dollars(10)); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	p, err := engine.GetUserPortfolio(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserPortfolio failed: %v", err)
	}
	if len(p.Bets) != 1 {
		t.Fatalf("portfolio has %d bets, want 1", len(p.Bets))
	}
	if p.Summary.ActiveBets != 1 || p.Summary.TotalStaked != models.Dollars(10) {
		t.Errorf("summary = %+v, want 1 active bet staking $10.00", p.Summary)
	}
	if p.Summary.PotentialWinnings != models.Dollars(20) {
		t.Errorf("potential winnings = %s, want $20.00", p.Summary.PotentialWinnings)
	}

	if _, err := engine.GetUserPortfolio(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user: got %v, want ErrUserNotFound", err)
	}
}
