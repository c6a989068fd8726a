/**
 * @description
 * Pari-mutuel odds derivation and the fee model.
 * Odds are never stored; they are recomputed from the raw integer pools on
 * every read so repeated reads cannot accumulate rounding drift.
 *
 * @dependencies
 * - backend/internal/models
 */

package ledger

import (
	"math"

	"github.com/blockcast-project/backend/internal/models"
)

const (
	// MaxOdds caps the multiplier when one side's pool is empty. Markets are
	// seeded on both sides at creation, so this is a guard rail, not a price.
	MaxOdds = 100.0

	// SeedPool is the amount credited to each side of a freshly created
	// market so odds are defined from the first moment it is visible.
	SeedPool = models.Amount(2500) // $25.00

	// StartingBalance is seeded onto every new user account.
	StartingBalance = models.Amount(100000) // $1,000.00

	// feeRateBasisPoints is the flat fee on realized profit at settlement.
	// Consulted only by settlementFee; previews and settlement share it.
	feeRateBasisPoints = 300 // 3%
)

// Odds returns the pari-mutuel multiplier totalPool/sidePool for one side.
// Defined (and capped) even when the side pool is empty so callers never
// divide by zero.
func Odds(sidePool, totalPool models.Amount) float64 {
	if totalPool <= 0 {
		return 0
	}
	if sidePool <= 0 {
		return MaxOdds
	}
	odds := float64(totalPool) / float64(sidePool)
	if odds > MaxOdds {
		return MaxOdds
	}
	return odds
}

// MarketOdds derives both multipliers from a market's current pools.
func MarketOdds(m *models.Market) (yes, no float64) {
	total := m.TotalPool()
	return Odds(m.YesPool, total), Odds(m.NoPool, total)
}

// AttachOdds recomputes the derived odds fields on a market in place.
func AttachOdds(m *models.Market) {
	m.YesOdds, m.NoOdds = MarketOdds(m)
}

// AttachOddsAll refreshes derived odds across a slice of markets.
func AttachOddsAll(markets []models.Market) {
	for i := range markets {
		AttachOdds(&markets[i])
	}
}

// Payout converts a stake and its locked odds into a gross payout, rounded
// to the nearest cent.
func Payout(amount models.Amount, odds float64) models.Amount {
	return models.Amount(math.Round(float64(amount) * odds))
}

// settlementFee is the single application point of the fee model: a flat
// percentage of realized profit, zero when there is no profit.
func settlementFee(profit models.Amount) models.Amount {
	if profit <= 0 {
		return 0
	}
	return profit * feeRateBasisPoints / 10000
}

// PayoutPreview is the display-time breakdown for a prospective or active
// bet. The same fee function backs settlement, so the preview and the final
// credited amount can never disagree.
type PayoutPreview struct {
	Amount      models.Amount `json:"amount"`
	Odds        float64       `json:"odds"`
	Payout      models.Amount `json:"payout"`       // gross: amount * odds
	GrossProfit models.Amount `json:"gross_profit"` // payout - amount
	Fee         models.Amount `json:"fee"`
	NetProfit   models.Amount `json:"net_profit"` // gross profit - fee
	Credit      models.Amount `json:"credit"`     // what settlement pays the balance
}

// Preview computes the payout breakdown for a stake at the given odds.
func Preview(amount models.Amount, odds float64) PayoutPreview {
	payout := Payout(amount, odds)
	profit := payout - amount
	fee := settlementFee(profit)
	return PayoutPreview{
		Amount:      amount,
		Odds:        odds,
		Payout:      payout,
		GrossProfit: profit,
		Fee:         fee,
		NetProfit:   profit - fee,
		Credit:      payout - fee,
	}
}
