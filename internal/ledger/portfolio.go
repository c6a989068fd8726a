/**
 * @description
 * Portfolio aggregation: pure projections over a user's bet collection.
 * Nothing here mutates or caches; callers recompute on every read so the
 * aggregates can never go stale relative to the bet records.
 *
 * @dependencies
 * - backend/internal/models
 */

package ledger

import (
	"github.com/blockcast-project/backend/internal/models"
)

// PortfolioSummary is the derived view over a user's full bet history.
type PortfolioSummary struct {
	TotalStaked models.Amount `json:"total_staked"`
	ActiveStake models.Amount `json:"active_stake"`

	ActiveBets  int `json:"active_bets"`
	PendingBets int `json:"pending_bets"`
	WonBets     int `json:"won_bets"`
	LostBets    int `json:"lost_bets"`

	// WinRate is won/(won+lost); zero when no bets have resolved.
	WinRate float64 `json:"win_rate"`

	// RealizedPnL is sum(actual_winning) - sum(amount) over resolved bets.
	RealizedPnL models.Amount `json:"realized_pnl"`

	// PotentialWinnings is the gross payout locked in across open bets.
	PotentialWinnings models.Amount `json:"potential_winnings"`
}

// Portfolio bundles the raw bets with their derived aggregates.
type Portfolio struct {
	Bets    []models.Bet     `json:"bets"`
	Summary PortfolioSummary `json:"aggregates"`
}

// Summarize derives the portfolio aggregates from a bet collection.
func Summarize(bets []models.Bet) PortfolioSummary {
	var s PortfolioSummary

	for _, b := range bets {
		s.TotalStaked += b.Amount

		switch b.Status {
		case models.BetStatusActive:
			s.ActiveBets++
			s.ActiveStake += b.Amount
			s.PotentialWinnings += Payout(b.Amount, b.Odds)
		case models.BetStatusPending:
			s.PendingBets++
			s.ActiveStake += b.Amount
			s.PotentialWinnings += Payout(b.Amount, b.Odds)
		case models.BetStatusWon, models.BetStatusLost:
			if b.Status == models.BetStatusWon {
				s.WonBets++
			} else {
				s.LostBets++
			}
			if b.ActualWinning != nil {
				s.RealizedPnL += *b.ActualWinning
			}
			s.RealizedPnL -= b.Amount
		}
	}

	if resolved := s.WonBets + s.LostBets; resolved > 0 {
		s.WinRate = float64(s.WonBets) / float64(resolved)
	}
	return s
}
