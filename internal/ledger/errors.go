/**
 * @description
 * Error taxonomy for the ledger engine.
 * Every precondition failure maps to exactly one of these sentinels; the API
 * layer translates them into HTTP status codes with errors.Is.
 */

package ledger

import "errors"

var (
	// ErrInvalidAmount: zero or negative stake. Never downgraded to a $0 bet.
	ErrInvalidAmount = errors.New("bet amount must be positive")
	// ErrInsufficientBalance: stake exceeds the caster's balance. Rejected, not clamped.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrMarketClosed: market expired or no longer active.
	ErrMarketClosed   = errors.New("market is closed for casting")
	ErrMarketNotFound = errors.New("market not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrBetNotFound    = errors.New("bet not found")
	// ErrAlreadyResolved: resolution is write-once; a second resolve call is
	// a caller bug, never a silent re-apply.
	ErrAlreadyResolved = errors.New("market already resolved")
	ErrInvalidOutcome  = errors.New("outcome must be yes or no")
)
