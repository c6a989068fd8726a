/**
 * @description
 * Fixed-point money type shared by all entities.
 * Amounts are stored as integer minor units (cents) so pool arithmetic
 * never accumulates floating-point drift.
 *
 * @dependencies
 * - standard "fmt" & "strconv"
 */

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents (USD minor units).
type Amount int64

// Cents constructs an Amount from a raw cent count.
func Cents(v int64) Amount {
	return Amount(v)
}

// Dollars constructs an Amount from whole dollars.
func Dollars(v int64) Amount {
	return Amount(v * 100)
}

// Float returns the amount in dollars as a float64. Display only;
// never feed this back into pool arithmetic.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String renders the amount as a currency string, e.g. "$1,234.56".
func (a Amount) String() string {
	negative := a < 0
	v := int64(a)
	if negative {
		v = -v
	}

	dollars := v / 100
	cents := v % 100

	digits := strconv.FormatInt(dollars, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, strings.Join(groups, ","), cents)
}

// MarshalJSON emits the raw cent count so clients do their own formatting.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(a), 10)), nil
}

// UnmarshalJSON accepts a raw cent count.
func (a *Amount) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseInt(strings.Trim(string(data), `"`), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", string(data), err)
	}
	*a = Amount(v)
	return nil
}
