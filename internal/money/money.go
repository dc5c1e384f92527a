// Package money converts decimal amounts into integer minor units (cents).
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ivankudrin/finapi/internal/model"
)

// ToCents parses an amount given as an integer, a decimal number, or a
// numeric string with '.' as the fractional separator, and returns the
// amount in minor units: "10" -> 1000, "10.5" -> 1050, "10.32" -> 1032.
//
// Fractional parts longer than two digits are rejected rather than rounded:
// a sub-cent amount cannot be recorded exactly, and rounding it would make
// the stored history disagree with what the caller asked for.
//
// The sign is preserved; callers that require positivity check the result.
func ToCents(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, model.ErrInvalidAmount)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has sub-cent precision: %w", raw, model.ErrInvalidAmount)
	}
	return d.Shift(2).IntPart(), nil
}
