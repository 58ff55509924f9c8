package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quaylabs/shopsync/pkg/errors"
)

// Price handling rules:
//
//   - Comparison coerces both sides through a permissive parse that treats
//     unparsable or missing values as zero, so a blank local price means
//     "set to zero", not "no opinion".
//   - Rounding is half-up (half away from zero), and applied consistently on
//     both sides, so "9.99" and a pre-rounded 10 never register as a diff.
//   - Prices sent to the gateway are validated (> 0) and formatted to a fixed
//     two-decimal textual form to avoid floating-point drift in transport.

// ParseLoose parses a price string permissively, returning zero for empty or
// unparsable values.
func ParseLoose(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundAmount rounds a decimal amount half-up to the nearest integer.
func RoundAmount(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// ComparablePrice returns the integer-rounded value used for diffing.
func ComparablePrice(s string) int64 {
	return RoundAmount(ParseLoose(s))
}

// PriceText validates a price for a remote mutation and returns its fixed
// two-decimal textual form. Non-positive or unparsable prices are rejected
// with a ValidationError and must never reach the gateway.
func PriceText(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", errors.NewValidationError("price", s, "price is not a number")
	}
	if !d.IsPositive() {
		return "", errors.NewValidationError("price", s, "price must be greater than zero")
	}
	return d.StringFixed(2), nil
}
