package dao

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// TLUnit is one whole TL token in base units (10^18).
var TLUnit = uint256.NewInt(1_000_000_000_000_000_000)

var (
	errEmptyAmount    = errors.New("empty amount")
	errTooManyDecimal = errors.New("too many decimal places")
	errNotDecimal     = errors.New("amount must be plain decimal digits")
)

// TL converts whole TL tokens into base units.
// Example payload: dao.TL(4000)
func TL(whole uint64) *uint256.Int {
	// a uint64 times 10^18 stays far below 2^256
	return new(uint256.Int).Mul(uint256.NewInt(whole), TLUnit)
}

// MyGov is just the unit count, the token has no decimals.
func MyGov(units uint64) *uint256.Int {
	return uint256.NewInt(units)
}

// Zero returns a fresh zero amount.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// ParseAmount reads base units in plain decimal.
// Example payload: dao.ParseAmount("4000000000000000000000")
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptyAmount
	}
	return fromDigits(s)
}

// ParseTokenAmount reads a human amount like "12.5" and scales it by decimals.
// Example payload: dao.ParseTokenAmount("12.5", 18)
func ParseTokenAmount(s string, decimals uint8) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptyAmount
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		return nil, errTooManyDecimal
	}
	if whole == "" {
		whole = "0"
	}
	return fromDigits(whole + frac + strings.Repeat("0", int(decimals)-len(frac)))
}

// fromDigits only lets 0-9 through and strips leading zeros before handing off to uint256,
// which also catches values above 2^256.
func fromDigits(s string) (*uint256.Int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, errNotDecimal
		}
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return Zero(), nil
	}
	return uint256.FromDecimal(s)
}

// FormatTokenAmount is the inverse of ParseTokenAmount, trailing zeros trimmed.
// Example payload: dao.FormatTokenAmount(dao.TL(3), 18) == "3"
func FormatTokenAmount(v *uint256.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	digits := v.Dec()
	if decimals == 0 {
		return digits
	}
	d := int(decimals)
	if len(digits) <= d {
		digits = strings.Repeat("0", d-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-d], strings.TrimRight(digits[len(digits)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// AmountString formats base units, nil renders as 0.
func AmountString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}
