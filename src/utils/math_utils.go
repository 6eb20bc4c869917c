package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotANumber = errors.New("value is not a finite number")

// ParseFiniteNumber coerces a raw JSON value into a decimal.
// present is false for nil and blank strings; err is set for values that are
// present but not finite numbers (including NaN, Inf and booleans).
func ParseFiniteNumber(value any) (d decimal.Decimal, present bool, err error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return v, true, nil
	case json.Number:
		return parseNumberString(v.String())
	case string:
		return parseNumberString(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, true, ErrNotANumber
		}
		return decimal.NewFromFloat(v), true, nil
	case float32:
		return ParseFiniteNumber(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int32:
		return decimal.NewFromInt32(v), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	}
	return decimal.Zero, true, fmt.Errorf("%w: unsupported type %T", ErrNotANumber, value)
}

func parseNumberString(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, true, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return d, true, nil
}

// ToFiniteNumber is ParseFiniteNumber with a default for absent or invalid values.
func ToFiniteNumber(value any, fallback decimal.Decimal) decimal.Decimal {
	d, present, err := ParseFiniteNumber(value)
	if !present || err != nil {
		return fallback
	}
	return d
}

// ToCount coerces a raw value into a non-negative integer, truncating fractions.
func ToCount(value any) int {
	d := ToFiniteNumber(value, decimal.Zero)
	if d.IsNegative() {
		return 0
	}
	n := d.IntPart()
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// MinInt returns the smaller of two integers.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// MaxInt returns the larger of two integers.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
