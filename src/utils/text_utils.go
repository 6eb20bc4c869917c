package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ToText renders a raw JSON scalar as a string; nil becomes "".
// Integral floats print without an exponent so numeric ids stay readable.
func ToText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case decimal.Decimal:
		return v.String()
	}
	return fmt.Sprint(value)
}

// FirstNonBlank returns the first value whose text is not blank, trimmed.
func FirstNonBlank(values ...any) string {
	for _, v := range values {
		if s := strings.TrimSpace(ToText(v)); s != "" {
			return s
		}
	}
	return ""
}

// FormatCOP renders an amount the way the console shows Colombian pesos:
// "$" prefix, "." thousands separator, no decimals.
func FormatCOP(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	f, _ := amount.Round(0).Float64()
	return sign + "$" + humanize.FormatFloat("#.###,", f)
}
