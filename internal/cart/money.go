package cart

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxPriceIntDigits  = 9
	maxPriceFracDigits = 4
)

// Plain digits with an optional dot fraction. No sign, no exponent.
var pricePattern = regexp.MustCompile(fmt.Sprintf(`^\d{1,%d}(\.\d{1,%d})?$`, maxPriceIntDigits, maxPriceFracDigits))

// ParsePrice reads a base-10 price such as "9.5" or "12.90".
// Empty, non-numeric, negative, exponent and oversized values are rejected
// with ErrInvalidPrice.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, fmt.Errorf("%w: negative %q", ErrInvalidPrice, raw)
	}
	if !pricePattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return d, nil
}

// FormatAmount renders an amount with two fractional digits and a comma
// as decimal separator, e.g. 19 -> "19,00".
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
