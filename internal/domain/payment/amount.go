package payment

import (
	"fmt"
	"strconv"
)

// FormatAmount normalizes a catalog price to exactly two decimal places.
// The same formatted string is sent to the gateway and to settlement so
// the charged and recorded amounts can never disagree on rounding.
func FormatAmount(price string) (string, error) {
	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return "", fmt.Errorf("invalid price %q: %w", price, err)
	}
	if f < 0 {
		return "", fmt.Errorf("invalid price %q: negative amount", price)
	}
	return strconv.FormatFloat(f, 'f', 2, 64), nil
}
