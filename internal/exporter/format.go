package exporter

import (
	"strconv"
)

// formatPrice renders a price with the fewest digits that parse back to the
// same float64, so 16 stays "16" and 16.375 stays "16.375".
func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
