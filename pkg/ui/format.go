package ui

import (
	"fmt"
	"math"
	"strconv"
)

// FormatNumber abbreviates large counts: 1.2K, 3.4M
func FormatNumber(n float64) string {
	switch {
	case math.Abs(n) >= 1_000_000:
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case math.Abs(n) >= 1_000:
		return fmt.Sprintf("%.1fK", n/1_000)
	case n == math.Trunc(n):
		return strconv.FormatFloat(n, 'f', 0, 64)
	default:
		return strconv.FormatFloat(n, 'f', 1, 64)
	}
}
