package draw

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// numberSuffixes are the short-scale names used for large amounts of DATA.
var numberSuffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// FormatNumber renders an amount with two decimals, dividing by 1000 and
// adding a suffix until it drops below 1000 or the suffixes run out.
func FormatNumber(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return "---"
	}
	idx := 0
	for math.Abs(n) >= 1000 && idx < len(numberSuffixes)-1 {
		n /= 1000
		idx++
	}
	return strconv.FormatFloat(n, 'f', 2, 64) + numberSuffixes[idx]
}

// FormatCount renders an owned count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
