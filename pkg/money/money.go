package money

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds to two decimal places (paise precision for display)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to three decimal places (milligram precision for weights)
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// RoundRupees rounds to whole rupees
func RoundRupees(v float64) float64 {
	return math.Round(v)
}

// FormatINR formats a rupee amount with Indian digit grouping, e.g.
// 1234567 -> "₹12,34,567". Fractions are dropped; amounts are whole-rupee
// at display time.
func FormatINR(v float64) string {
	negative := v < 0
	whole := strconv.FormatInt(int64(math.Round(math.Abs(v))), 10)

	// Last three digits form one group, the rest pair up (lakh/crore style)
	var groups []string
	if len(whole) > 3 {
		head := whole[:len(whole)-3]
		groups = append(groups, whole[len(whole)-3:])
		for len(head) > 2 {
			groups = append(groups, head[len(head)-2:])
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append(groups, head)
		}
		// groups were collected right-to-left
		for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
			groups[i], groups[j] = groups[j], groups[i]
		}
	} else {
		groups = []string{whole}
	}

	out := "₹" + strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	return out
}
