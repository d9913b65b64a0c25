package utils

import (
	"strconv"
	"time"
)

// PeriodMonth formats a billing period boundary as the legacy "YYYY-MM" marker.
func PeriodMonth(t time.Time) string {
	return t.Format("2006-01")
}

// FormatJPY renders an integer yen amount with thousands separators, e.g.
// 33000 -> "¥33,000".
func FormatJPY(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-¥" + s
	}
	return "¥" + s
}
