package utils

import (
	"testing"
	"time"
)

func TestPeriodMonth(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), "2025-07"},
		{time.Date(2025, 12, 1, 23, 59, 0, 0, time.UTC), "2025-12"},
		{time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "2026-01"},
	}
	for _, tt := range tests {
		if got := PeriodMonth(tt.in); got != tt.want {
			t.Fatalf("PeriodMonth(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatJPY(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "¥0"},
		{500, "¥500"},
		{33000, "¥33,000"},
		{1234567, "¥1,234,567"},
		{-9800, "-¥9,800"},
	}
	for _, tt := range tests {
		if got := FormatJPY(tt.in); got != tt.want {
			t.Fatalf("FormatJPY(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
