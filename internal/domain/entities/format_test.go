package entities

import (
	"testing"
	"time"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "$0.00"},
		{1, "$1.00"},
		{999.999, "$1,000.00"},
		{6001, "$6,001.00"},
		{1234567.891, "$1,234,567.89"},
		{100000, "$100,000.00"},
		{-2500.5, "-$2,500.50"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.in); got != tt.expected {
			t.Errorf("FormatUSD(%v): expected %s, got %s", tt.in, tt.expected, got)
		}
	}
}

func TestFormatPairVolume(t *testing.T) {
	got := FormatPairVolume(PairVolume{Pair: "WETH/USDC", VolumeUSD: 6000})
	if got != "WETH/USDC ($6,000.00)" {
		t.Errorf("unexpected pair string %s", got)
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !day.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected day %s", day)
	}

	for _, bad := range []string{"", "2024/05/01", "2024-13-01", "yesterday"} {
		if _, err := ParseDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
