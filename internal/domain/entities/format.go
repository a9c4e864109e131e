package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatUSD renders an amount as a dollar string with thousands separators, e.g. "$1,234.50"
func FormatUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	return sign + "$" + b.String() + frac
}

// FormatPairVolume renders a top pair entry, e.g. "WETH/USDC ($6,000.00)"
func FormatPairVolume(p PairVolume) string {
	return fmt.Sprintf("%s (%s)", p.Pair, FormatUSD(p.VolumeUSD))
}

// ParseDay parses a YYYY-MM-DD string as a UTC calendar day
func ParseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return day, nil
}
