package entities

import (
	"math"
	"strconv"
	"strings"
)

// UnknownSymbol replaces a token symbol the indexing service did not return
const UnknownSymbol = "???"

// AmountStatus classifies how a USD amount was obtained from the source
type AmountStatus int

const (
	AmountOK AmountStatus = iota
	AmountMissing
	AmountInvalid
)

func (s AmountStatus) String() string {
	switch s {
	case AmountOK:
		return "ok"
	case AmountMissing:
		return "missing"
	case AmountInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ParseUSDAmount applies the USD amount defaulting policy.
// Missing, non-numeric, non-finite and negative values yield 0 with a non-OK status.
func ParseUSDAmount(raw *string) (float64, AmountStatus) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return 0, AmountMissing
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, AmountInvalid
	}

	return v, AmountOK
}

// SwapRecord is a single DEX swap event as returned by the indexing service.
// Addresses are lowercased and symbols defaulted at ingestion.
type SwapRecord struct {
	ID           string
	Timestamp    int64
	AmountUSD    float64
	AmountStatus AmountStatus
	Origin       string
	Sender       string
	Recipient    string
	FeeTier      string
	Token0Symbol string
	Token1Symbol string
}

// SafeAmountUSD returns the USD amount, or 0 when the source value was unusable
func (s SwapRecord) SafeAmountUSD() float64 {
	if s.AmountStatus != AmountOK {
		return 0
	}
	return s.AmountUSD
}

// PairKey returns the "TOKEN0/TOKEN1" label of the swap's pool
func (s SwapRecord) PairKey() string {
	return symbolOrUnknown(s.Token0Symbol) + "/" + symbolOrUnknown(s.Token1Symbol)
}

// Participants returns the distinct addresses among origin, sender and recipient
func (s SwapRecord) Participants() []string {
	out := make([]string, 0, 3)
	for _, addr := range []string{s.Origin, s.Sender, s.Recipient} {
		addr = NormalizeAddress(addr)
		if addr == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == addr {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, addr)
		}
	}
	return out
}

// SwapSets holds the three raw result sets produced by one endpoint
type SwapSets struct {
	Endpoint    string
	ByOrigin    []SwapRecord
	BySender    []SwapRecord
	ByRecipient []SwapRecord
}

// RawCount returns the number of records across all three sets, duplicates included
func (s *SwapSets) RawCount() int {
	return len(s.ByOrigin) + len(s.BySender) + len(s.ByRecipient)
}

func symbolOrUnknown(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return UnknownSymbol
	}
	return symbol
}
