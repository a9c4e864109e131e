package subgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// flexString accepts either a JSON string or a bare JSON number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type rawToken struct {
	Symbol string `json:"symbol"`
}

type rawPool struct {
	FeeTier flexString `json:"feeTier"`
	Token0  *rawToken  `json:"token0"`
	Token1  *rawToken  `json:"token1"`
}

type rawSwap struct {
	ID        string      `json:"id"`
	Timestamp flexString  `json:"timestamp"`
	AmountUSD *flexString `json:"amountUSD"`
	Origin    string      `json:"origin"`
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Pool      *rawPool    `json:"pool"`
}

// parseSwap converts a raw swap into a SwapRecord, applying all defaulting rules
func parseSwap(raw rawSwap) (entities.SwapRecord, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return entities.SwapRecord{}, fmt.Errorf("swap is missing id")
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(string(raw.Timestamp)), 10, 64)
	if err != nil {
		return entities.SwapRecord{}, fmt.Errorf("swap %s has invalid timestamp %q: %w", raw.ID, raw.Timestamp, err)
	}

	var amountRaw *string
	if raw.AmountUSD != nil {
		s := string(*raw.AmountUSD)
		amountRaw = &s
	}
	amount, status := entities.ParseUSDAmount(amountRaw)

	record := entities.SwapRecord{
		ID:           raw.ID,
		Timestamp:    ts,
		AmountUSD:    amount,
		AmountStatus: status,
		Origin:       entities.NormalizeAddress(raw.Origin),
		Sender:       entities.NormalizeAddress(raw.Sender),
		Recipient:    entities.NormalizeAddress(raw.Recipient),
		Token0Symbol: entities.UnknownSymbol,
		Token1Symbol: entities.UnknownSymbol,
	}

	if raw.Pool != nil {
		record.FeeTier = string(raw.Pool.FeeTier)
		if raw.Pool.Token0 != nil && strings.TrimSpace(raw.Pool.Token0.Symbol) != "" {
			record.Token0Symbol = strings.TrimSpace(raw.Pool.Token0.Symbol)
		}
		if raw.Pool.Token1 != nil && strings.TrimSpace(raw.Pool.Token1.Symbol) != "" {
			record.Token1Symbol = strings.TrimSpace(raw.Pool.Token1.Symbol)
		}
	}

	return record, nil
}

// parseSwaps parses a page; any malformed record fails the whole page
func parseSwaps(raws []rawSwap) ([]entities.SwapRecord, error) {
	records := make([]entities.SwapRecord, 0, len(raws))
	for i, raw := range raws {
		record, err := parseSwap(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed record %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}
