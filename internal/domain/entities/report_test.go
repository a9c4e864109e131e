package entities

import (
	"testing"
	"time"
)

func TestVolumeReport_RowsFollowCallerOrder(t *testing.T) {
	report := &VolumeReport{
		Date:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		ThresholdUSD: 5000,
		Endpoint:     "https://primary.example",
		Addresses:    []string{"0xccc", "0xaaa", "0xbbb"},
		Wallets: map[string]*WalletMetrics{
			"0xaaa": {SwapsExecution: 2, VolumeExecutionUSD: 6001, SwapsInvolved: 3, VolumeInvolvedUSD: 10001, TopPairs: []string{"WETH/USDC ($6,001.00)"}},
			"0xbbb": {SwapsExecution: 1, VolumeExecutionUSD: 4999.99, SwapsInvolved: 1, VolumeInvolvedUSD: 4999.99, TopPairs: []string{}},
			"0xccc": {TopPairs: []string{}},
		},
	}

	rows := report.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Wallet != "0xccc" || rows[1].Wallet != "0xaaa" || rows[2].Wallet != "0xbbb" {
		t.Errorf("rows not in caller order: %s, %s, %s", rows[0].Wallet, rows[1].Wallet, rows[2].Wallet)
	}
	if rows[0].Pass {
		t.Error("expected zero-volume wallet to fail")
	}
	if !rows[1].Pass {
		t.Error("expected 6001 >= 5000 to pass")
	}
	if rows[2].Pass {
		t.Error("expected 4999.99 < 5000 to fail")
	}
	if len(rows[1].TopPairs) != 1 || rows[1].TopPairs[0] != "WETH/USDC ($6,001.00)" {
		t.Errorf("unexpected top pairs %q", rows[1].TopPairs)
	}
	if rows[1].Endpoint != "https://primary.example" {
		t.Errorf("unexpected endpoint %q", rows[1].Endpoint)
	}
}

func TestVolumeReport_PassesAtThreshold(t *testing.T) {
	report := &VolumeReport{ThresholdUSD: 100}
	if !report.Passes(&WalletMetrics{VolumeExecutionUSD: 100}) {
		t.Error("volume equal to threshold should pass")
	}
	if report.Passes(&WalletMetrics{VolumeExecutionUSD: 0, VolumeInvolvedUSD: 1000}) {
		t.Error("involved volume must not count towards the threshold")
	}
}

func TestVolumeReport_MissingWalletYieldsZeroRow(t *testing.T) {
	report := &VolumeReport{
		Addresses: []string{"0xaaa"},
		Wallets:   map[string]*WalletMetrics{},
	}

	rows := report.Rows()
	if len(rows) != 1 || rows[0].SwapsExecution != 0 || rows[0].TopPairs == nil || len(rows[0].TopPairs) != 0 {
		t.Errorf("expected zero row, got %+v", rows)
	}
}

func TestWalletReportRow_JoinedTopPairs(t *testing.T) {
	row := WalletReportRow{TopPairs: []string{"A/B ($1.00)", "C/D ($0.50)"}}
	if got := row.JoinedTopPairs(); got != "A/B ($1.00); C/D ($0.50)" {
		t.Errorf("unexpected joined pairs %q", got)
	}

	if got := (WalletReportRow{}).JoinedTopPairs(); got != "" {
		t.Errorf("expected empty column, got %q", got)
	}
}

func TestVolumeReport_RowsCopyTopPairs(t *testing.T) {
	m := &WalletMetrics{TopPairs: []string{"A;B/C ($1.00)"}}
	report := &VolumeReport{Addresses: []string{"0xaaa"}, Wallets: map[string]*WalletMetrics{"0xaaa": m}}

	rows := report.Rows()
	rows[0].TopPairs[0] = "changed"
	if m.TopPairs[0] != "A;B/C ($1.00)" {
		t.Error("rows must not alias wallet metrics")
	}
}

func TestVolumeReport_DateString(t *testing.T) {
	report := &VolumeReport{Date: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}
	if report.DateString() != "2024-12-31" {
		t.Errorf("unexpected date string %s", report.DateString())
	}
}
