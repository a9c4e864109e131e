package entities

import (
	"strings"
	"time"
)

// DateLayout is the calendar day format used in file names, URLs and storage
const DateLayout = "2006-01-02"

// TopPairsSeparator joins top pairs into a single CSV column
const TopPairsSeparator = "; "

// VolumeReport is the result of checking a set of wallets for one UTC day
type VolumeReport struct {
	Date           time.Time
	WindowStart    int64
	WindowEnd      int64
	ThresholdUSD   float64
	Endpoint       string
	TotalSwaps     int
	CoercedAmounts int
	Addresses      []string
	Wallets        map[string]*WalletMetrics
}

// WalletReportRow is one output row per requested wallet
type WalletReportRow struct {
	ReportDate         time.Time `db:"report_date" json:"-"`
	Wallet             string    `db:"wallet" json:"wallet"`
	SwapsExecution     int       `db:"swaps_execution" json:"swaps_execution"`
	VolumeExecutionUSD float64   `db:"volume_execution_usd" json:"volume_execution_usd"`
	SwapsInvolved      int       `db:"swaps_involved" json:"swaps_involved"`
	VolumeInvolvedUSD  float64   `db:"volume_involved_usd" json:"volume_involved_usd"`
	ThresholdUSD       float64   `db:"threshold_usd" json:"threshold_usd"`
	Pass               bool      `db:"pass" json:"pass"`
	TopPairs           []string  `db:"-" json:"top_pairs"`
	Endpoint           string    `db:"endpoint" json:"endpoint"`
	CreatedAt          time.Time `db:"created_at" json:"-"`
}

// JoinedTopPairs renders the top pairs as one CSV column
func (r WalletReportRow) JoinedTopPairs() string {
	return strings.Join(r.TopPairs, TopPairsSeparator)
}

// DateString returns the report day as YYYY-MM-DD
func (r *VolumeReport) DateString() string {
	return r.Date.UTC().Format(DateLayout)
}

// Passes reports whether a wallet's execution volume meets the threshold
func (r *VolumeReport) Passes(m *WalletMetrics) bool {
	return m != nil && m.VolumeExecutionUSD >= r.ThresholdUSD
}

// Rows returns one row per requested address in the order the caller supplied them
func (r *VolumeReport) Rows() []WalletReportRow {
	rows := make([]WalletReportRow, 0, len(r.Addresses))
	for _, addr := range r.Addresses {
		m, ok := r.Wallets[addr]
		if !ok {
			m = &WalletMetrics{}
		}
		rows = append(rows, WalletReportRow{
			ReportDate:         r.Date,
			Wallet:             addr,
			SwapsExecution:     m.SwapsExecution,
			VolumeExecutionUSD: m.VolumeExecutionUSD,
			SwapsInvolved:      m.SwapsInvolved,
			VolumeInvolvedUSD:  m.VolumeInvolvedUSD,
			ThresholdUSD:       r.ThresholdUSD,
			Pass:               r.Passes(m),
			TopPairs:           append([]string{}, m.TopPairs...),
			Endpoint:           r.Endpoint,
		})
	}
	return rows
}
