package testutil

import (
	"time"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// Common test addresses
const (
	AliceAddress   = "0x1111111111111111111111111111111111111111"
	BobAddress     = "0x2222222222222222222222222222222222222222"
	CharlieAddress = "0x3333333333333333333333333333333333333333"
	RouterAddress  = "0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45"
	PoolAddress    = "0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640"
)

// TestDay is the calendar day used across tests
var TestDay = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// CreateTestSwap creates a swap executed by Alice through the router
func CreateTestSwap(opts ...SwapOption) entities.SwapRecord {
	s := entities.SwapRecord{
		ID:           "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa#0",
		Timestamp:    TestDay.Unix() + 3600,
		AmountUSD:    1000,
		AmountStatus: entities.AmountOK,
		Origin:       AliceAddress,
		Sender:       RouterAddress,
		Recipient:    RouterAddress,
		FeeTier:      "500",
		Token0Symbol: "WETH",
		Token1Symbol: "USDC",
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

type SwapOption func(*entities.SwapRecord)

func WithID(id string) SwapOption {
	return func(s *entities.SwapRecord) {
		s.ID = id
	}
}

func WithAmountUSD(amount float64) SwapOption {
	return func(s *entities.SwapRecord) {
		s.AmountUSD = amount
		s.AmountStatus = entities.AmountOK
	}
}

func WithAmountStatus(status entities.AmountStatus) SwapOption {
	return func(s *entities.SwapRecord) {
		s.AmountStatus = status
	}
}

func WithOrigin(addr string) SwapOption {
	return func(s *entities.SwapRecord) {
		s.Origin = addr
	}
}

func WithSender(addr string) SwapOption {
	return func(s *entities.SwapRecord) {
		s.Sender = addr
	}
}

func WithRecipient(addr string) SwapOption {
	return func(s *entities.SwapRecord) {
		s.Recipient = addr
	}
}

func WithPair(token0, token1 string) SwapOption {
	return func(s *entities.SwapRecord) {
		s.Token0Symbol = token0
		s.Token1Symbol = token1
	}
}

func WithTimestamp(ts int64) SwapOption {
	return func(s *entities.SwapRecord) {
		s.Timestamp = ts
	}
}

// CreateTestRow creates a stored report row for Alice on TestDay
func CreateTestRow(opts ...RowOption) entities.WalletReportRow {
	r := entities.WalletReportRow{
		ReportDate:         TestDay,
		Wallet:             AliceAddress,
		SwapsExecution:     2,
		VolumeExecutionUSD: 6001,
		SwapsInvolved:      3,
		VolumeInvolvedUSD:  10001,
		ThresholdUSD:       5000,
		Pass:               true,
		TopPairs:           []string{"WETH/USDC ($6,001.00)"},
		Endpoint:           "https://primary.example/graphql",
		CreatedAt:          time.Now(),
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

type RowOption func(*entities.WalletReportRow)

func RowWithWallet(addr string) RowOption {
	return func(r *entities.WalletReportRow) {
		r.Wallet = addr
	}
}

func RowWithDate(d time.Time) RowOption {
	return func(r *entities.WalletReportRow) {
		r.ReportDate = d
	}
}

func RowWithVolume(execution, involved float64) RowOption {
	return func(r *entities.WalletReportRow) {
		r.VolumeExecutionUSD = execution
		r.VolumeInvolvedUSD = involved
		r.Pass = execution >= r.ThresholdUSD
	}
}
