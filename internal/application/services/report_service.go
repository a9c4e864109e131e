package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/domain/repositories"
	"github.com/bimakw/dex-volume-checker/internal/infrastructure/cache"
)

// ReportService serves stored volume reports
type ReportService struct {
	reportRepo repositories.ReportRepository
	cache      *cache.RedisCache
	logger     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(reportRepo repositories.ReportRepository, cache *cache.RedisCache, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		cache:      cache,
		logger:     logger,
	}
}

// WalletVolume is the API representation of one wallet's metrics
type WalletVolume struct {
	Wallet             string   `json:"wallet"`
	SwapsExecution     int      `json:"swaps_execution"`
	VolumeExecutionUSD float64  `json:"volume_execution_usd"`
	SwapsInvolved      int      `json:"swaps_involved"`
	VolumeInvolvedUSD  float64  `json:"volume_involved_usd"`
	Pass               bool     `json:"pass"`
	TopPairs           []string `json:"top_pairs"`
}

// VolumeReportDTO is the API representation of a day report
type VolumeReportDTO struct {
	Date           string         `json:"date"`
	WindowStart    int64          `json:"window_start,omitempty"`
	WindowEnd      int64          `json:"window_end,omitempty"`
	ThresholdUSD   float64        `json:"threshold_usd"`
	Endpoint       string         `json:"endpoint"`
	TotalSwaps     int            `json:"total_swaps,omitempty"`
	CoercedAmounts int            `json:"coerced_amounts,omitempty"`
	PassCount      int            `json:"pass_count"`
	Wallets        []WalletVolume `json:"wallets"`
}

// VolumeReportResponse is the API response for report queries
type VolumeReportResponse struct {
	Data VolumeReportDTO `json:"data"`
}

// WalletVolumeResponse is the API response for single wallet queries
type WalletVolumeResponse struct {
	Data WalletVolume `json:"data"`
}

// ReportDatesResponse is the API response listing stored report days
type ReportDatesResponse struct {
	Data []string `json:"data"`
}

func walletVolumeFromRow(row entities.WalletReportRow) WalletVolume {
	return WalletVolume{
		Wallet:             row.Wallet,
		SwapsExecution:     row.SwapsExecution,
		VolumeExecutionUSD: row.VolumeExecutionUSD,
		SwapsInvolved:      row.SwapsInvolved,
		VolumeInvolvedUSD:  row.VolumeInvolvedUSD,
		Pass:               row.Pass,
		TopPairs:           topPairsOrEmpty(row.TopPairs),
	}
}

func topPairsOrEmpty(pairs []string) []string {
	if pairs == nil {
		return []string{}
	}
	return pairs
}

func reportFromRows(date string, rows []entities.WalletReportRow) VolumeReportDTO {
	dto := VolumeReportDTO{
		Date:    date,
		Wallets: make([]WalletVolume, 0, len(rows)),
	}
	for i, row := range rows {
		if i == 0 {
			dto.ThresholdUSD = row.ThresholdUSD
			dto.Endpoint = row.Endpoint
		}
		if row.Pass {
			dto.PassCount++
		}
		dto.Wallets = append(dto.Wallets, walletVolumeFromRow(row))
	}
	return dto
}

// NewVolumeReportResponse converts a freshly computed report into its API form
func NewVolumeReportResponse(report *entities.VolumeReport) *VolumeReportResponse {
	dto := reportFromRows(report.DateString(), report.Rows())
	dto.ThresholdUSD = report.ThresholdUSD
	dto.Endpoint = report.Endpoint
	dto.WindowStart = report.WindowStart
	dto.WindowEnd = report.WindowEnd
	dto.TotalSwaps = report.TotalSwaps
	dto.CoercedAmounts = report.CoercedAmounts
	return &VolumeReportResponse{Data: dto}
}

// GetReport retrieves the stored report for a day; nil when none exists
func (s *ReportService) GetReport(ctx context.Context, date time.Time) (*VolumeReportResponse, error) {
	day := date.UTC().Format(entities.DateLayout)
	cacheKey := cache.ReportKey(day)

	var cached VolumeReportResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	rows, err := s.reportRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	response := &VolumeReportResponse{Data: reportFromRows(day, rows)}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// GetWalletReport retrieves one wallet's stored row for a day; nil when none exists
func (s *ReportService) GetWalletReport(ctx context.Context, date time.Time, wallet string) (*WalletVolumeResponse, error) {
	day := date.UTC().Format(entities.DateLayout)
	wallet = entities.NormalizeAddress(wallet)
	cacheKey := cache.WalletReportKey(day, wallet)

	var cached WalletVolumeResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	row, err := s.reportRepo.GetWallet(ctx, date, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet report: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	response := &WalletVolumeResponse{Data: walletVolumeFromRow(*row)}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// ListDates returns the most recent stored report days, newest first
func (s *ReportService) ListDates(ctx context.Context, limit int) (*ReportDatesResponse, error) {
	cacheKey := cache.ReportDatesKey(limit)

	var cached ReportDatesResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	dates, err := s.reportRepo.ListDates(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list report dates: %w", err)
	}

	response := &ReportDatesResponse{Data: make([]string, 0, len(dates))}
	for _, d := range dates {
		response.Data = append(response.Data, d.UTC().Format(entities.DateLayout))
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cacheKey, response, time.Minute); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}
