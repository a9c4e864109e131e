package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/domain/repositories"
	"github.com/bimakw/dex-volume-checker/internal/infrastructure/cache"
)

// ErrEmptyAddressSet is returned when a check is requested without any wallet
var ErrEmptyAddressSet = errors.New("no wallet addresses supplied")

// SwapFetcher retrieves the origin, sender and recipient result sets for a window
type SwapFetcher interface {
	FetchSwaps(ctx context.Context, addresses []string, start, end int64) (*entities.SwapSets, error)
}

// CheckRequest describes one volume check
type CheckRequest struct {
	Addresses    []string
	Date         time.Time
	ThresholdUSD float64
}

// VolumeService fetches a day of swaps for a set of wallets and computes their volume metrics
type VolumeService struct {
	fetcher    SwapFetcher
	reportRepo repositories.ReportRepository
	cache      *cache.RedisCache
	logger     *zap.Logger
}

// NewVolumeService creates a new volume service. reportRepo and cache may be nil.
func NewVolumeService(
	fetcher SwapFetcher,
	reportRepo repositories.ReportRepository,
	cache *cache.RedisCache,
	logger *zap.Logger,
) *VolumeService {
	return &VolumeService{
		fetcher:    fetcher,
		reportRepo: reportRepo,
		cache:      cache,
		logger:     logger,
	}
}

// DayWindow returns the inclusive [00:00:00, 23:59:59] UTC bounds of the calendar day of date
func DayWindow(date time.Time) (start, end int64) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start = day.Unix()
	end = start + int64(24*time.Hour/time.Second) - 1
	return start, end
}

// Check runs a volume check and returns the finalized report
func (s *VolumeService) Check(ctx context.Context, req CheckRequest) (*entities.VolumeReport, error) {
	addresses := entities.NewAddressSet(req.Addresses...)
	if addresses.Len() == 0 {
		return nil, ErrEmptyAddressSet
	}

	start, end := DayWindow(req.Date)
	day := time.Unix(start, 0).UTC()

	s.logger.Info("Starting volume check",
		zap.String("date", day.Format(entities.DateLayout)),
		zap.Int("wallets", addresses.Len()),
		zap.Float64("threshold_usd", req.ThresholdUSD),
	)

	sets, err := s.fetcher.FetchSwaps(ctx, addresses.Slice(), start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch swaps: %w", err)
	}

	result := Aggregate(addresses, sets.ByOrigin, sets.BySender, sets.ByRecipient)

	if result.CoercedAmounts > 0 {
		s.logger.Warn("Swaps with missing or invalid USD amount counted as zero",
			zap.Int("count", result.CoercedAmounts),
			zap.String("endpoint", sets.Endpoint),
		)
	}

	report := &entities.VolumeReport{
		Date:           day,
		WindowStart:    start,
		WindowEnd:      end,
		ThresholdUSD:   req.ThresholdUSD,
		Endpoint:       sets.Endpoint,
		TotalSwaps:     result.TotalSwaps,
		CoercedAmounts: result.CoercedAmounts,
		Addresses:      addresses.Slice(),
		Wallets:        result.Wallets,
	}

	s.logger.Info("Volume check completed",
		zap.String("date", report.DateString()),
		zap.String("endpoint", report.Endpoint),
		zap.Int("raw_swaps", sets.RawCount()),
		zap.Int("distinct_swaps", report.TotalSwaps),
	)

	s.persist(ctx, report)

	return report, nil
}

// persist stores the report when a repository is configured; failures do not fail the check
func (s *VolumeService) persist(ctx context.Context, report *entities.VolumeReport) {
	if s.reportRepo == nil {
		return
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		s.logger.Warn("Failed to save report", zap.String("date", report.DateString()), zap.Error(err))
		return
	}

	if s.cache != nil {
		if err := s.cache.InvalidateReport(ctx, report.DateString()); err != nil {
			s.logger.Warn("Failed to invalidate cached report", zap.Error(err))
		}
	}
}
