package repositories

import (
	"context"
	"time"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// ReportRepository defines the interface for persisted volume reports
type ReportRepository interface {
	// SaveReport upserts one row per requested wallet for the report day
	SaveReport(ctx context.Context, report *entities.VolumeReport) error

	// GetByDate returns all stored rows for a day, ordered by wallet
	GetByDate(ctx context.Context, date time.Time) ([]entities.WalletReportRow, error)

	// GetWallet returns the stored row for one wallet on one day, or nil if none exists
	GetWallet(ctx context.Context, date time.Time, wallet string) (*entities.WalletReportRow, error)

	// ListDates returns the most recent report days, newest first
	ListDates(ctx context.Context, limit int) ([]time.Time, error)
}
