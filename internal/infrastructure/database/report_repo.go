package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/domain/repositories"
)

// Ensure ReportRepo implements ReportRepository
var _ repositories.ReportRepository = (*ReportRepo)(nil)

const reportRowColumns = `report_date, wallet, swaps_execution, volume_execution_usd, swaps_involved,
		volume_involved_usd, threshold_usd, pass, top_pairs, endpoint, created_at`

const upsertReportRowQuery = `
	INSERT INTO wallet_volume_reports (
		report_date, wallet, swaps_execution, volume_execution_usd,
		swaps_involved, volume_involved_usd, threshold_usd, pass, top_pairs, endpoint
	) VALUES (
		CAST(CAST(:report_date AS TIMESTAMPTZ) AT TIME ZONE 'UTC' AS DATE), :wallet, :swaps_execution, :volume_execution_usd,
		:swaps_involved, :volume_involved_usd, :threshold_usd, :pass, :top_pairs, :endpoint
	)
	ON CONFLICT (report_date, wallet) DO UPDATE SET
		swaps_execution = EXCLUDED.swaps_execution,
		volume_execution_usd = EXCLUDED.volume_execution_usd,
		swaps_involved = EXCLUDED.swaps_involved,
		volume_involved_usd = EXCLUDED.volume_involved_usd,
		threshold_usd = EXCLUDED.threshold_usd,
		pass = EXCLUDED.pass,
		top_pairs = EXCLUDED.top_pairs,
		endpoint = EXCLUDED.endpoint,
		created_at = NOW()
`

// reportRow maps a report row onto the table, storing top pairs as TEXT[]
type reportRow struct {
	entities.WalletReportRow
	TopPairs pq.StringArray `db:"top_pairs"`
}

func toReportRow(row entities.WalletReportRow) reportRow {
	pairs := row.TopPairs
	if pairs == nil {
		pairs = []string{}
	}
	return reportRow{WalletReportRow: row, TopPairs: pq.StringArray(pairs)}
}

func (r reportRow) entity() entities.WalletReportRow {
	row := r.WalletReportRow
	row.TopPairs = []string(r.TopPairs)
	if row.TopPairs == nil {
		row.TopPairs = []string{}
	}
	return row
}

// ReportRepo implements ReportRepository using PostgreSQL
type ReportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// SaveReport upserts every row of the report in a single transaction
func (r *ReportRepo) SaveReport(ctx context.Context, report *entities.VolumeReport) error {
	rows := report.Rows()
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertReportRowQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, toReportRow(row)); err != nil {
			return fmt.Errorf("failed to upsert report row for %s: %w", row.Wallet, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByDate returns all stored rows for a day, ordered by wallet
func (r *ReportRepo) GetByDate(ctx context.Context, date time.Time) ([]entities.WalletReportRow, error) {
	query := `SELECT ` + reportRowColumns + `
		FROM wallet_volume_reports
		WHERE report_date = $1
		ORDER BY wallet
	`

	var stored []reportRow
	if err := r.db.SelectContext(ctx, &stored, query, reportDay(date)); err != nil {
		return nil, fmt.Errorf("failed to get report rows: %w", err)
	}

	rows := make([]entities.WalletReportRow, len(stored))
	for i, row := range stored {
		rows[i] = row.entity()
	}

	return rows, nil
}

// GetWallet returns the stored row for one wallet on one day
func (r *ReportRepo) GetWallet(ctx context.Context, date time.Time, wallet string) (*entities.WalletReportRow, error) {
	query := `SELECT ` + reportRowColumns + `
		FROM wallet_volume_reports
		WHERE report_date = $1 AND wallet = $2
	`

	var stored reportRow
	if err := r.db.GetContext(ctx, &stored, query, reportDay(date), wallet); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet report: %w", err)
	}

	row := stored.entity()
	return &row, nil
}

// ListDates returns the most recent report days, newest first
func (r *ReportRepo) ListDates(ctx context.Context, limit int) ([]time.Time, error) {
	query := `
		SELECT DISTINCT report_date
		FROM wallet_volume_reports
		ORDER BY report_date DESC
		LIMIT $1
	`

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list report dates: %w", err)
	}

	return dates, nil
}

// reportDay truncates to the UTC calendar day stored in the DATE column
func reportDay(date time.Time) string {
	return date.UTC().Format(entities.DateLayout)
}
