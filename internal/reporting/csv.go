package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// CSVHeader lists the report columns in output order
var CSVHeader = []string{
	"wallet",
	"swaps_execution",
	"volume_execution_usd",
	"swaps_involved",
	"volume_involved_usd",
	"pass",
	"top_pairs",
}

// CSVFileName returns the default file name for a report day
func CSVFileName(date time.Time) string {
	return fmt.Sprintf("volume_%s.csv", date.UTC().Format(entities.DateLayout))
}

// WriteCSV writes one row per requested wallet in caller order
func WriteCSV(w io.Writer, report *entities.VolumeReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range report.Rows() {
		record := []string{
			row.Wallet,
			strconv.Itoa(row.SwapsExecution),
			strconv.FormatFloat(row.VolumeExecutionUSD, 'f', 2, 64),
			strconv.Itoa(row.SwapsInvolved),
			strconv.FormatFloat(row.VolumeInvolvedUSD, 'f', 2, 64),
			strconv.FormatBool(row.Pass),
			row.JoinedTopPairs(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", row.Wallet, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the report to path, creating parent directories as needed.
// The file is written to a temporary name first so a failed write leaves no partial report.
func WriteCSVFile(path string, report *entities.VolumeReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".volume-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, report); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
