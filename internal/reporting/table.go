package reporting

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// WriteTable renders the report as an aligned console table followed by a summary line
func WriteTable(w io.Writer, report *entities.VolumeReport) error {
	if _, err := fmt.Fprintf(w, "Date: %s (UTC)  Threshold: %s  Endpoint: %s\n",
		report.DateString(), entities.FormatUSD(report.ThresholdUSD), report.Endpoint); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WALLET\tSWAPS (EXEC)\tVOLUME (EXEC)\tSWAPS (INV)\tVOLUME (INV)\tPASS\tTOP PAIRS")

	passed := 0
	rows := report.Rows()
	for _, row := range rows {
		status := "NO"
		if row.Pass {
			status = "YES"
			passed++
		}
		pairs := strings.Join(row.TopPairs, ", ")
		if pairs == "" {
			pairs = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\t%s\n",
			row.Wallet,
			row.SwapsExecution,
			entities.FormatUSD(row.VolumeExecutionUSD),
			row.SwapsInvolved,
			entities.FormatUSD(row.VolumeInvolvedUSD),
			status,
			pairs,
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n%d/%d wallets passed, %d distinct swaps\n", passed, len(rows), report.TotalSwaps)
	return err
}
