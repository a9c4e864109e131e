package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/application/services"
	"github.com/bimakw/dex-volume-checker/internal/config"
	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/domain/repositories"
	"github.com/bimakw/dex-volume-checker/internal/infrastructure/database"
	"github.com/bimakw/dex-volume-checker/internal/infrastructure/subgraph"
	"github.com/bimakw/dex-volume-checker/internal/logging"
	"github.com/bimakw/dex-volume-checker/internal/reporting"
	"github.com/bimakw/dex-volume-checker/internal/wallets"
)

// options are the resolved command line settings
type options struct {
	Date        time.Time
	WalletsFile string
	Addresses   string
	Threshold   float64
	OutPath     string
	Persist     bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseFlags(os.Args[1:], cfg.Checker, time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	// logs go to stderr so the table on stdout stays clean
	logger, err := logging.New(cfg.Log, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout, logger); err != nil {
		logger.Error("Volume check failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, defaults config.CheckerConfig, now time.Time) (*options, error) {
	fs := flag.NewFlagSet("checker", flag.ContinueOnError)

	yesterday := now.UTC().AddDate(0, 0, -1).Format(entities.DateLayout)
	date := fs.String("date", yesterday, "UTC day to check (YYYY-MM-DD)")
	walletsFile := fs.String("wallets", defaults.WalletsFile, "file with one wallet address per line")
	addresses := fs.String("addresses", "", "comma-separated wallet addresses, overrides -wallets")
	threshold := fs.Float64("threshold", defaults.ThresholdUSD, "execution volume threshold in USD")
	out := fs.String("out", "", "CSV output path (default <output dir>/volume_<date>.csv)")
	persist := fs.Bool("persist", defaults.Persist, "store the report in PostgreSQL")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	day, err := entities.ParseDay(*date)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(*threshold) || math.IsInf(*threshold, 0) || *threshold < 0 {
		return nil, fmt.Errorf("threshold must be a finite non-negative number, got %v", *threshold)
	}

	opts := &options{
		Date:        day,
		WalletsFile: *walletsFile,
		Addresses:   *addresses,
		Threshold:   *threshold,
		OutPath:     *out,
		Persist:     *persist,
	}
	if opts.OutPath == "" {
		opts.OutPath = filepath.Join(defaults.OutputDir, reporting.CSVFileName(day))
	}
	return opts, nil
}

func loadAddresses(opts *options) ([]string, error) {
	if opts.Addresses != "" {
		return wallets.ParseList(opts.Addresses)
	}
	return wallets.LoadFile(opts.WalletsFile)
}

func run(ctx context.Context, cfg *config.Config, opts *options, stdout io.Writer, logger *zap.Logger) error {
	addresses, err := loadAddresses(opts)
	if err != nil {
		return err
	}

	var reportRepo repositories.ReportRepository
	if opts.Persist {
		db, err := database.NewPostgresDB(cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
		}
		reportRepo = database.NewReportRepo(db.DB())
	}

	fetcher := subgraph.NewFetcher(cfg.Subgraph, logger)
	service := services.NewVolumeService(fetcher, reportRepo, nil, logger)

	report, err := service.Check(ctx, services.CheckRequest{
		Addresses:    addresses,
		Date:         opts.Date,
		ThresholdUSD: opts.Threshold,
	})
	if err != nil {
		return err
	}

	if err := reporting.WriteTable(stdout, report); err != nil {
		return err
	}

	if err := reporting.WriteCSVFile(opts.OutPath, report); err != nil {
		return err
	}
	logger.Info("Report written", zap.String("path", opts.OutPath))

	return nil
}
