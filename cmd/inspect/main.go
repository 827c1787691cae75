// cmd/inspect/main.go
//
// 保存先の進捗レコードを確認・修復する運用コマンドです。
//
//	go run ./cmd/inspect show --format json
//	go run ./cmd/inspect repair
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"go_nocontact_keep/internal/config"
	"go_nocontact_keep/internal/middleware"
	"go_nocontact_keep/internal/migration"
	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/progression"
	"go_nocontact_keep/internal/repository"
	"go_nocontact_keep/internal/service"
)

type rootOptions struct {
	ConfigDir string
	Format    string // "json" | "text"
	Verbose   bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the stored no-contact progress record",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be json or text", opts.Format)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", "configs", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log SQL and debug output")

	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newRepairCommand(opts))
	return cmd
}

// openDB は設定を読み込み DB に接続します
func openDB(opts *rootOptions, errOut io.Writer) (*config.Config, *gorm.DB, *slog.Logger, error) {
	cfg, err := config.LoadConfig(opts.ConfigDir)
	if err != nil {
		return nil, nil, nil, err
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	db, err := repository.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect %s database: %w", cfg.Database.Driver, err)
	}
	return cfg, db, logger, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// storedRecord は 1 レコード分の出力内容です
type storedRecord struct {
	Record       *model.ProgressRecord `json:"record"`
	Relapses     int                   `json:"relapses"`
	PowerActions int                   `json:"power_actions"`
	CheckIns     int                   `json:"check_ins"`
	Badges       int                   `json:"badges"`
	SkippedRows  int                   `json:"skipped_rows"`
	Metrics      model.Metrics         `json:"metrics"`
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print stored records, child row counts and derived metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, _, err := openDB(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := cmd.Context()
			records := repository.NewGormRecordRepository()
			entries := repository.NewGormEntryRepository()

			list, err := records.List(ctx, db)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			out := make([]storedRecord, 0, len(list))
			for _, rec := range list {
				e, err := entries.FindByRecord(ctx, db, rec.RecordID)
				if err != nil {
					return err
				}
				st, skipped := rec.ToState(*e)
				out = append(out, storedRecord{
					Record:       rec,
					Relapses:     len(e.Relapses),
					PowerActions: len(e.PowerActions),
					CheckIns:     len(e.CheckIns),
					Badges:       len(e.Badges),
					SkippedRows:  skipped,
					Metrics:      st.Metrics(now),
				})
			}
			return printShow(cmd.OutOrStdout(), opts.Format, out)
		},
	}
}

func printShow(w io.Writer, format string, out []storedRecord) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out) == 0 {
		fmt.Fprintln(w, "No progress record stored.")
		return nil
	}
	if len(out) > 1 {
		fmt.Fprintf(w, "WARNING: %d records stored (expected 1). Run `inspect repair`.\n", len(out))
	}
	for _, r := range out {
		rec := r.Record
		fmt.Fprintf(w, "\n--- Record %s (schema v%d) ---\n", rec.RecordID, rec.SchemaVersion)
		fmt.Fprintf(w, "Partner:        %s\n", rec.ExPartnerName)
		fmt.Fprintf(w, "Program start:  %s (%d days)\n", rec.ProgramStartDate.Format(time.DateOnly), rec.TotalProgramDays)
		fmt.Fprintf(w, "Level:          %s since %s\n", rec.CurrentLevelRaw, rec.LevelStartDate.Format(time.DateOnly))
		fmt.Fprintf(w, "No contact:     since %s (streak %d, max %d)\n", rec.NoContactStartDate.Format(time.DateOnly), r.Metrics.CurrentStreakDays, rec.MaxStreak)
		fmt.Fprintf(w, "Relapses:       %d (rows %d)\n", rec.RelapseCount, r.Relapses)
		fmt.Fprintf(w, "Bonus days:     %.2f (lifetime %.2f)\n", rec.BonusDays, rec.LifetimeBonusDays)
		fmt.Fprintf(w, "Rows:           power_actions=%d check_ins=%d badges=%d skipped=%d\n", r.PowerActions, r.CheckIns, r.Badges, r.SkippedRows)
		fmt.Fprintf(w, "Progress:       detox %.0f%%, level %.0f%%, %d days left in level\n",
			r.Metrics.DetoxProgress*100, r.Metrics.LevelProgress*100, r.Metrics.DaysLeftInLevel)
	}
	return nil
}

func newRepairCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Migrate and reconcile the stored record (same as server startup)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logger, err := openDB(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeDB(db)

			records := repository.NewGormRecordRepository()
			svc := service.NewReconciliationService(
				db,
				records,
				repository.NewGormEntryRepository(),
				migration.NewMigrator(records, logger),
				progression.NewEngine(),
				service.SystemClock(),
				cfg,
			)

			ctx := middleware.WithLogger(cmd.Context(), logger)
			// 修復コマンドはレコードを新規作成しない
			report, err := svc.Bootstrap(ctx, service.BootstrapOptions{
				ExPartnerName: cfg.App.ExPartnerName,
				SkipCreate:    true,
			})
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), opts.Format, report)
		},
	}
}

func printReport(w io.Writer, format string, report *service.IntegrityReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if report.RecordMissing {
		fmt.Fprintln(w, "No progress record stored, nothing to repair.")
		if report.OrphansRemoved > 0 {
			fmt.Fprintf(w, "Orphans removed:    %d\n", report.OrphansRemoved)
		}
		return nil
	}
	fmt.Fprintf(w, "Migrated records:   %d\n", report.Migrated)
	fmt.Fprintf(w, "Records removed:    %d\n", report.RecordsRemoved)
	fmt.Fprintf(w, "Orphans removed:    %d\n", report.OrphansRemoved)
	for kind, n := range report.DuplicatesRemoved {
		fmt.Fprintf(w, "Duplicates removed: %s=%d\n", kind, n)
	}
	for _, f := range report.ClampedFields {
		fmt.Fprintf(w, "Clamped field:      %s\n", f)
	}
	fmt.Fprintf(w, "Rows corrected:     %d\n", report.RowsCorrected)
	fmt.Fprintf(w, "Rows skipped:       %d\n", report.RowsSkipped)
	fmt.Fprintf(w, "Record created:     %t\n", report.RecordCreated)
	fmt.Fprintf(w, "Level advanced:     %t\n", report.LevelAdvanced)
	return nil
}
