package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lamim/reqflow/internal/batch"
	"github.com/lamim/reqflow/internal/writer"
)

func newConvertCmd() *cobra.Command {
	var (
		concurrency int
		outputDir   string
		docType     string
		noProgress  bool
		resume      string
	)

	cmd := &cobra.Command{
		Use:   "convert <files...>",
		Short: "Convert many documents into a run directory",
		Long: `Convert requirements documents concurrently.

Each run writes output/run_<timestamp>/ containing:
  flows.jsonl      one record per document
  run.log          JSON log of the run
  config.toml.bak  copy of the configuration (when --config is set)

--resume <run-name> reopens an earlier run and converts only the documents
without a successful record, appending to its flows.jsonl.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				runMgr *writer.RunManager
				err    error
			)
			if resume != "" {
				runMgr, err = writer.OpenRunManager(outputDir, resume, slog.Default())
			} else {
				runMgr, err = writer.NewRunManager(outputDir, slog.Default())
			}
			if err != nil {
				return fmt.Errorf("failed to prepare run directory: %w", err)
			}

			a, err := loadApp(cmd, runMgr.LogPath())
			if err != nil {
				return err
			}
			defer a.Close()
			runMgr.SetLogger(a.logger)

			a.logger.Info("reqflow batch conversion starting",
				"version", Version,
				"config", a.configPath,
				"run_dir", runMgr.Dir(),
				"documents", len(args))

			jobs := batch.JobsFromPaths(args, docType)
			if resume != "" {
				done, err := writer.ReadRecords(runMgr.FlowsPath())
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				jobs = batch.Pending(jobs, done)
				a.logger.Info("Resuming run",
					"recorded", len(done),
					"pending", len(jobs))
				if len(jobs) == 0 {
					a.logger.Info("Nothing left to convert", "run_dir", runMgr.Dir())
					return nil
				}
			}

			if a.configPath != "" && resume == "" {
				if err := runMgr.BackupConfig(a.configPath); err != nil {
					return fmt.Errorf("failed to backup config: %w", err)
				}
			}
			if !a.flows.Configured() {
				a.logger.Warn("No API key configured, every document will get the fallback flow")
			}

			openRecords := writer.NewRecordWriter
			if resume != "" {
				openRecords = writer.OpenRecordWriter
			}
			records, err := openRecords(runMgr.FlowsPath(), a.logger)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				if err := records.Close(); err != nil {
					a.logger.Error("failed to close output file", "error", err)
				}
			}()

			runner := batch.NewRunner(a.flows, records, a.metrics, a.logger, batch.Options{
				Concurrency:      concurrency,
				MaxDocumentBytes: a.cfg.Server.MaxDocumentBytes,
				ShowProgress:     !noProgress,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			if err := runner.Run(ctx, jobs); err != nil {
				if errors.Is(err, context.Canceled) {
					a.logger.Warn("Conversion interrupted, partial results kept",
						"run_dir", runMgr.Dir(),
						"records", records.Count(),
						"resume_command", fmt.Sprintf("reqflow convert --resume %s <files...>", filepath.Base(runMgr.Dir())))
				}
				return fmt.Errorf("conversion failed: %w", err)
			}

			a.logger.Info("Conversion complete",
				"records", records.Count(),
				"duration", time.Since(start),
				"run_dir", runMgr.Dir(),
				"report_command", fmt.Sprintf("reqflow report %s", filepath.Base(runMgr.Dir())))
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", batch.DefaultConcurrency, "Number of concurrent conversions")
	cmd.Flags().StringVar(&outputDir, "output-dir", writer.DefaultOutputDir, "Directory for run folders")
	cmd.Flags().StringVar(&docType, "type", "", "Document type used in every prompt")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().StringVar(&resume, "resume", "", "Resume an earlier run by name (run_YYYY-MM-DDTHH-MM-SS)")

	return cmd
}

func newRunsCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List batch conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(outputDir)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No output directory found. Run a conversion first.")
					return nil
				}
				return fmt.Errorf("failed to read output directory: %w", err)
			}

			out := cmd.OutOrStdout()
			found := 0
			for _, entry := range entries {
				if !entry.IsDir() || writer.ValidateRunName(entry.Name()) != nil {
					continue
				}
				if found == 0 {
					fmt.Fprintf(out, "%-30s %-8s %-8s %-10s %s\n", "RUN", "TOTAL", "AI", "FALLBACK", "ERRORS")
					fmt.Fprintln(out, strings.Repeat("-", 70))
				}
				found++

				records, err := writer.ReadRecords(filepath.Join(outputDir, entry.Name(), "flows.jsonl"))
				if err != nil {
					fmt.Fprintf(out, "%-30s %s\n", entry.Name(), "unreadable")
					continue
				}
				s := writer.Summarize(writer.Latest(records))
				fmt.Fprintf(out, "%-30s %-8d %-8d %-10d %d\n", entry.Name(), s.Total, s.AIUsed, s.Fallbacks, s.Errors)
			}

			if found == 0 {
				fmt.Fprintln(out, "No run directories found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", writer.DefaultOutputDir, "Directory holding run folders")
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		outputDir string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "report <run-name>",
		Short: "Summarize a batch conversion run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := writer.RunDir(outputDir, args[0])
			if err != nil {
				return fmt.Errorf("invalid run name: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("run directory not found: %s", args[0])
			}

			records, err := writer.ReadRecords(filepath.Join(dir, "flows.jsonl"))
			if err != nil {
				return err
			}
			records = writer.Latest(records)
			s := writer.Summarize(records)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			fmt.Fprintf(out, "Run: %s\n", args[0])
			fmt.Fprintln(out, strings.Repeat("=", 60))
			fmt.Fprintf(out, "Documents:        %d\n", s.Total)
			fmt.Fprintf(out, "AI used:          %d\n", s.AIUsed)
			fmt.Fprintf(out, "Fallback flows:   %d\n", s.Fallbacks)
			fmt.Fprintf(out, "Errors:           %d\n", s.Errors)
			fmt.Fprintf(out, "Questions:        %d\n", s.Questions)

			if s.Errors > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Failed documents:")
				for _, r := range records {
					if r.Error != "" {
						fmt.Fprintf(out, "  %-30s %s\n", r.Source, r.Error)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", writer.DefaultOutputDir, "Directory holding run folders")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
