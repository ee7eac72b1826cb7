// Package batch converts many documents concurrently into one JSONL run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/flow"
	"github.com/lamim/reqflow/internal/metrics"
	"github.com/lamim/reqflow/pkg/models"
)

// DefaultConcurrency is the worker count when none is given
const DefaultConcurrency = 4

// Converter turns one document into a flow
type Converter interface {
	CreateFlow(ctx context.Context, document, documentType string) (*flow.Result[models.ConversationFlow], error)
}

// RecordSink receives finished records; only the collector goroutine calls it
type RecordSink interface {
	WriteRecord(record models.ConversionRecord) error
}

// Job is one document to convert
type Job struct {
	ID           int
	Source       string // file path
	DocumentType string
}

// Options tune a Runner
type Options struct {
	Concurrency      int
	MaxDocumentBytes int
	ShowProgress     bool
}

// Runner fans jobs out to workers and collects their records
type Runner struct {
	converter Converter
	sink      RecordSink
	metrics   *metrics.Collector
	logger    *slog.Logger
	opts      Options
}

type jobResult struct {
	job      Job
	record   models.ConversionRecord
	duration time.Duration
}

// NewRunner creates a batch runner
func NewRunner(converter Converter, sink RecordSink, collector *metrics.Collector, logger *slog.Logger, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxDocumentBytes < 1 {
		opts.MaxDocumentBytes = config.DefaultMaxDocumentBytes
	}
	return &Runner{
		converter: converter,
		sink:      sink,
		metrics:   collector,
		logger:    logger.With("component", "batch"),
		opts:      opts,
	}
}

// JobsFromPaths builds one job per path, all with the same document type
func JobsFromPaths(paths []string, documentType string) []Job {
	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = Job{ID: i + 1, Source: p, DocumentType: documentType}
	}
	return jobs
}

// Pending drops jobs whose source already has a successful record.
// Failed records are retried.
func Pending(jobs []Job, done []models.ConversionRecord) []Job {
	finished := make(map[string]bool, len(done))
	for _, r := range done {
		finished[r.Source] = r.Error == ""
	}

	var pending []Job
	for _, job := range jobs {
		if !finished[filepath.Base(job.Source)] {
			pending = append(pending, job)
		}
	}
	return pending
}

// Run converts every job. Per-document failures become records with Error set;
// only sink failures and cancellation stop the run.
func (r *Runner) Run(ctx context.Context, jobs []Job) error {
	runID := uuid.New().String()
	logger := r.logger.With("run_id", runID)

	workers := r.opts.Concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}
	logger.Info("Starting batch conversion", "documents", len(jobs), "workers", workers)

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobsChan := make(chan Job)
	resultsChan := make(chan jobResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(ctx, logger, i+1, jobsChan, resultsChan, &wg)
	}
	r.metrics.SetActiveWorkers(workers)

	go func() {
		defer close(jobsChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobsChan <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		r.metrics.SetActiveWorkers(0)
		close(resultsChan)
	}()

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(len(jobs)), "Converting documents")
	} else {
		bar = progressbar.DefaultSilent(int64(len(jobs)), "Converting documents")
	}

	var sinkErr error
	for res := range resultsChan {
		_ = bar.Add(1)
		if sinkErr != nil {
			continue
		}

		r.metrics.IncrementConverted(res.record.Error == "")
		if res.record.Error != "" {
			logger.Error("Document conversion failed", "source", res.job.Source, "error", res.record.Error)
		} else {
			logger.Info("Document converted",
				"source", res.job.Source,
				"ai_used", res.record.AIUsed,
				"fallback_used", res.record.FallbackUsed,
				"duration_ms", res.duration.Milliseconds())
		}

		if err := r.sink.WriteRecord(res.record); err != nil {
			sinkErr = fmt.Errorf("failed to write record for %s: %w", res.job.Source, err)
			cancel()
		}
	}
	_ = bar.Finish()

	if sinkErr != nil {
		return sinkErr
	}
	if err := parent.Err(); err != nil {
		return fmt.Errorf("batch conversion interrupted: %w", err)
	}

	logger.Info("Batch conversion finished", "documents", len(jobs))
	return nil
}

func (r *Runner) worker(
	ctx context.Context,
	logger *slog.Logger,
	workerID int,
	jobs <-chan Job,
	results chan<- jobResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	workerLogger := logger.With("worker_id", workerID)
	workerLogger.Debug("Worker started")

	for job := range jobs {
		select {
		case <-ctx.Done():
			workerLogger.Info("Worker cancelled")
			return
		default:
		}

		start := time.Now()
		record := r.convert(ctx, job)
		results <- jobResult{job: job, record: record, duration: time.Since(start)}
	}

	workerLogger.Debug("Worker finished")
}

func (r *Runner) convert(ctx context.Context, job Job) models.ConversionRecord {
	record := models.ConversionRecord{
		Source:       filepath.Base(job.Source),
		DocumentType: job.DocumentType,
	}

	data, err := os.ReadFile(job.Source)
	if err != nil {
		record.Error = fmt.Sprintf("failed to read document: %v", err)
		return record
	}
	document := string(data)
	if err := config.ValidateDocument(document, r.opts.MaxDocumentBytes); err != nil {
		record.Error = err.Error()
		return record
	}

	res, err := r.converter.CreateFlow(ctx, document, job.DocumentType)
	if err != nil {
		record.Error = err.Error()
		return record
	}

	f := res.Value
	record.Flow = &f
	record.AIUsed = res.AIUsed
	record.FallbackUsed = res.FallbackUsed
	if res.NotConfigured() {
		record.Error = flow.NotConfiguredMessage
	}
	return record
}
