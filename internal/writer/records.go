package writer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/lamim/reqflow/pkg/models"
)

// RecordWriter appends conversion records to a JSONL file; safe for concurrent use
type RecordWriter struct {
	file   *os.File
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewRecordWriter creates (or truncates) the JSONL file at path
func NewRecordWriter(path string, logger *slog.Logger) (*RecordWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Info("Created output file", "path", path)

	return &RecordWriter{
		file:   file,
		logger: logger,
	}, nil
}

// OpenRecordWriter appends to the JSONL file at path, creating it if needed
func OpenRecordWriter(path string, logger *slog.Logger) (*RecordWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	logger.Info("Opened output file for append", "path", path)

	return &RecordWriter{
		file:   file,
		logger: logger,
	}, nil
}

// WriteRecord writes a single record as one line
func (rw *RecordWriter) WriteRecord(record models.ConversionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()

	if _, err := rw.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	rw.count++

	return nil
}

// Count returns the number of records written
func (rw *RecordWriter) Count() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.count
}

// Close syncs and closes the file
func (rw *RecordWriter) Close() error {
	if err := rw.file.Sync(); err != nil {
		rw.logger.Warn("Failed to sync output file", "error", err)
	}

	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	rw.logger.Info("Closed output file", "records", rw.Count())
	return nil
}

// Summary tallies a finished run
type Summary struct {
	Total     int `json:"total"`
	AIUsed    int `json:"ai_used"`
	Fallbacks int `json:"fallback_used"`
	Errors    int `json:"errors"`
	Questions int `json:"questions"`
}

// ReadRecords loads every record of a JSONL output file
func ReadRecords(path string) ([]models.ConversionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []models.ConversionRecord
	dec := json.NewDecoder(file)
	for dec.More() {
		var record models.ConversionRecord
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Latest keeps the last record per source, in first-seen order.
// A resumed run appends retries after the original failures.
func Latest(records []models.ConversionRecord) []models.ConversionRecord {
	index := make(map[string]int, len(records))
	var out []models.ConversionRecord
	for _, r := range records {
		if i, ok := index[r.Source]; ok {
			out[i] = r
			continue
		}
		index[r.Source] = len(out)
		out = append(out, r)
	}
	return out
}

// Summarize tallies records
func Summarize(records []models.ConversionRecord) Summary {
	var s Summary
	for _, r := range records {
		s.Total++
		if r.AIUsed {
			s.AIUsed++
		}
		if r.FallbackUsed {
			s.Fallbacks++
		}
		if r.Error != "" {
			s.Errors++
		}
		if r.Flow != nil {
			s.Questions += r.Flow.QuestionCount()
		}
	}
	return s
}
