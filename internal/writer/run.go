package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultOutputDir is where batch runs are created
const DefaultOutputDir = "output"

// RunManager owns one batch run directory
type RunManager struct {
	runDir string
	logger *slog.Logger
}

// NewRunManager creates outputDir/run_<timestamp>
func NewRunManager(outputDir string, logger *slog.Logger) (*RunManager, error) {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(outputDir, "run_"+timestamp)

	// Two runs started within the same second get distinct directories
	for i := 2; ; i++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create run directory: %w", err)
		}
		runDir = filepath.Join(outputDir, fmt.Sprintf("run_%s_%d", timestamp, i))
	}

	logger.Info("Created run directory", "path", runDir)

	return &RunManager{
		runDir: runDir,
		logger: logger,
	}, nil
}

// OpenRunManager reopens an existing run directory for resuming
func OpenRunManager(outputDir, name string, logger *slog.Logger) (*RunManager, error) {
	runDir, err := RunDir(outputDir, name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(runDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run directory not found: %s", name)
		}
		return nil, fmt.Errorf("failed to stat run directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("run path is not a directory: %s", name)
	}

	logger.Info("Reopened run directory", "path", runDir)

	return &RunManager{
		runDir: runDir,
		logger: logger,
	}, nil
}

// Dir returns the run directory path
func (rm *RunManager) Dir() string {
	return rm.runDir
}

// FlowsPath returns the full path to the JSONL output
func (rm *RunManager) FlowsPath() string {
	return filepath.Join(rm.runDir, "flows.jsonl")
}

// LogPath returns the full path to the run log
func (rm *RunManager) LogPath() string {
	return filepath.Join(rm.runDir, "run.log")
}

// ConfigBackupPath returns the full path to the config backup
func (rm *RunManager) ConfigBackupPath() string {
	return filepath.Join(rm.runDir, "config.toml.bak")
}

// SetLogger replaces the logger, typically once the run log is open
func (rm *RunManager) SetLogger(logger *slog.Logger) {
	rm.logger = logger
}

// BackupConfig copies the config file into the run directory
func (rm *RunManager) BackupConfig(configPath string) error {
	source, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	backupPath := rm.ConfigBackupPath()
	if err := os.WriteFile(backupPath, source, 0644); err != nil {
		return fmt.Errorf("failed to write config backup: %w", err)
	}

	rm.logger.Info("Backed up config file", "path", backupPath)
	return nil
}
