package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lamim/reqflow/internal/api"
	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/flow"
	"github.com/lamim/reqflow/internal/metrics"
	"github.com/lamim/reqflow/internal/prompt"
	"github.com/lamim/reqflow/internal/writer"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reqflow",
		Short: "reqflow - requirements documents to conversation flows",
		Long: `reqflow turns requirements documents into conversational question flows
using an OpenAI-compatible chat model, and serves the same pipeline over HTTP.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to TOML configuration file (built-in defaults when empty)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to environment file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("env-file", rootCmd.PersistentFlags().Lookup("env-file"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = viper.BindEnv("config", "REQFLOW_CONFIG")
	_ = viper.BindEnv("log-level", "REQFLOW_LOG_LEVEL")

	rootCmd.AddCommand(
		newServeCmd(),
		newFlowCmd(),
		newConvertCmd(),
		newRunsCmd(),
		newReportCmd(),
		newPromptCmd(),
		newSchemaCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wiring shared by every command
type app struct {
	cfg        *config.Config
	secrets    *config.Secrets
	configPath string
	logger     *slog.Logger
	logFile    *os.File
	metrics    *metrics.Collector
	flows      *flow.Service
}

// Close flushes the log file, if any
func (a *app) Close() {
	if a.logFile != nil {
		_ = a.logFile.Sync()
		_ = a.logFile.Close()
	}
}

// loadApp reads .env and config, applies overrides, and builds the flow service.
// Console logs go to cmd's stderr so stdout stays clean for command output.
// logPath, when set, replaces the configured log file.
func loadApp(cmd *cobra.Command, logPath string) (*app, error) {
	if envFile := viper.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load env file: %v\n", err)
		}
	}

	configPath := viper.GetString("config")
	cfg, secrets, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	levelName := cfg.Logging.Level
	if viper.IsSet("log-level") {
		levelName = viper.GetString("log-level")
	}
	if viper.GetBool("verbose") {
		levelName = "debug"
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		return nil, err
	}

	if logPath == "" {
		logPath = cfg.Logging.File
	}
	logger, logFile, err := writer.SetupLogger(cmd.ErrOrStderr(), level, cfg.Logging.Format, logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	// Presence only, never the key itself
	logger.Debug("Credentials resolved", "providers", secrets.ConfiguredProviders())

	var counter prompt.TokenCounter = prompt.EstimateCounter{}
	if cfg.Model.MaxPromptTokens > 0 {
		counter = prompt.NewCounter(cfg.Model.ModelName, logger)
	}

	collector := metrics.NewCollector(logger)
	flows := flow.NewService(
		cfg,
		secrets,
		prompt.NewBuilder(cfg, counter),
		api.NewClient(logger),
		collector,
		logger,
	)

	return &app{
		cfg:        cfg,
		secrets:    secrets,
		configPath: configPath,
		logger:     logger,
		logFile:    logFile,
		metrics:    collector,
		flows:      flows,
	}, nil
}
