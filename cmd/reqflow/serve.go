package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lamim/reqflow/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serve the flow pipeline over HTTP until SIGINT or SIGTERM.

Host and port come from the config file, REQFLOW_HOST / REQFLOW_PORT,
or the flags below, in increasing order of precedence.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("host", "", "Listen host (overrides config)")
	cmd.Flags().Int("port", 0, "Listen port (overrides config)")

	_ = viper.BindPFlag("host", cmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = viper.BindEnv("host", "REQFLOW_HOST")
	_ = viper.BindEnv("port", "REQFLOW_PORT")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, "")
	if err != nil {
		return err
	}
	defer a.Close()

	if viper.IsSet("host") {
		a.cfg.Server.Host = viper.GetString("host")
	}
	if viper.IsSet("port") {
		defaultPublic := fmt.Sprintf("http://localhost:%d", a.cfg.Server.Port)
		a.cfg.Server.Port = viper.GetInt("port")
		if a.cfg.Server.PublicBaseURL == defaultPublic {
			a.cfg.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", a.cfg.Server.Port)
		}
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if viper.GetBool("verbose") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a.logger.Info("reqflow starting",
		"version", Version,
		"config", a.configPath,
		"addr", a.cfg.Addr(),
		"public_base_url", a.cfg.Server.PublicBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.cfg, a.flows, a.metrics, a.logger, Version)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	a.logger.Info("reqflow stopped")
	return nil
}
