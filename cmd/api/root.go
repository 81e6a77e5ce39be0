package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/config"
	"alfredoptarigan/interview-agent/internal/logger"
)

const app = "interview-agent"

var (
	debugFlag bool
	jsonFlag  bool

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "interview-agent serves the AI mock interview API",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonFlag, "json", "j", false, "json format for logging")
}

// loadConfig reads the environment and builds the process logger. Flags take
// precedence over LOG_DEBUG and LOG_JSON.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	if debugFlag {
		cfg.Log.Debug = true
	}
	if jsonFlag {
		cfg.Log.JSON = true
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Info("✅ Config loaded successfully",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	return cfg, log, nil
}
