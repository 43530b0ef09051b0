// Package cli wires the ohlcv commands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/ohlcv/config"
	"github.com/rustyeddy/ohlcv/internal/logger"
)

// RootConfig carries the persistent flags and the loaded configuration to
// subcommands.
type RootConfig struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFile    string

	Config *config.Config
	Log    *logger.Log
}

// skipConfig marks commands that handle configuration themselves.
const skipConfig = "skip-config"

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "ohlcv",
		Short: "ohlcv: bar series, indicators and journals",
		Long: `ohlcv loads OHLCV bars or raw trades into a columnar series, evaluates
technical indicators over it and records the results to CSV, SQLite or Parquet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.EnvFile, "env-file", "", "Load OHLCV_* variables from this file (default .env when present)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogFile, "log-file", "", "Write logs to a rotating file (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] != "" {
			return nil
		}
		return rc.load()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if rc.Log != nil {
			return rc.Log.Close()
		}
		return nil
	}

	cmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newEvalCmd(rc),
		newAggregateCmd(rc),
		newGapsCmd(rc),
	)
	return cmd
}

func (rc *RootConfig) load() error {
	if err := loadEnvFile(rc.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if rc.LogFile != "" {
		cfg.Log.File = rc.LogFile
	}

	log := logger.New()
	if err := log.Configure(cfg.LogOptions()); err != nil {
		return err
	}
	logger.SetDefault(log)

	rc.Config = cfg
	rc.Log = log
	log.WithComponent("cli").WithFields(logger.Fields{
		"config":  rc.ConfigPath,
		"series":  cfg.Series.Name,
		"backend": cfg.Series.Backend,
	}).Debug("configuration loaded")
	return nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. An empty path loads .env if it exists.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("env file: %w", err)
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// parseTimeFlag accepts RFC3339, RFC3339Nano or a bare date. Empty is the
// zero time.
func parseTimeFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad --%s %q: want RFC3339 or YYYY-MM-DD", name, v)
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	if from, err = parseTimeFlag("from", fromStr); err != nil {
		return
	}
	if to, err = parseTimeFlag("to", toStr); err != nil {
		return
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		err = fmt.Errorf("--from must be before --to")
	}
	return
}
