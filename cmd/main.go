package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/config"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/pkg/logger"
)

var version = "0.1.0-dev"

// Output formats shared by run and sweep.
const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promosim",
		Short: "Promotion simulator - random versus skill-based promotion",
		Long: `promosim generates a workforce with randomized skill scores, promotes it
into a fixed five-layer organization both at random and by skill, and
compares the per-layer required-skill averages of the two.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides PROMOSIM_CONFIG)")

	rootCmd.AddCommand(
		newServeCmd(),
		newRunCmd(),
		newSweepCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "promosim version %s\n", version)
		},
	}
}

// setup loads configuration from the --config file, if any, and
// initializes the global logger on w.
func setup(ctx context.Context, cmd *cobra.Command, w io.Writer) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(ctx, config.WithFile(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(w)); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// newService builds the simulation service from configuration.
func newService(cfg *config.Config) *app.Service {
	mode, _ := promotion.ParseMode(cfg.DefaultMode) // validated by config.Load
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithDefaultMode(mode),
		app.WithDefaultSeed(cfg.Seed),
	)
}

// parseModeFlag resolves --mode, where empty means the configured default.
func parseModeFlag(raw string) (promotion.Mode, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return promotion.ParseMode(raw)
}

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatYAML, formatTable:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or table)", format)
	}
}
