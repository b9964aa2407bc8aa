package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/promosim/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Repeat seeded runs and summarize how each strategy fares",
		Long: `Run the simulation several times with consecutive seeds and report the mean
grand totals, per-layer mean required-skill averages, and win counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modeFlag, _ := cmd.Flags().GetString("mode")
			format, _ := cmd.Flags().GetString("format")
			runs, _ := cmd.Flags().GetInt("runs")
			workers, _ := cmd.Flags().GetInt("workers")
			seed, _ := cmd.Flags().GetInt64("seed")

			if err := checkFormat(format); err != nil {
				return err
			}
			mode, err := parseModeFlag(modeFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, err := setup(ctx, cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc := newService(cfg)
			if mode == "" {
				mode = svc.DefaultMode()
			}
			if !cmd.Flags().Changed("runs") {
				runs = cfg.SweepRuns
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}

			res, err := sweep.Run(ctx, svc, sweep.Config{Mode: mode, Runs: runs, Seed: seed, Workers: workers})
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, res, func() string { return renderSweep(res) })
		},
	}

	cmd.Flags().String("mode", "", "Skill-based mode: flat or hierarchical (default from config)")
	cmd.Flags().Int("runs", 0, "Number of runs (default from config)")
	cmd.Flags().Int("workers", 1, "Runs executed concurrently")
	cmd.Flags().Int64("seed", 0, "Seed of the first run; run i uses seed+i (default from config, else the clock)")
	cmd.Flags().String("format", formatTable, "Output format: json, yaml or table")
	return cmd
}
