package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LynnColeArt/nnops/bench"
)

func newCompareCmd() *cobra.Command {
	var (
		baseline, current string
		tol, regress      float64
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two bench --out files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := bench.Load(baseline)
			if err != nil {
				return fmt.Errorf("failed to load baseline: %w", err)
			}
			curr, err := bench.Load(current)
			if err != nil {
				return fmt.Errorf("failed to load current results: %w", err)
			}

			comps := bench.Compare(base, curr, tol, regress)
			bench.PrintComparisons(cmd.OutOrStdout(), comps)
			for _, c := range comps {
				if c.Status == bench.StatusFail {
					return fmt.Errorf("%s: %s", c.Key, c.Message)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&baseline, "baseline", "baseline.json", "baseline results file")
	f.StringVar(&current, "current", "current.json", "current results file")
	f.Float64Var(&tol, "tol", 1e-4, "relative tolerance on the result trace")
	f.Float64Var(&regress, "perf-regress", 1.1, "throughput regression threshold (1.1 = 10% slower)")
	return cmd
}
