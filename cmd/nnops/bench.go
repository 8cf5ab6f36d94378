package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/LynnColeArt/nnops/bench"
	"github.com/LynnColeArt/nnops/compute"
)

func newBenchCmd() *cobra.Command {
	var (
		cfg   bench.Config
		check bool
		out   string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time square SGEMM through one backend",
		Long: `Time square SGEMM through one backend. Every iteration's output trace is
checked against the exact trace of the product; the command fails if any
iteration is off by more than --trace-tol.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mm, ok := compute.Backend(cfg.Backend)
			if !ok {
				return fmt.Errorf("unknown backend %q, want naive, blocked, tuned or gonum", cfg.Backend)
			}
			if cfg.Size <= 0 || cfg.Iters <= 0 {
				return fmt.Errorf("size and iters must be positive")
			}
			if cfg.Backend == "blocked" && !compute.CanBlock(compute.DefaultTile(), cfg.Size, cfg.Size) {
				klog.Warningf("size %d does not divide tile %s; blocked falls back to the naive loop",
					cfg.Size, compute.DefaultTile())
			}

			if check {
				r := bench.Check(mm, cfg.Size, cfg.Seed, compute.RelaxedTolerance())
				if !r.OK() {
					return fmt.Errorf("%s disagrees with naive: %v", cfg.Backend, r)
				}
				klog.Infof("%s matches naive: %v", cfg.Backend, r)
			}

			w := cmd.OutOrStdout()
			logger := bench.NewLogger(out)
			err := bench.Run(mm, cfg, func(r bench.Result) error {
				if r.Status != "pass" {
					klog.Errorf("iteration %d: %s", r.Iteration, r.Error)
				} else {
					fmt.Fprintf(w, "%.2f GFLOPS, trace %.4e\n", r.GFLOPS, r.Trace)
				}
				return logger.Log(r)
			})
			if err != nil {
				return err
			}
			results := logger.Results()
			bench.Summary(w, results)
			if failed := bench.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d iterations computed a wrong product", len(failed), len(results))
			}
			if inUse, peak := compute.ScratchStats(); inUse != 0 {
				return fmt.Errorf("%d scratch bytes never released (peak %d)", inUse, peak)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Backend, "backend", "blocked", "naive, blocked, tuned or gonum")
	f.IntVar(&cfg.Size, "size", 768, "matrix dimension n = k = m")
	f.IntVar(&cfg.Iters, "iters", 10, "number of timed products")
	f.Uint64Var(&cfg.Seed, "seed", 0xdeadbeef, "seed for the input matrices")
	f.Float64Var(&cfg.TraceTol, "trace-tol", bench.DefaultTraceTol, "relative trace tolerance per iteration")
	f.BoolVar(&check, "check", false, "verify the backend against naive before timing")
	f.StringVar(&out, "out", "", "write results as JSON to this file")
	return cmd
}
