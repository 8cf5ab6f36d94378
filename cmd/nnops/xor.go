package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/LynnColeArt/nnops/models"
)

func newXorCmd() *cobra.Command {
	var (
		seed     int64
		lr       float32
		steps    int
		table    string
		logEvery int
	)
	cmd := &cobra.Command{
		Use:   "xor",
		Short: "Train the 2-2-1 sigmoid network on a boolean truth table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target []float32
			switch table {
			case "xor":
				target = models.XorTargets
			case "or":
				target = models.OrTargets
			default:
				return fmt.Errorf("unknown table %q, want xor or or", table)
			}

			net := models.NewXorNet(rand.New(rand.NewSource(seed)))
			n, ok := models.TrainXor(net, models.TableInputs, target, models.TrainConfig{
				LR:       lr,
				Steps:    steps,
				LogEvery: logEvery,
			})
			if !ok {
				return fmt.Errorf("%s did not reach full accuracy in %d steps (loss %.4f)", table, steps, net.Loss(target))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s converged after %d steps, loss %.4f\n", table, n, net.Loss(target))
			for i, y := range net.Out() {
				fmt.Fprintf(out, "  %v -> %.4f (target %v)\n", models.TableInputs[2*i:2*i+2], y, target[i])
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64Var(&seed, "seed", 1, "seed for the weight initializer")
	f.Float32Var(&lr, "lr", 1, "learning rate")
	f.IntVar(&steps, "steps", 10000, "maximum number of updates")
	f.StringVar(&table, "table", "xor", "truth table to learn: xor or or")
	f.IntVar(&logEvery, "log-every", 100, "log progress every n steps, 0 to disable")
	return cmd
}
