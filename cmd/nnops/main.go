// Command nnops trains the example networks and benchmarks the
// matrix-multiply backends.
//
//	nnops xor --table xor --seed 1 --lr 1
//	nnops mnist --images train-images-idx3-ubyte --labels train-labels-idx1-ubyte
//	nnops bench --backend blocked --size 768 --iters 10 --check --out results.json
//	nnops compare --baseline old.json --current results.json
package main

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/LynnColeArt/nnops"
	"github.com/LynnColeArt/nnops/compute"
)

func newRootCmd() *cobra.Command {
	version, _ := nnops.Version()
	if version == "" {
		version = "(devel)"
	}
	root := &cobra.Command{
		Use:           "nnops",
		Short:         "Train small networks and benchmark SGEMM backends",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if klog.V(1).Enabled() {
				klog.Infof("%s; %s", compute.CPUInfo(), compute.DefaultTuning())
			}
		},
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(newXorCmd(), newMnistCmd(), newBenchCmd(), newCompareCmd())
	return root
}

func main() {
	defer klog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		klog.ErrorS(err, "nnops failed")
		klog.Flush()
		os.Exit(1)
	}
}
