package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/LynnColeArt/nnops/mnist"
	"github.com/LynnColeArt/nnops/models"
)

func newMnistCmd() *cobra.Command {
	var (
		images, labels         string
		testImages, testLabels string
		epochs, batch          int
		lr                     float32
		seed                   int64
		shuffle                bool
	)
	cmd := &cobra.Command{
		Use:   "mnist",
		Short: "Train the single-layer perceptron on MNIST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			train, err := mnist.Load(images, labels)
			if err != nil {
				return err
			}
			klog.Infof("loaded %d training images", train.Len())
			if batch <= 0 || batch > train.Len() {
				return fmt.Errorf("batch size %d for %d images", batch, train.Len())
			}

			rng := rand.New(rand.NewSource(seed))
			p := models.NewPerceptron(rng)
			var order *rand.Rand
			if shuffle {
				order = rng
			}
			stats := models.TrainPerceptron(p, train, batch, order, models.TrainConfig{
				LR:       lr,
				Steps:    epochs,
				LogEvery: 100,
			})

			out := cmd.OutOrStdout()
			for _, s := range stats {
				fmt.Fprintf(out, "epoch %d loss %.4f acc %.4f\n", s.Epoch, s.Loss, s.Accuracy)
			}

			if testImages == "" {
				return nil
			}
			test, err := mnist.Load(testImages, testLabels)
			if err != nil {
				return err
			}
			loss, acc := models.Evaluate(p, test, batch)
			fmt.Fprintf(out, "test loss %.4f acc %.4f\n", loss, acc)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&images, "images", "", "training image file (IDX, magic 2051)")
	f.StringVar(&labels, "labels", "", "training label file (IDX, magic 2049)")
	f.StringVar(&testImages, "test-images", "", "optional test image file")
	f.StringVar(&testLabels, "test-labels", "", "test label file, required with --test-images")
	f.IntVar(&epochs, "epochs", 5, "passes over the training set")
	f.IntVar(&batch, "batch", 32, "minibatch size")
	f.Float32Var(&lr, "lr", 1, "learning rate")
	f.Int64Var(&seed, "seed", 1, "seed for initialization and shuffling")
	f.BoolVar(&shuffle, "shuffle", true, "shuffle batch order every epoch")
	cmd.MarkFlagRequired("images")
	cmd.MarkFlagRequired("labels")
	cmd.MarkFlagsRequiredTogether("test-images", "test-labels")
	return cmd
}
