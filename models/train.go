package models

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"k8s.io/klog/v2"

	"github.com/LynnColeArt/nnops"
	"github.com/LynnColeArt/nnops/mnist"
)

// Truth tables for the 2-2-1 network: four rows of two inputs.
var (
	TableInputs = []float32{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	}
	XorTargets = []float32{0, 1, 1, 0}
	OrTargets  = []float32{0, 1, 1, 1}
)

// Accuracy returns the fraction of positions where the rounded prediction
// equals the rounded target.
func Accuracy(pred, target []float32) float32 {
	if len(pred) != len(target) {
		panic(fmt.Sprintf("models: Accuracy: %d predictions for %d targets", len(pred), len(target)))
	}
	if len(pred) == 0 {
		return 0
	}
	hits := 0
	for i, p := range pred {
		if math32.Round(p) == math32.Round(target[i]) {
			hits++
		}
	}
	return float32(hits) / float32(len(pred))
}

// ClassAccuracy returns the fraction of rows of a (rows, classes) matrix
// whose largest prediction sits where the one-hot target is largest.
func ClassAccuracy(pred, target []float32, classes int) float32 {
	if len(pred) != len(target) || classes <= 0 || len(pred)%classes != 0 {
		panic(fmt.Sprintf("models: ClassAccuracy: shapes %d, %d with %d classes", len(pred), len(target), classes))
	}
	rows := len(pred) / classes
	if rows == 0 {
		return 0
	}
	hits := 0
	for i := 0; i < rows; i++ {
		if argmax(pred[i*classes:(i+1)*classes]) == argmax(target[i*classes:(i+1)*classes]) {
			hits++
		}
	}
	return float32(hits) / float32(rows)
}

func argmax(x []float32) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}

// TrainConfig controls a gradient descent loop.
type TrainConfig struct {
	LR    float32
	Steps int // upper bound on updates, or epochs for TrainPerceptron

	// LogEvery logs progress at info level every LogEvery steps; 0 disables
	// progress logging.
	LogEvery int
}

// TrainXor trains net on the rows of x and targets y until every rounded
// output matches its target. It returns the number of updates applied
// before that happened and whether it happened within cfg.Steps.
func TrainXor(net *XorNet, x, y []float32, cfg TrainConfig) (int, bool) {
	bs := len(y)
	opt := nnops.SGD{LR: cfg.LR}
	for step := 0; step < cfg.Steps; step++ {
		out := net.Forward(x, bs)
		acc := Accuracy(out, y)
		if cfg.LogEvery > 0 && step%cfg.LogEvery == 0 {
			klog.Infof("step %d loss %.4f acc %.4f", step, net.Loss(y), acc)
		}
		if acc == 1 {
			return step, true
		}

		net.ZeroGrad()
		net.Backward(y)
		opt.Step(net.Params()...)
	}
	return cfg.Steps, false
}

// EpochStats summarizes one pass over a dataset.
type EpochStats struct {
	Epoch    int
	Loss     float32 // mean batch loss
	Accuracy float32 // argmax accuracy over all trained examples
}

// TrainPerceptron runs cfg.Steps epochs of minibatch gradient descent over
// ds with batches of bs images. A trailing partial batch is dropped. When
// rng is non-nil the batch order is shuffled every epoch.
func TrainPerceptron(p *Perceptron, ds *mnist.Dataset, bs int, rng *rand.Rand, cfg TrainConfig) []EpochStats {
	if bs <= 0 || bs > ds.Len() {
		panic(fmt.Sprintf("models: TrainPerceptron: batch size %d for %d examples", bs, ds.Len()))
	}
	opt := nnops.SGD{LR: cfg.LR}
	batches := ds.Len() / bs
	order := make([]int, batches)
	for i := range order {
		order[i] = i
	}

	stats := make([]EpochStats, 0, cfg.Steps)
	for epoch := 0; epoch < cfg.Steps; epoch++ {
		if rng != nil {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var loss, acc float32
		for n, b := range order {
			x, y := ds.Batch(b*bs, bs)
			out := p.Forward(x, bs)
			loss += p.Loss(y)
			acc += ClassAccuracy(out, y, mnist.NumClasses)

			p.ZeroGrad()
			p.Backward(y)
			opt.Step(p.Params()...)

			if cfg.LogEvery > 0 && n%cfg.LogEvery == 0 {
				klog.V(1).Infof("epoch %d batch %d/%d loss %.4f", epoch, n, batches, p.Loss(y))
			}
		}

		s := EpochStats{
			Epoch:    epoch,
			Loss:     loss / float32(batches),
			Accuracy: acc / float32(batches),
		}
		stats = append(stats, s)
		klog.Infof("epoch %d loss %.4f acc %.4f", s.Epoch, s.Loss, s.Accuracy)
	}
	return stats
}

// Evaluate returns the mean loss and argmax accuracy of p over ds without
// updating it.
func Evaluate(p *Perceptron, ds *mnist.Dataset, bs int) (loss, acc float32) {
	if bs <= 0 || ds.Len() < bs {
		return 0, 0
	}
	batches := ds.Len() / bs
	for b := 0; b < batches; b++ {
		x, y := ds.Batch(b*bs, bs)
		out := p.Forward(x, bs)
		loss += p.Loss(y)
		acc += ClassAccuracy(out, y, mnist.NumClasses)
	}
	return loss / float32(batches), acc / float32(batches)
}
