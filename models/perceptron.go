package models

import (
	"fmt"
	"math/rand"

	"github.com/LynnColeArt/nnops"
	"github.com/LynnColeArt/nnops/mnist"
)

// Perceptron maps a 28x28 image to ten sigmoid outputs, one per digit, and
// is trained with MSE against one-hot targets.
type Perceptron struct {
	L *nnops.Linear

	act nnops.Sigmoid

	bs   int
	out  []float32
	grad []float32
}

// NewPerceptron draws the weights uniformly from ±1/sqrt(10) with a zero
// bias.
func NewPerceptron(rng *rand.Rand) *Perceptron {
	return &Perceptron{
		L: nnops.NewLinear(rng, mnist.ImageSize, mnist.NumClasses),
	}
}

// Forward runs bs images and returns the (bs, NumClasses) outputs. The
// returned slice is reused by the next call.
func (p *Perceptron) Forward(x []float32, bs int) []float32 {
	if len(x) != bs*mnist.ImageSize {
		panic(fmt.Sprintf("models: Perceptron.Forward: len(x) = %d, want %d", len(x), bs*mnist.ImageSize))
	}
	if p.bs != bs {
		p.out = make([]float32, bs*mnist.NumClasses)
		p.grad = make([]float32, bs*mnist.NumClasses)
		p.bs = bs
	}
	p.L.Forward(x, p.out)
	p.act.Forward(p.out)
	return p.out
}

// Backward accumulates parameter gradients for one-hot targets.
func (p *Perceptron) Backward(target []float32) {
	if len(target) != len(p.out) {
		panic(fmt.Sprintf("models: Perceptron.Backward: len(target) = %d, want %d", len(target), len(p.out)))
	}
	clear(p.grad)
	nnops.MSEGrad(p.out, target, p.grad)
	p.act.Backward(p.grad)
	p.L.Backward(p.grad, nil)
}

// Loss returns the MSE between the last output and target.
func (p *Perceptron) Loss(target []float32) float32 {
	return nnops.MSELoss(p.out, target)
}

// Out returns the output of the last Forward.
func (p *Perceptron) Out() []float32 {
	return p.out
}

func (p *Perceptron) ZeroGrad() {
	p.L.ZeroGrad()
}

func (p *Perceptron) Params() []*nnops.Param {
	return p.L.Params()
}
