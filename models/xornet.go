package models

import (
	"fmt"
	"math/rand"

	"github.com/LynnColeArt/nnops"
)

// XorNet is a 2 -> sigmoid 2 -> sigmoid 1 network trained with MSE.
type XorNet struct {
	L0 *nnops.Linear
	L1 *nnops.Linear

	act0, act1 nnops.Sigmoid

	bs         int
	hidden     []float32
	out        []float32
	gradOut    []float32
	gradHidden []float32
}

// NewXorNet draws the hidden weights and bias uniformly from ±1/sqrt(2) and
// the output weights from ±1, leaving the output bias at zero. rng is read
// in that order, so a seed fully determines the network.
func NewXorNet(rng *rand.Rand) *XorNet {
	w0 := nnops.NewUniformParam(rng, 2*2, 2)
	b0 := nnops.NewUniformParam(rng, 2, 2)
	w1 := nnops.NewUniformParam(rng, 2*1, 1)
	b1 := nnops.NewParam(1)
	return &XorNet{
		L0: nnops.NewLinearFrom(w0, b0, 2, 2),
		L1: nnops.NewLinearFrom(w1, b1, 2, 1),
	}
}

// Forward runs a batch of bs rows of two inputs and returns the bs outputs.
// The returned slice is reused by the next call.
func (n *XorNet) Forward(x []float32, bs int) []float32 {
	if len(x) != bs*2 {
		panic(fmt.Sprintf("models: XorNet.Forward: len(x) = %d, want %d", len(x), bs*2))
	}
	if n.bs != bs {
		n.resize(bs)
	}

	n.L0.Forward(x, n.hidden)
	n.act0.Forward(n.hidden)
	n.L1.Forward(n.hidden, n.out)
	n.act1.Forward(n.out)
	return n.out
}

// Backward accumulates parameter gradients of the MSE between the last
// output and target.
func (n *XorNet) Backward(target []float32) {
	if len(target) != n.bs {
		panic(fmt.Sprintf("models: XorNet.Backward: len(target) = %d, want %d", len(target), n.bs))
	}
	clear(n.gradOut)
	clear(n.gradHidden)

	nnops.MSEGrad(n.out, target, n.gradOut)
	n.act1.Backward(n.gradOut)
	n.L1.Backward(n.gradOut, n.gradHidden)
	n.act0.Backward(n.gradHidden)
	n.L0.Backward(n.gradHidden, nil)
}

// Loss returns the MSE between the last output and target.
func (n *XorNet) Loss(target []float32) float32 {
	return nnops.MSELoss(n.out, target)
}

// Out returns the output of the last Forward.
func (n *XorNet) Out() []float32 {
	return n.out
}

func (n *XorNet) ZeroGrad() {
	n.L0.ZeroGrad()
	n.L1.ZeroGrad()
}

// Params returns w0, b0, w1, b1.
func (n *XorNet) Params() []*nnops.Param {
	return append(n.L0.Params(), n.L1.Params()...)
}

func (n *XorNet) resize(bs int) {
	n.hidden = make([]float32, bs*2)
	n.out = make([]float32, bs)
	n.gradOut = make([]float32, bs)
	n.gradHidden = make([]float32, bs*2)
	n.bs = bs
}
