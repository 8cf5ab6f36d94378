package nnops

import (
	"fmt"
	"math/rand"
)

// Linear is an affine layer y = x·W + b with W of shape (NIn, NOut).
//
// Forward caches a copy of its input and the batch size. Backward consumes
// that cache: it must follow a Forward with the same batch size, and a second
// Backward needs a new Forward.
type Linear struct {
	Weight *Param
	Bias   *Param
	NIn    int
	NOut   int

	// Ops selects the matrix-multiply backend; the zero value uses DefaultOps.
	Ops Ops

	in    []float32
	bs    int
	ready bool
}

// NewLinear creates a layer with weights drawn uniformly from
// ±1/sqrt(nOut) and a zero bias.
func NewLinear(rng *rand.Rand, nIn, nOut int) *Linear {
	checkLayerDims(nIn, nOut)
	return &Linear{
		Weight: NewUniformParam(rng, nIn*nOut, nOut),
		Bias:   NewParam(nOut),
		NIn:    nIn,
		NOut:   nOut,
	}
}

// NewLinearFrom creates a layer around existing parameters.
func NewLinearFrom(weight, bias *Param, nIn, nOut int) *Linear {
	const op = "NewLinearFrom"
	checkLayerDims(nIn, nOut)
	checkLen(op, "weight", weight.Value, nIn*nOut)
	checkLen(op, "weight grad", weight.Grad, nIn*nOut)
	checkLen(op, "bias", bias.Value, nOut)
	checkLen(op, "bias grad", bias.Grad, nOut)
	return &Linear{Weight: weight, Bias: bias, NIn: nIn, NOut: nOut}
}

func checkLayerDims(nIn, nOut int) {
	if nIn <= 0 || nOut <= 0 {
		panic(fmt.Sprintf("nnops: Linear dimensions %dx%d must be positive", nIn, nOut))
	}
}

func (l *Linear) ops() Ops {
	if l.Ops.MM == nil {
		return DefaultOps
	}
	return l.Ops
}

// Forward writes xIn·W + b into xOut. The batch size is len(xIn)/NIn.
func (l *Linear) Forward(xIn, xOut []float32) {
	if len(xIn)%l.NIn != 0 {
		panic(fmt.Sprintf("nnops: Linear.Forward: len(xIn) = %d is not a multiple of %d", len(xIn), l.NIn))
	}
	bs := len(xIn) / l.NIn
	l.ready = false

	if cap(l.in) < len(xIn) {
		l.in = make([]float32, len(xIn))
	}
	l.in = l.in[:len(xIn)]
	copy(l.in, xIn)

	l.ops().LinearForward(xIn, xOut, l.Weight.Value, l.Bias.Value, bs, l.NIn, l.NOut)
	l.bs = bs
	l.ready = true
}

// Backward accumulates parameter gradients for the upstream gradient grad
// and, when gradIn is non-nil, adds the gradient with respect to the input
// into it.
func (l *Linear) Backward(grad, gradIn []float32) {
	if !l.ready {
		panic("nnops: Linear.Backward called without a preceding Forward")
	}
	if len(grad) != l.bs*l.NOut {
		panic(fmt.Sprintf("nnops: Linear.Backward: batch of %d rows after a forward batch of %d",
			len(grad)/l.NOut, l.bs))
	}
	l.ops().LinearBackward(l.in, l.Weight.Value, l.Bias.Value, grad,
		l.Weight.Grad, l.Bias.Grad, gradIn, l.bs, l.NIn, l.NOut)
	l.ready = false
}

// ZeroGrad clears the parameter gradients. The forward cache is kept.
func (l *Linear) ZeroGrad() {
	l.Weight.ZeroGrad()
	l.Bias.ZeroGrad()
}

// Params returns the weight and bias.
func (l *Linear) Params() []*Param {
	return []*Param{l.Weight, l.Bias}
}
