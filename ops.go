package nnops

import (
	"github.com/LynnColeArt/nnops/compute"
)

// Ops binds the operator set to a matrix-multiply backend.
type Ops struct {
	MM compute.Matmul
}

// DefaultOps multiplies through the blocked driver when it measured faster
// than the naive loops on this machine and the sizes allow it, and through
// the naive loops otherwise.
var DefaultOps = Ops{MM: compute.Tuned{}}

// LinearForward computes xOut = bias + xIn·weight for a batch of bs rows.
// xIn is (bs, nIn), weight is (nIn, nOut), bias is (nOut) and xOut is
// (bs, nOut). Unlike the other operators it does not accumulate: each output
// row is reset to the bias first.
func (o Ops) LinearForward(xIn, xOut, weight, bias []float32, bs, nIn, nOut int) {
	const op = "LinearForward"
	checkDim(op, bs, nIn, nOut)
	checkLen(op, "xIn", xIn, bs*nIn)
	checkLen(op, "xOut", xOut, bs*nOut)
	checkLen(op, "weight", weight, nIn*nOut)
	checkLen(op, "bias", bias, nOut)

	for i := 0; i < bs; i++ {
		copy(xOut[i*nOut:(i+1)*nOut], bias)
	}
	o.MM.Gemm(xIn, weight, xOut, bs, nIn, nOut)
}

// LinearBackward propagates grad (bs, nOut) through the affine transform
// whose forward input was xIn. It adds the column sums of grad to biasGrad
// and xInᵗ·grad to weightGrad. When gradIn is non-nil it also adds
// grad·weightᵗ to it; a nil gradIn marks the network input.
//
// bias is not read; it is taken so that the call mirrors LinearForward.
func (o Ops) LinearBackward(xIn, weight, bias, grad, weightGrad, biasGrad, gradIn []float32, bs, nIn, nOut int) {
	const op = "LinearBackward"
	checkDim(op, bs, nIn, nOut)
	checkLen(op, "xIn", xIn, bs*nIn)
	checkLen(op, "weight", weight, nIn*nOut)
	checkLen(op, "bias", bias, nOut)
	checkLen(op, "grad", grad, bs*nOut)
	checkLen(op, "weightGrad", weightGrad, nIn*nOut)
	checkLen(op, "biasGrad", biasGrad, nOut)
	if gradIn != nil {
		checkLen(op, "gradIn", gradIn, bs*nIn)
	}

	for i := 0; i < bs; i++ {
		for j, g := range grad[i*nOut : (i+1)*nOut] {
			biasGrad[j] += g
		}
	}
	o.MM.GemmAT(xIn, grad, weightGrad, nIn, bs, nOut)

	if gradIn != nil {
		o.MM.GemmBT(grad, weight, gradIn, bs, nOut, nIn)
	}
}

// LinearForward calls DefaultOps.LinearForward.
func LinearForward(xIn, xOut, weight, bias []float32, bs, nIn, nOut int) {
	DefaultOps.LinearForward(xIn, xOut, weight, bias, bs, nIn, nOut)
}

// LinearBackward calls DefaultOps.LinearBackward.
func LinearBackward(xIn, weight, bias, grad, weightGrad, biasGrad, gradIn []float32, bs, nIn, nOut int) {
	DefaultOps.LinearBackward(xIn, weight, bias, grad, weightGrad, biasGrad, gradIn, bs, nIn, nOut)
}
