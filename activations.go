package nnops

import "github.com/chewxy/math32"

// SigmoidForward replaces every x[i] with 1/(1+e^-x[i]).
func SigmoidForward(x []float32) {
	for i, v := range x {
		x[i] = 1 / (1 + math32.Exp(-v))
	}
}

// SigmoidBackward multiplies grad in place by the sigmoid derivative,
// expressed through the forward output y as y·(1-y).
func SigmoidBackward(y, grad []float32) {
	checkSameLen("SigmoidBackward", y, grad)
	for i, v := range y {
		grad[i] *= v * (1 - v)
	}
}

// Sigmoid is the sigmoid activation as a layer. Forward works in place and
// keeps the output slice for Backward.
type Sigmoid struct {
	out []float32
}

// Forward applies the sigmoid to x in place.
func (s *Sigmoid) Forward(x []float32) {
	SigmoidForward(x)
	s.out = x
}

// Backward scales grad by the derivative at the cached output. The output
// slice must not have been modified since Forward.
func (s *Sigmoid) Backward(grad []float32) {
	if s.out == nil {
		panic("nnops: Sigmoid.Backward called before Forward")
	}
	SigmoidBackward(s.out, grad)
}
