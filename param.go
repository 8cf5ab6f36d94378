package nnops

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
)

// Param is a trainable tensor: its values and the gradient accumulated for
// them. Backward passes only ever add to Grad; call ZeroGrad between steps.
type Param struct {
	Value []float32
	Grad  []float32
}

// NewParam returns a zero-valued parameter of n elements.
func NewParam(n int) *Param {
	return &Param{
		Value: make([]float32, n),
		Grad:  make([]float32, n),
	}
}

// NewUniformParam returns n values drawn uniformly from
// [-1/sqrt(fanOut), 1/sqrt(fanOut)) using rng.
func NewUniformParam(rng *rand.Rand, n, fanOut int) *Param {
	if fanOut <= 0 {
		panic(fmt.Sprintf("nnops: NewUniformParam: fanOut = %d", fanOut))
	}
	p := NewParam(n)
	std := 1 / math32.Sqrt(float32(fanOut))
	for i := range p.Value {
		p.Value[i] = (rng.Float32()*2 - 1) * std
	}
	return p
}

// Len returns the number of elements.
func (p *Param) Len() int {
	return len(p.Value)
}

// ZeroGrad clears the gradient.
func (p *Param) ZeroGrad() {
	clear(p.Grad)
}

func (p *Param) String() string {
	return fmt.Sprintf("Param(value=%v, grad=%v)", p.Value, p.Grad)
}
