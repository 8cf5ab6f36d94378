package nnops

// SGD is plain gradient descent.
type SGD struct {
	LR float32
}

// Step moves every parameter against its gradient: value -= LR·grad.
// Gradients are left untouched.
func (o SGD) Step(params ...*Param) {
	for _, p := range params {
		checkSameLen("SGD.Step", p.Value, p.Grad)
		for i, g := range p.Grad {
			p.Value[i] -= o.LR * g
		}
	}
}
