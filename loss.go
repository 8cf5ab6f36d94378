package nnops

// MSELoss returns the mean of (pred[i]-target[i])² over all elements, or 0
// for empty inputs.
func MSELoss(pred, target []float32) float32 {
	checkSameLen("MSELoss", pred, target)
	if len(pred) == 0 {
		return 0
	}
	var sum float32
	for i, p := range pred {
		d := p - target[i]
		sum += d * d
	}
	return sum / float32(len(pred))
}

// MSEGrad adds the gradient of MSELoss with respect to pred,
// 2·(pred[i]-target[i])/N, into grad.
func MSEGrad(pred, target, grad []float32) {
	checkSameLen("MSEGrad", pred, target)
	checkSameLen("MSEGrad", pred, grad)
	n := float32(len(pred))
	for i, p := range pred {
		grad[i] += (p - target[i]) * 2 / n
	}
}

// MSE is the mean squared error as a layer.
type MSE struct {
	pred, target []float32
}

// Forward returns the loss and remembers both operands for Backward.
func (l *MSE) Forward(pred, target []float32) float32 {
	loss := MSELoss(pred, target)
	l.pred, l.target = pred, target
	return loss
}

// Backward adds the loss gradient into grad.
func (l *MSE) Backward(grad []float32) {
	if l.pred == nil {
		panic("nnops: MSE.Backward called before Forward")
	}
	MSEGrad(l.pred, l.target, grad)
}
