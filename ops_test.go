package nnops

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/LynnColeArt/nnops/compute"
)

func randomSlice(rng *rand.Rand, n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(rng.NormFloat64())
	}
	return s
}

func to32(x []float64) []float32 {
	s := make([]float32, len(x))
	for i, v := range x {
		s[i] = float32(v)
	}
	return s
}

func to64(x []float32) []float64 {
	s := make([]float64, len(x))
	for i, v := range x {
		s[i] = float64(v)
	}
	return s
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

var gradTol = cmpopts.EquateApprox(1e-2, 1e-3)

func TestLinearForwardKnownValues(t *testing.T) {
	x := []float32{1, 2}    // (1,2)
	w := []float32{3, 4, 5, // (2,3)
		6, 7, 8}
	b := []float32{1, 0, -1}

	out := []float32{99, 99, 99}
	LinearForward(x, out, w, b, 1, 2, 3)
	want := []float32{16, 18, 20}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("LinearForward (-want +got):\n%s", diff)
	}

	// The output is reset to the bias, not accumulated.
	LinearForward(x, out, w, b, 1, 2, 3)
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("second LinearForward accumulated (-want +got):\n%s", diff)
	}
}

// TestLinearBackwardGradients checks the analytic gradients of the scalar
// L = Σ r·LinearForward(x, W, b) against central differences.
func TestLinearBackwardGradients(t *testing.T) {
	const nIn, nOut, bs = 3, 2, 2
	rng := rand.New(rand.NewSource(42))
	x := randomSlice(rng, bs*nIn)
	w := randomSlice(rng, nIn*nOut)
	b := randomSlice(rng, nOut)
	r := randomSlice(rng, bs*nOut)

	loss := func(x, w, b []float32) float64 {
		out := make([]float32, bs*nOut)
		LinearForward(x, out, w, b, bs, nIn, nOut)
		return dot(r, out)
	}

	wGrad := make([]float32, nIn*nOut)
	bGrad := make([]float32, nOut)
	xGrad := make([]float32, bs*nIn)
	LinearBackward(x, w, b, r, wGrad, bGrad, xGrad, bs, nIn, nOut)

	settings := &fd.Settings{Formula: fd.Central, Step: 1e-2}
	wantW := fd.Gradient(nil, func(v []float64) float64 { return loss(x, to32(v), b) }, to64(w), settings)
	wantB := fd.Gradient(nil, func(v []float64) float64 { return loss(x, w, to32(v)) }, to64(b), settings)
	wantX := fd.Gradient(nil, func(v []float64) float64 { return loss(to32(v), w, b) }, to64(x), settings)

	if diff := cmp.Diff(wantW, to64(wGrad), gradTol); diff != "" {
		t.Errorf("weight gradient (-numeric +analytic):\n%s", diff)
	}
	if diff := cmp.Diff(wantB, to64(bGrad), gradTol); diff != "" {
		t.Errorf("bias gradient (-numeric +analytic):\n%s", diff)
	}
	if diff := cmp.Diff(wantX, to64(xGrad), gradTol); diff != "" {
		t.Errorf("input gradient (-numeric +analytic):\n%s", diff)
	}
}

func TestLinearBackwardAccumulates(t *testing.T) {
	const nIn, nOut, bs = 4, 3, 5
	rng := rand.New(rand.NewSource(1))
	x := randomSlice(rng, bs*nIn)
	w := randomSlice(rng, nIn*nOut)
	b := make([]float32, nOut)
	g := randomSlice(rng, bs*nOut)

	wOnce, bOnce, xOnce := make([]float32, nIn*nOut), make([]float32, nOut), make([]float32, bs*nIn)
	LinearBackward(x, w, b, g, wOnce, bOnce, xOnce, bs, nIn, nOut)

	wTwice, bTwice, xTwice := make([]float32, nIn*nOut), make([]float32, nOut), make([]float32, bs*nIn)
	LinearBackward(x, w, b, g, wTwice, bTwice, xTwice, bs, nIn, nOut)
	LinearBackward(x, w, b, g, wTwice, bTwice, xTwice, bs, nIn, nOut)

	double := func(s []float32) []float32 {
		d := make([]float32, len(s))
		for i, v := range s {
			d[i] = 2 * v
		}
		return d
	}
	approx := cmpopts.EquateApprox(1e-5, 1e-6)
	if diff := cmp.Diff(double(wOnce), wTwice, approx); diff != "" {
		t.Errorf("weight gradient did not accumulate (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(double(bOnce), bTwice, approx); diff != "" {
		t.Errorf("bias gradient did not accumulate (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(double(xOnce), xTwice, approx); diff != "" {
		t.Errorf("input gradient did not accumulate (-want +got):\n%s", diff)
	}
}

func TestLinearBackwardWithoutInputGradient(t *testing.T) {
	wGrad, bGrad := make([]float32, 2), make([]float32, 1)
	LinearBackward([]float32{1, 2}, []float32{3, 4}, []float32{0}, []float32{0.5},
		wGrad, bGrad, nil, 1, 2, 1)
	if diff := cmp.Diff([]float32{0.5, 1}, wGrad); diff != "" {
		t.Errorf("weight gradient (-want +got):\n%s", diff)
	}
	if bGrad[0] != 0.5 {
		t.Errorf("bias gradient = %v, want 0.5", bGrad[0])
	}
}

func TestOpsBackendsAgree(t *testing.T) {
	const nIn, nOut, bs = 16, 32, 6
	rng := rand.New(rand.NewSource(42))
	x := randomSlice(rng, bs*nIn)
	w := randomSlice(rng, nIn*nOut)
	b := randomSlice(rng, nOut)
	g := randomSlice(rng, bs*nOut)

	run := func(o Ops) (out, wGrad, bGrad, xGrad []float32) {
		out = make([]float32, bs*nOut)
		o.LinearForward(x, out, w, b, bs, nIn, nOut)
		wGrad, bGrad, xGrad = make([]float32, nIn*nOut), make([]float32, nOut), make([]float32, bs*nIn)
		o.LinearBackward(x, w, b, g, wGrad, bGrad, xGrad, bs, nIn, nOut)
		return
	}

	approx := cmpopts.EquateApprox(1e-4, 1e-4)
	o1, w1, b1, x1 := run(Ops{MM: compute.Naive{}})
	for _, mm := range []compute.Matmul{compute.Gonum{}, compute.Blocked{Tile: compute.TileAVX2}, DefaultOps.MM} {
		o2, w2, b2, x2 := run(Ops{MM: mm})
		if diff := cmp.Diff([][]float32{o1, w1, b1, x1}, [][]float32{o2, w2, b2, x2}, approx); diff != "" {
			t.Errorf("%T disagrees with naive (-naive +got):\n%s", mm, diff)
		}
	}
}

func TestSigmoidGradient(t *testing.T) {
	sigmoid := func(x float64) float64 {
		v := []float32{float32(x)}
		SigmoidForward(v)
		return float64(v[0])
	}
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-3}

	for _, x := range []float32{-5, -1, 0, 1, 5} {
		y := []float32{x}
		SigmoidForward(y)
		grad := []float32{1}
		SigmoidBackward(y, grad)

		want := fd.Derivative(sigmoid, float64(x), settings)
		if diff := cmp.Diff(want, float64(grad[0]), cmpopts.EquateApprox(0, 2e-4)); diff != "" {
			t.Errorf("sigmoid'(%v) (-numeric +analytic):\n%s", x, diff)
		}
	}
}

func TestSigmoidValues(t *testing.T) {
	x := []float32{0, 1, -1, 5, -5, 100, -100}
	SigmoidForward(x)
	want := []float32{0.5, 0.7310586, 0.26894143, 0.9933071, 0.0066928507, 1, 0}
	if diff := cmp.Diff(want, x, cmpopts.EquateApprox(1e-6, 1e-7)); diff != "" {
		t.Errorf("SigmoidForward (-want +got):\n%s", diff)
	}
}

func TestMSE(t *testing.T) {
	pred := []float32{1, 2, 3, 4}
	target := []float32{1, 0, 3, 2}
	if got := MSELoss(pred, target); got != 2 {
		t.Errorf("MSELoss = %v, want 2", got)
	}
	if got := MSELoss(nil, nil); got != 0 {
		t.Errorf("MSELoss of empty input = %v, want 0", got)
	}

	grad := []float32{1, 1, 1, 1}
	MSEGrad(pred, target, grad)
	if diff := cmp.Diff([]float32{1, 2, 1, 2}, grad); diff != "" {
		t.Errorf("MSEGrad did not accumulate (-want +got):\n%s", diff)
	}
}

func TestMSEGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pred := randomSlice(rng, 6)
	target := randomSlice(rng, 6)

	grad := make([]float32, len(pred))
	MSEGrad(pred, target, grad)

	want := fd.Gradient(nil, func(p []float64) float64 {
		return float64(MSELoss(to32(p), target))
	}, to64(pred), &fd.Settings{Formula: fd.Central, Step: 1e-2})
	if diff := cmp.Diff(want, to64(grad), gradTol); diff != "" {
		t.Errorf("MSE gradient (-numeric +analytic):\n%s", diff)
	}
}

func TestOperatorPreconditions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"forward xIn", func() {
			LinearForward(make([]float32, 3), make([]float32, 2), make([]float32, 4), make([]float32, 2), 1, 2, 2)
		}},
		{"forward bias", func() {
			LinearForward(make([]float32, 2), make([]float32, 2), make([]float32, 4), make([]float32, 1), 1, 2, 2)
		}},
		{"backward gradIn", func() {
			LinearBackward(make([]float32, 2), make([]float32, 4), make([]float32, 2), make([]float32, 2),
				make([]float32, 4), make([]float32, 2), make([]float32, 3), 1, 2, 2)
		}},
		{"sigmoid backward", func() { SigmoidBackward(make([]float32, 2), make([]float32, 3)) }},
		{"mse", func() { MSELoss(make([]float32, 2), make([]float32, 3)) }},
		{"mse grad", func() { MSEGrad(make([]float32, 2), make([]float32, 2), make([]float32, 1)) }},
		{"negative", func() { LinearForward(nil, nil, nil, nil, -1, 2, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tt.fn()
		})
	}
}
