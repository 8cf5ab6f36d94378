package compute

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Matmul is a matrix-multiply backend. Every method accumulates into c and
// takes the dimensions of the (n,k)x(k,m) product, with the same operand
// layouts as Gemm, GemmAT and GemmBT.
type Matmul interface {
	Gemm(a, b, c []float32, n, k, m int)
	GemmAT(a, b, c []float32, n, k, m int)
	GemmBT(a, b, c []float32, n, k, m int)
}

// Naive runs the reference triple loops.
type Naive struct{}

func (Naive) Gemm(a, b, c []float32, n, k, m int)   { Gemm(a, b, c, n, k, m) }
func (Naive) GemmAT(a, b, c []float32, n, k, m int) { GemmAT(a, b, c, n, k, m) }
func (Naive) GemmBT(a, b, c []float32, n, k, m int) { GemmBT(a, b, c, n, k, m) }

// Blocked runs plain products through the blocked driver whenever the sizes
// divide the tile, and through the naive loop otherwise. The transposed
// variants always use the naive loops.
type Blocked struct {
	Tile Tile
}

func (bl Blocked) Gemm(a, b, c []float32, n, k, m int) {
	if CanBlock(bl.Tile, n, m) {
		BlockedGemmTile(bl.Tile, a, b, c, n, k, m)
		return
	}
	Gemm(a, b, c, n, k, m)
}

func (Blocked) GemmAT(a, b, c []float32, n, k, m int) { GemmAT(a, b, c, n, k, m) }
func (Blocked) GemmBT(a, b, c []float32, n, k, m int) { GemmBT(a, b, c, n, k, m) }

func (bl Blocked) String() string {
	return "blocked(" + bl.Tile.String() + ")"
}

// Tuned runs plain products through the blocked driver with DefaultTile
// when that tile beat the naive loop in DefaultTuning, and through the naive
// loops otherwise. The transposed variants always use the naive loops.
type Tuned struct{}

func (Tuned) Gemm(a, b, c []float32, n, k, m int) {
	if t := tuned(); t.BlockedFaster() {
		Blocked{Tile: t.Best}.Gemm(a, b, c, n, k, m)
		return
	}
	Gemm(a, b, c, n, k, m)
}

func (Tuned) GemmAT(a, b, c []float32, n, k, m int) { GemmAT(a, b, c, n, k, m) }
func (Tuned) GemmBT(a, b, c []float32, n, k, m int) { GemmBT(a, b, c, n, k, m) }

// Gonum delegates to gonum's pure Go SGEMM with beta = 1.
type Gonum struct{}

func (Gonum) Gemm(a, b, c []float32, n, k, m int) {
	checkDims(a, b, c, n, k, m)
	if n == 0 || k == 0 || m == 0 {
		return
	}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, general(n, k, a), general(k, m, b), 1, general(n, m, c))
}

func (Gonum) GemmAT(a, b, c []float32, n, k, m int) {
	checkDims(a, b, c, n, k, m)
	if n == 0 || k == 0 || m == 0 {
		return
	}
	blas32.Gemm(blas.Trans, blas.NoTrans, 1, general(k, n, a), general(k, m, b), 1, general(n, m, c))
}

func (Gonum) GemmBT(a, b, c []float32, n, k, m int) {
	checkDims(a, b, c, n, k, m)
	if n == 0 || k == 0 || m == 0 {
		return
	}
	blas32.Gemm(blas.NoTrans, blas.Trans, 1, general(n, k, a), general(m, k, b), 1, general(n, m, c))
}

func general(rows, cols int, data []float32) blas32.General {
	return blas32.General{Rows: rows, Cols: cols, Stride: max(1, cols), Data: data}
}

// Backend returns the named backend: "naive", "blocked", "tuned" or
// "gonum".
func Backend(name string) (Matmul, bool) {
	switch name {
	case "naive":
		return Naive{}, true
	case "blocked":
		return Blocked{Tile: DefaultTile()}, true
	case "tuned":
		return Tuned{}, true
	case "gonum":
		return Gonum{}, true
	}
	return nil, false
}
