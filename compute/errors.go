package compute

// Precondition failures. Kernels panic with these values; they are caller
// bugs, not runtime conditions.
const (
	errNegativeDim  = "compute: negative dimension"
	errShortA       = "compute: len(a) != n*k"
	errShortB       = "compute: len(b) != k*m"
	errShortC       = "compute: len(c) != n*m"
	errRowsTile     = "compute: n is not a multiple of the tile rows"
	errColsTile     = "compute: m is not a multiple of the tile width"
	errBadTile      = "compute: tile dimensions must be positive"
	errShortPacked  = "compute: packed buffer too short"
	errTuneTile     = "compute: tile does not divide the tuning product"
	errAlignLen     = "compute: aligned length must be a non-negative multiple of Lanes"
	errDoubleFree   = "compute: buffer released twice"
)

func checkDims(a, b, c []float32, n, k, m int) {
	if n < 0 || k < 0 || m < 0 {
		panic(errNegativeDim)
	}
	if len(a) != n*k {
		panic(errShortA)
	}
	if len(b) != k*m {
		panic(errShortB)
	}
	if len(c) != n*m {
		panic(errShortC)
	}
}
