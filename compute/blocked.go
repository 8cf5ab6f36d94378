package compute

// CanBlock reports whether an (n,k)x(k,m) product can run through the
// blocked driver with tile t.
func CanBlock(t Tile, n, m int) bool {
	if t.Rows <= 0 || t.Vecs <= 0 || n < 0 || m < 0 {
		return false
	}
	return n%t.Rows == 0 && m%t.Width() == 0
}

// BlockedGemm computes c += a·b with DefaultTile, the candidate tile that
// measured fastest on this machine. See BlockedGemmTile.
func BlockedGemm(a, b, c []float32, n, k, m int) {
	BlockedGemmTile(DefaultTile(), a, b, c, n, k, m)
}

// BlockedGemmTile computes c += a·b for row-major a (n,k), b (k,m) and
// c (n,m) using register blocks of tile t.
//
// n must be a multiple of t.Rows and m a multiple of t.Width(); there is no
// edge handling, so other sizes panic. Both operands are first permuted into
// aligned scratch buffers so that the micro-kernel streams through memory
// sequentially.
func BlockedGemmTile(t Tile, a, b, c []float32, n, k, m int) {
	t.validate()
	checkDims(a, b, c, n, k, m)
	if n%t.Rows != 0 {
		panic(errRowsTile)
	}
	if m%t.Width() != 0 {
		panic(errColsTile)
	}
	if n == 0 || k == 0 || m == 0 {
		return
	}

	ra, cw := t.Rows, t.Width()

	// n*k need not be a multiple of Lanes; k*m always is.
	apBuf := AllocAligned(roundUp(n*k, Lanes))
	defer apBuf.Release()
	bpBuf := AllocAligned(k * m)
	defer bpBuf.Release()

	ap, bp := apBuf.Float32(), bpBuf.Float32()
	Permute(t, a, b, ap, bp, n, k, m)

	unrolled := t == TileAVX2
	for i0 := 0; i0 < n; i0 += ra {
		aPanel := ap[i0*k : (i0+ra)*k]
		for j0 := 0; j0 < m; j0 += cw {
			bPanel := bp[j0*k : (j0+cw)*k]
			if unrolled {
				kernel3x4(aPanel, bPanel, c, k, m, i0, j0)
			} else {
				kernel(t, aPanel, bPanel, c, k, m, i0, j0)
			}
		}
	}
}

func roundUp(n, multiple int) int {
	return (n + multiple - 1) / multiple * multiple
}
