package compute

// PackA copies the row-major (n,k) matrix a into dst as panels of rows
// consecutive rows. Within a panel the values are ordered by reduction index
// first, so dst has layout [n/rows][k][rows]:
//
//	dst[(i/rows)*k*rows + p*rows + i%rows] = a[i*k+p]
//
// n must be a multiple of rows and dst must hold at least n*k values.
func PackA(dst, a []float32, n, k, rows int) {
	if rows <= 0 {
		panic(errBadTile)
	}
	if n%rows != 0 {
		panic(errRowsTile)
	}
	if len(a) != n*k {
		panic(errShortA)
	}
	if len(dst) < n*k {
		panic(errShortPacked)
	}

	out := 0
	for i0 := 0; i0 < n; i0 += rows {
		for p := 0; p < k; p++ {
			for i := 0; i < rows; i++ {
				dst[out] = a[(i0+i)*k+p]
				out++
			}
		}
	}
}

// PackB copies the row-major (k,m) matrix b into dst as panels of width
// consecutive columns, layout [m/width][k][width]:
//
//	dst[(j/width)*k*width + p*width + j%width] = b[p*m+j]
//
// Each row of a panel is contiguous in the source, so it is copied whole.
func PackB(dst, b []float32, k, m, width int) {
	if width <= 0 {
		panic(errBadTile)
	}
	if m%width != 0 {
		panic(errColsTile)
	}
	if len(b) != k*m {
		panic(errShortB)
	}
	if len(dst) < k*m {
		panic(errShortPacked)
	}

	out := 0
	for j0 := 0; j0 < m; j0 += width {
		for p := 0; p < k; p++ {
			copy(dst[out:out+width], b[p*m+j0:p*m+j0+width])
			out += width
		}
	}
}

// Permute packs a and b for the micro-kernel of tile t. ap receives a in
// [n/Rows][k][Rows] order and bp receives b in [m/Width][k][Width] order.
func Permute(t Tile, a, b, ap, bp []float32, n, k, m int) {
	t.validate()
	PackA(ap, a, n, k, t.Rows)
	PackB(bp, b, k, m, t.Width())
}
