package compute

// The micro-kernels keep their partial sums in scalar locals so the compiler
// can hold them in registers for the whole reduction. A Rows x Width tile is
// covered by small register blocks of four output columns; each reduction
// step loads a few A and B values once and reuses them for every product in
// the block.

// kernel computes one Rows x Width block of c from a packed A panel and a
// packed B panel. ap holds k groups of Rows values and bp holds k groups of
// Width values. The finished block is added into c starting at (i0, j0).
func kernel(t Tile, ap, bp, c []float32, k, m, i0, j0 int) {
	ra, cw := t.Rows, t.Width()
	ap = ap[:k*ra]
	bp = bp[:k*cw]

	i := 0
	for ; i+2 <= ra; i += 2 {
		for j := 0; j < cw; j += 4 {
			block2x4(ap[i:], bp[j:], c[(i0+i)*m+j0+j:], k, ra, cw, m)
		}
	}
	if i < ra {
		for j := 0; j < cw; j += 4 {
			block1x4(ap[i:], bp[j:], c[(i0+i)*m+j0+j:], k, ra, cw)
		}
	}
}

// block2x4 adds the 2x4 product of two packed A rows and four packed B
// columns into c. lda and ldb are the packed group sizes and ldc is the row
// stride of c.
func block2x4(a, b, c []float32, k, lda, ldb, ldc int) {
	var (
		c00, c01, c02, c03 float32
		c10, c11, c12, c13 float32
	)
	for p := 0; p < k; p++ {
		av := a[p*lda : p*lda+2 : p*lda+2]
		bv := b[p*ldb : p*ldb+4 : p*ldb+4]
		b0, b1, b2, b3 := bv[0], bv[1], bv[2], bv[3]

		a0 := av[0]
		c00 += a0 * b0
		c01 += a0 * b1
		c02 += a0 * b2
		c03 += a0 * b3

		a1 := av[1]
		c10 += a1 * b0
		c11 += a1 * b1
		c12 += a1 * b2
		c13 += a1 * b3
	}

	r0 := c[:4:4]
	r0[0] += c00
	r0[1] += c01
	r0[2] += c02
	r0[3] += c03

	r1 := c[ldc : ldc+4 : ldc+4]
	r1[0] += c10
	r1[1] += c11
	r1[2] += c12
	r1[3] += c13
}

// block1x4 is block2x4 for a single row.
func block1x4(a, b, c []float32, k, lda, ldb int) {
	var c0, c1, c2, c3 float32
	for p := 0; p < k; p++ {
		a0 := a[p*lda]
		bv := b[p*ldb : p*ldb+4 : p*ldb+4]
		c0 += a0 * bv[0]
		c1 += a0 * bv[1]
		c2 += a0 * bv[2]
		c3 += a0 * bv[3]
	}

	r := c[:4:4]
	r[0] += c0
	r[1] += c1
	r[2] += c2
	r[3] += c3
}

// kernel3x4 is kernel unrolled for TileAVX2. All three rows share each load
// of B, so every reduction step does 24 flops for 7 loads.
func kernel3x4(ap, bp, c []float32, k, m, i0, j0 int) {
	const ra, cw = 3, 4 * Lanes
	ap = ap[:k*ra]
	bp = bp[:k*cw]

	for j := 0; j < cw; j += 4 {
		b := bp[j:]
		var (
			c00, c01, c02, c03 float32
			c10, c11, c12, c13 float32
			c20, c21, c22, c23 float32
		)
		for p := 0; p < k; p++ {
			av := ap[p*ra : p*ra+ra : p*ra+ra]
			bv := b[p*cw : p*cw+4 : p*cw+4]
			b0, b1, b2, b3 := bv[0], bv[1], bv[2], bv[3]

			a0 := av[0]
			c00 += a0 * b0
			c01 += a0 * b1
			c02 += a0 * b2
			c03 += a0 * b3

			a1 := av[1]
			c10 += a1 * b0
			c11 += a1 * b1
			c12 += a1 * b2
			c13 += a1 * b3

			a2 := av[2]
			c20 += a2 * b0
			c21 += a2 * b1
			c22 += a2 * b2
			c23 += a2 * b3
		}

		r0 := c[(i0+0)*m+j0+j : (i0+0)*m+j0+j+4]
		r0[0] += c00
		r0[1] += c01
		r0[2] += c02
		r0[3] += c03

		r1 := c[(i0+1)*m+j0+j : (i0+1)*m+j0+j+4]
		r1[0] += c10
		r1[1] += c11
		r1[2] += c12
		r1[3] += c13

		r2 := c[(i0+2)*m+j0+j : (i0+2)*m+j0+j+4]
		r2[0] += c20
		r2[1] += c21
		r2[2] += c22
		r2[3] += c23
	}
}
