package compute

// The naive kernels are the correctness reference for every other path.
// All three accumulate into c; callers zero c to get a fresh product.

// Gemm computes c += a·b where a is (n,k), b is (k,m) and c is (n,m).
func Gemm(a, b, c []float32, n, k, m int) {
	checkDims(a, b, c, n, k, m)

	for i := 0; i < n; i++ {
		ci := c[i*m : i*m+m]
		for p := 0; p < k; p++ {
			aip := a[i*k+p]
			bp := b[p*m : p*m+m]
			for j, bpj := range bp {
				ci[j] += aip * bpj
			}
		}
	}
}

// GemmAT computes c += aᵗ·b where a is stored (k,n), b is (k,m) and c is
// (n,m). It yields a weight gradient xᵗ·dy without a transposed copy of x.
func GemmAT(a, b, c []float32, n, k, m int) {
	checkDims(a, b, c, n, k, m)

	for p := 0; p < k; p++ {
		ap := a[p*n : p*n+n]
		bp := b[p*m : p*m+m]
		for i, api := range ap {
			ci := c[i*m : i*m+m]
			for j, bpj := range bp {
				ci[j] += api * bpj
			}
		}
	}
}

// GemmBT computes c += a·bᵗ where a is (n,k), b is stored (m,k) and c is
// (n,m). It yields an input gradient dy·wᵗ without a transposed copy of w.
func GemmBT(a, b, c []float32, n, k, m int) {
	checkDims(a, b, c, n, k, m)

	for i := 0; i < n; i++ {
		ai := a[i*k : i*k+k]
		for j := 0; j < m; j++ {
			bj := b[j*k : j*k+k]
			for p, aip := range ai {
				c[i*m+j] += aip * bj[p]
			}
		}
	}
}
