package compute

// ValidateBlocked runs the blocked driver with tile t and the naive Gemm on
// the same deterministic inputs and compares the results. The output starts
// from non-zero values so that the accumulate contract is checked too.
//
// n and m must satisfy CanBlock(t, n, m).
func ValidateBlocked(t Tile, n, k, m int, seed uint64, tol ToleranceConfig) VerificationResult {
	a := GenerateFloat32Range(n*k, seed, -1, 1)
	b := GenerateFloat32Range(k*m, seed+1, -1, 1)
	c := GenerateFloat32Range(n*m, seed+2, -1, 1)

	want := append([]float32(nil), c...)
	Gemm(a, b, want, n, k, m)

	got := append([]float32(nil), c...)
	BlockedGemmTile(t, a, b, got, n, k, m)

	return Verify(want, got, tol)
}
