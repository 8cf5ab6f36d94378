package compute

// GenerateFloat32 returns size deterministic values in [0, 1) from a linear
// congruential generator. The same seed always yields the same data on every
// platform, which keeps benchmark and validation inputs reproducible.
func GenerateFloat32(size int, seed uint64) []float32 {
	data := make([]float32, size)
	rng := seed
	for i := range data {
		rng = rng*6364136223846793005 + 1442695040888963407
		// Top 24 bits fill the float32 mantissa exactly.
		data[i] = float32(rng>>40) / (1 << 24)
	}
	return data
}

// GenerateFloat32Range returns size deterministic values in [min, max).
//
//	a := compute.GenerateFloat32Range(n*k, 42, -1, 1)
func GenerateFloat32Range(size int, seed uint64, min, max float32) []float32 {
	data := GenerateFloat32(size, seed)
	scale := max - min
	for i := range data {
		data[i] = data[i]*scale + min
	}
	return data
}
