package compute

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBackendsAgree(t *testing.T) {
	sizes := []struct {
		name    string
		n, k, m int
	}{
		{"divisible", 12, 9, 64},
		{"ragged", 5, 7, 11},
		{"row vector", 1, 4, 3},
		{"empty reduction", 2, 0, 3},
		{"empty output", 0, 3, 4},
	}
	backends := []struct {
		name string
		mm   Matmul
	}{
		{"gonum", Gonum{}},
		{"blocked", Blocked{Tile: TileAVX2}},
		{"blocked-neon", Blocked{Tile: TileNEON}},
		{"tuned", Tuned{}},
	}

	rng := rand.New(rand.NewSource(42))
	for _, sz := range sizes {
		n, k, m := sz.n, sz.k, sz.m
		a := randomSlice(rng, n*k)
		b := randomSlice(rng, k*m)
		at := transpose(a, n, k)
		bt := transpose(b, k, m)
		c0 := randomSlice(rng, n*m)

		variants := []struct {
			name string
			run  func(mm Matmul, c []float32)
		}{
			{"Gemm", func(mm Matmul, c []float32) { mm.Gemm(a, b, c, n, k, m) }},
			{"GemmAT", func(mm Matmul, c []float32) { mm.GemmAT(at, b, c, n, k, m) }},
			{"GemmBT", func(mm Matmul, c []float32) { mm.GemmBT(a, bt, c, n, k, m) }},
		}

		for _, be := range backends {
			for _, v := range variants {
				t.Run(sz.name+"/"+be.name+"/"+v.name, func(t *testing.T) {
					want := append([]float32(nil), c0...)
					v.run(Naive{}, want)
					got := append([]float32(nil), c0...)
					v.run(be.mm, got)
					if diff := cmp.Diff(want, got, approx); diff != "" {
						t.Errorf("mismatch (-naive +%s):\n%s", be.name, diff)
					}
				})
			}
		}
	}
}

func TestGonumPreconditions(t *testing.T) {
	defer func() {
		if r := recover(); r != errShortC {
			t.Errorf("panic = %v, want %q", r, errShortC)
		}
	}()
	Gonum{}.Gemm(make([]float32, 4), make([]float32, 4), make([]float32, 3), 2, 2, 2)
}

func TestBackendByName(t *testing.T) {
	for _, name := range []string{"naive", "blocked", "tuned", "gonum"} {
		if _, ok := Backend(name); !ok {
			t.Errorf("Backend(%q) not found", name)
		}
	}
	if _, ok := Backend("cuda"); ok {
		t.Error(`Backend("cuda") should not exist`)
	}
}
