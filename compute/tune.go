package compute

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Candidates are the tiles DefaultTile chooses from.
var Candidates = []Tile{TileAVX2, TileAVX512, TileNEON, TileSquare}

// Tuning product. tuneN is a multiple of the Rows and tuneM of the Width of
// every candidate.
const (
	tuneN      = 96
	tuneK      = 128
	tuneM      = 128
	tuneRounds = 3
)

// Timing is the throughput of one way of computing the tuning product.
type Timing struct {
	Tile   Tile // zero for the naive loop
	GFLOPS float64
}

// Tuning is the outcome of timing the naive loop and a set of tiles.
type Tuning struct {
	Naive   Timing
	Blocked []Timing
	Best    Tile // fastest blocked tile, zero if none was timed
}

// BlockedFaster reports whether the fastest tile beat the naive loop.
func (t Tuning) BlockedFaster() bool {
	for _, b := range t.Blocked {
		if b.Tile == t.Best {
			return b.GFLOPS > t.Naive.GFLOPS
		}
	}
	return false
}

func (t Tuning) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "naive %.2f GFLOPS", t.Naive.GFLOPS)
	for _, b := range t.Blocked {
		fmt.Fprintf(&sb, ", %s %.2f GFLOPS", b.Tile, b.GFLOPS)
	}
	return sb.String()
}

var (
	tuning   Tuning
	tuneOnce sync.Once
)

func tuned() Tuning {
	tuneOnce.Do(func() {
		tuning = Tune(Candidates)
		klog.V(2).Infof("compute: tuned %s; best tile %s, blocked faster: %v",
			tuning, tuning.Best, tuning.BlockedFaster())
	})
	return tuning
}

// DefaultTile returns the candidate tile that ran the tuning product fastest
// on this machine. The first call does the timing.
func DefaultTile() Tile {
	return tuned().Best
}

// DefaultTuning returns the timings behind DefaultTile.
func DefaultTuning() Tuning {
	return tuned()
}

// Tune times the naive loop and BlockedGemmTile with each tile on a fixed
// 96x128x128 product, keeping the best of three runs for each. Every tile
// must divide the product.
func Tune(tiles []Tile) Tuning {
	a := GenerateFloat32Range(tuneN*tuneK, 1, -1, 1)
	b := GenerateFloat32Range(tuneK*tuneM, 2, -1, 1)
	c := make([]float32, tuneN*tuneM)

	res := Tuning{
		Naive: Timing{GFLOPS: measure(func() { Gemm(a, b, c, tuneN, tuneK, tuneM) })},
	}
	fastest := -1.0
	for _, t := range tiles {
		if !CanBlock(t, tuneN, tuneM) {
			panic(errTuneTile)
		}
		g := measure(func() { BlockedGemmTile(t, a, b, c, tuneN, tuneK, tuneM) })
		res.Blocked = append(res.Blocked, Timing{Tile: t, GFLOPS: g})
		if g > fastest {
			fastest = g
			res.Best = t
		}
	}
	return res
}

func measure(run func()) float64 {
	const flop = 2 * tuneN * tuneK * tuneM
	var best time.Duration
	for r := 0; r < tuneRounds; r++ {
		start := time.Now()
		run()
		if d := time.Since(start); r == 0 || d < best {
			best = d
		}
	}
	if best <= 0 {
		best = time.Nanosecond
	}
	return flop / best.Seconds() / 1e9
}
