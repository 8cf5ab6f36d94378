package compute

import "fmt"

// Packing geometry
const (
	// Lanes is the number of float32 values in one 256-bit vector. Packed
	// panels and tile widths are whole multiples of it.
	Lanes = 8

	// Alignment is the byte alignment of every scratch buffer. One vector
	// of Lanes float32 values starts on each Alignment boundary.
	Alignment = Lanes * 4
)

// Tile describes the register block computed by one micro-kernel call:
// Rows output rows by Vecs vectors of Lanes columns each.
type Tile struct {
	Rows int // RA: rows of A broadcast per reduction step
	Vecs int // RB: vectors of B loaded per reduction step
}

// Tile presets. The names record the register file each shape was first
// sized for; the kernels are plain Go, so DefaultTile picks among them by
// timing rather than by instruction set.
var (
	// TileAVX2 is the 3x4 block, twelve 8-lane vectors of output. It has an
	// unrolled kernel.
	TileAVX2 = Tile{Rows: 3, Vecs: 4}

	// TileAVX512 doubles the rows of TileAVX2.
	TileAVX512 = Tile{Rows: 6, Vecs: 4}

	// TileNEON is a narrower 4x2 block.
	TileNEON = Tile{Rows: 4, Vecs: 2}

	// TileSquare is a 4x4 block: even rows, so no single-row tail.
	TileSquare = Tile{Rows: 4, Vecs: 4}
)

// Width returns the number of output columns covered by the tile.
func (t Tile) Width() int {
	return t.Vecs * Lanes
}

func (t Tile) String() string {
	return fmt.Sprintf("%dx%d", t.Rows, t.Width())
}

func (t Tile) validate() {
	if t.Rows <= 0 || t.Vecs <= 0 {
		panic(errBadTile)
	}
}
