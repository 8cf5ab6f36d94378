package compute

import (
	"sync"
	"unsafe"
)

// Buffer is a scratch slice of float32 whose first element, and therefore
// every group of Lanes elements, starts on an Alignment byte boundary.
//
// A Buffer is owned by whoever called Get and must be released exactly once,
// normally with defer so the release happens on every exit path:
//
//	buf := compute.AllocAligned(n)
//	defer buf.Release()
//	data := buf.Float32()
type Buffer struct {
	raw  []float32 // over-allocated backing slice
	data []float32 // aligned view into raw
	pool *Pool
}

// Float32 returns the aligned view. It is nil once the buffer is released.
func (b *Buffer) Float32() []float32 {
	return b.data
}

// Len returns the number of float32 values in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Release returns the buffer to its pool. Releasing twice panics.
func (b *Buffer) Release() {
	if b.data == nil && b.raw == nil {
		panic(errDoubleFree)
	}
	b.pool.put(b)
}

// maxFree bounds the free list of each length. Buffers released beyond it
// are left to the garbage collector.
const maxFree = 4

// Pool recycles aligned buffers by length. It keeps up to maxFree released
// buffers per length and tracks the bytes handed out so tests and benchmarks
// can check that every buffer came back. Retained buffers live as long as the
// pool; the package scratch pool therefore keeps at most maxFree buffers of
// each size a blocked product has used.
type Pool struct {
	mu        sync.Mutex
	free      map[int][][]float32
	totalSize int64
	peakSize  int64
}

// NewPool creates an empty buffer pool.
func NewPool() *Pool {
	return &Pool{
		free: make(map[int][][]float32),
	}
}

// Get returns a buffer of n float32 values aligned to Alignment bytes.
// n must be a non-negative multiple of Lanes. The contents are unspecified.
func (p *Pool) Get(n int) *Buffer {
	if n < 0 || n%Lanes != 0 {
		panic(errAlignLen)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var raw []float32
	if list := p.free[n]; len(list) > 0 {
		raw = list[len(list)-1]
		p.free[n] = list[:len(list)-1]
	} else {
		raw = make([]float32, n+Lanes-1)
	}

	p.totalSize += int64(n) * 4
	if p.totalSize > p.peakSize {
		p.peakSize = p.totalSize
	}

	return &Buffer{
		raw:  raw,
		data: alignSlice(raw, n),
		pool: p,
	}
}

func (p *Pool) put(b *Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(b.data)
	if len(p.free[n]) < maxFree {
		p.free[n] = append(p.free[n], b.raw)
	}
	p.totalSize -= int64(n) * 4
	b.raw = nil
	b.data = nil
}

// Stats returns the bytes currently handed out and the peak since the pool
// was created.
func (p *Pool) Stats() (inUse, peak int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalSize, p.peakSize
}

// alignSlice returns raw[off:off+n] where off is the first index whose
// address is a multiple of Alignment. raw must hold n+Lanes-1 elements; Go
// aligns float32 slices to 4 bytes, so some offset below Lanes qualifies.
func alignSlice(raw []float32, n int) []float32 {
	if cap(raw) == 0 {
		return raw[:0:0]
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int((Alignment-addr%Alignment)%Alignment) / 4
	return raw[off : off+n : off+n]
}

// IsAligned reports whether s starts on an Alignment byte boundary.
func IsAligned(s []float32) bool {
	if cap(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))%Alignment == 0
}

var scratch = NewPool()

// AllocAligned draws an aligned buffer of n float32 values from the package
// scratch pool.
func AllocAligned(n int) *Buffer {
	return scratch.Get(n)
}

// ScratchStats reports the package scratch pool statistics.
func ScratchStats() (inUse, peak int64) {
	return scratch.Stats()
}
