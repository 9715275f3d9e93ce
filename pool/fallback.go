package pool

import "sync"

// Fallback is the single, process-wide reserved slab used only by the
// decompression allocator, and only once both passes of a Pool and its
// unpooled heap allocation have failed. It guarantees forward progress for
// reads even under extreme memory pressure, at the cost of serializing
// such readers against each other.
//
// It is reserved once at Init, sized from
// zstdcodec.EstimateDecompressContextSize(), and every caller in this
// module (zstdcodec.NewDContext) requests exactly that same fixed size —
// Fallback backs a decompression context's reservation, never a
// caller-sized output buffer, so in practice the slab never needs to grow
// past its initial reservation. Handing this slab out as scratch storage
// for an arbitrary, caller-sized destination buffer would make that
// reservation unbounded at runtime, exactly the unbounded heap growth
// under memory pressure this allocator exists to avoid; see
// zstdadapter.Decompress, which decompresses directly into the
// caller-supplied destination instead.
type Fallback struct {
	mu  sync.Mutex
	buf []byte
}

// NewFallback reserves a slab of at least size bytes.
func NewFallback(size int) *Fallback {
	if size < 1 {
		size = 1
	}

	return &Fallback{buf: make([]byte, size)}
}

// Acquire blocks until the fallback slab is available, then returns a
// Buffer tagged KindFallback covering the first size bytes of it.
//
// If size exceeds the reserved slab, the slab is grown in place as a
// defensive fallback of last resort; it is still one slab guarded by the
// same mutex, so the growth does not introduce a second lock to order
// against the pool's slot locks. Given this module's one caller always
// requests the same fixed, Init-time size (see the type doc), this path
// is not expected to trigger in normal operation.
func (f *Fallback) Acquire(size int) *Buffer {
	f.mu.Lock()

	if len(f.buf) < size {
		f.buf = make([]byte, size)
	}

	return &Buffer{Data: f.buf[:size], kind: KindFallback, fb: f}
}

// Len reports the current reserved slab size.
func (f *Fallback) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.buf)
}
