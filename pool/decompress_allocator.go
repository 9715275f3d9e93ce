package pool

// DecompressAllocator wraps a Pool with a Fallback slab to implement the
// "decompression must never fail for want of memory" guarantee: if the
// wrapped Pool cannot satisfy a request through either of its two passes
// or its unpooled heap allocation, Acquire blocks on the single fallback
// mutex instead of returning nil.
//
// The compression side intentionally has no equivalent: a compression
// allocation failure is allowed to propagate up as "decline to compress,
// store raw" (see the root package's Compress), so only the decompression
// allocator is ever constructed with a Fallback.
type DecompressAllocator struct {
	pool     *Pool
	fallback *Fallback
}

// NewDecompressAllocator builds a DecompressAllocator over an existing
// Pool and Fallback, both typically created once at Init.
func NewDecompressAllocator(p *Pool, f *Fallback) *DecompressAllocator {
	return &DecompressAllocator{pool: p, fallback: f}
}

// Acquire returns a Buffer of exactly size bytes. It never returns nil.
func (d *DecompressAllocator) Acquire(size int) *Buffer {
	if b := d.pool.Acquire(size); b != nil {
		return b
	}

	return d.fallback.Acquire(size)
}
