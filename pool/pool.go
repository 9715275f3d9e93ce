// Package pool implements the bounded, slot-based allocator that backs
// compression and decompression contexts in this adapter.
//
// General-purpose heap allocation is assumed expensive in the adapter's
// target environment, and decompression must never fail purely for want of
// memory. Two building blocks provide that: Pool, a fixed-size array of
// mutex-guarded slots that recycles recently used buffers (modeled on the
// teacher's sync.Pool-based ByteBufferPool, but with explicit slot
// ownership and idleness timing instead of GC-driven eviction), and
// Fallback, a single reserved slab used only as a last resort.
package pool

import (
	"runtime"
	"sync"
	"time"
)

// SlotTimeout is how long an idle pooled buffer may sit unclaimed before a
// later visitor is allowed to reclaim its slot.
const SlotTimeout = 120 * time.Second

// Kind identifies how a Buffer was obtained, and therefore how it must be
// released. It plays the role the source's allocator-header discriminator
// plays: the consumer never needs to know a Buffer's provenance beyond
// calling Release on it.
type Kind uint8

const (
	// KindHeap buffers were allocated directly and are simply dropped;
	// Go's garbage collector reclaims them.
	KindHeap Kind = iota
	// KindPooled buffers are owned by a Pool slot, whose mutex is held
	// for the duration of use and released by Release.
	KindPooled
	// KindFallback buffers come from a single reserved Fallback slab,
	// guarded by one mutex, reached only on the decompression path.
	KindFallback
)

// Buffer is a handle to allocator-owned memory plus enough metadata to
// release it correctly. It is the Go-idiomatic stand-in for the source's
// "header immediately before the buffer, recovered by fixed negative
// offset on free": Go handles already carry side metadata, so there is no
// pointer arithmetic to perform — Release just switches on Kind.
type Buffer struct {
	// Data is the usable buffer. Its length is exactly the size that was
	// requested; its capacity may be larger when a pooled slot was reused.
	Data []byte

	kind Kind
	slot *slot
	fb   *Fallback
}

// Kind reports how b was obtained.
func (b *Buffer) Kind() Kind { return b.kind }

// Release returns b to whatever owns it. It is always safe to call,
// including with a nil Buffer.
func Release(b *Buffer) {
	if b == nil {
		return
	}

	switch b.kind {
	case KindHeap:
		// Nothing to do; the garbage collector reclaims it.
	case KindPooled:
		b.slot.mu.Unlock()
	case KindFallback:
		b.fb.mu.Unlock()
	}
}

type slot struct {
	mu       sync.Mutex
	buf      []byte
	capacity int
	deadline time.Time
	occupied bool
}

// Pool is a fixed-size array of recyclable, mutex-guarded buffer slots.
//
// Acquire never blocks: if no slot can satisfy a request it falls through to
// an unpooled heap allocation (see the heapAlloc field), and returns nil only
// when that allocation also fails.
type Pool struct {
	slots []*slot

	// heapAlloc performs the pass-3 "unpooled fallback" allocation. It is
	// a field, not a bare make() call, so tests can simulate a
	// resource-constrained heap: a real kernel allocator taken in
	// non-blocking mode can return nil under memory pressure, a condition
	// Go's virtual-memory make() does not practically reproduce. Nil
	// return here is what lets DecompressAllocator exercise its
	// guaranteed-progress fallback deterministically in tests.
	heapAlloc func(size int) []byte
}

// SetHeapAllocForTest overrides the pass-3 unpooled fallback allocation.
// It exists only so callers outside this package (e.g.
// internal/zstdcodec's tests) can simulate heap exhaustion the same way
// this package's own tests do; it is not meant for production use.
func (p *Pool) SetHeapAllocForTest(fn func(size int) []byte) {
	p.heapAlloc = fn
}

// DefaultPoolSize returns max(16, 4*NumCPU), the slot count spec.md
// mandates for pools created by Init.
func DefaultPoolSize() int {
	n := 4 * runtime.NumCPU()
	if n < 16 {
		n = 16
	}

	return n
}

// NewPool creates a Pool with n slots, all initially empty.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}

	slots := make([]*slot, n)
	for i := range slots {
		slots[i] = &slot{}
	}

	return &Pool{
		slots:     slots,
		heapAlloc: func(size int) []byte { return make([]byte, size) },
	}
}

// Acquire returns a Buffer of exactly size bytes, following the two-pass
// scan described by the adapter's allocator contract:
//
//  1. Opportunistic reuse: the first slot encountered (via non-blocking
//     try-lock) whose buffer has capacity >= size is claimed; slots found
//     idle past their deadline are freed and released as the scan passes
//     over them.
//  2. Fresh allocation: if nothing was claimed, the first empty slot found
//     via try-lock gets a freshly allocated buffer of exactly size.
//  3. Unpooled fallback: if both passes come up empty (every slot
//     contended, or none large enough and none empty), allocate directly
//     off the heap, tagged KindHeap.
//
// The returned Buffer's mutex (when pooled) remains held until Release.
func (p *Pool) Acquire(size int) *Buffer {
	now := time.Now()

	var claimed *Buffer

	for _, s := range p.slots {
		if !s.mu.TryLock() {
			continue // contended; another consumer owns this slot
		}

		switch {
		case claimed == nil && s.occupied && s.capacity >= size:
			s.deadline = now.Add(SlotTimeout)
			claimed = &Buffer{Data: s.buf[:size], kind: KindPooled, slot: s}
			// Mutex intentionally stays held to denote in-use.
		case s.occupied && now.After(s.deadline):
			s.buf = nil
			s.occupied = false
			s.capacity = 0
			s.mu.Unlock()
		default:
			s.mu.Unlock()
		}
	}

	if claimed != nil {
		return claimed
	}

	for _, s := range p.slots {
		if !s.mu.TryLock() {
			continue
		}

		if s.occupied {
			s.mu.Unlock()
			continue
		}

		buf := make([]byte, size)
		s.buf = buf
		s.capacity = size
		s.occupied = true
		s.deadline = now.Add(SlotTimeout)

		return &Buffer{Data: s.buf, kind: KindPooled, slot: s}
	}

	if buf := p.heapAlloc(size); buf != nil {
		return &Buffer{Data: buf, kind: KindHeap}
	}

	return nil
}
