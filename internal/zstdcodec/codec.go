// Package zstdcodec is the opaque Zstd codec entry surface this adapter
// builds on. It is intentionally the one place in the module that knows
// about an actual Zstd implementation; everything above it (level, frame,
// pool, and the root package's facade) only ever talks to the small
// interface defined here.
//
// Two independent backends implement that interface, selected by build
// tag exactly as the teacher's compress package splits zstd.go's
// production path across compress/zstd_cgo.go and compress/zstd_pure.go:
//
//   - zstd_cgo.go (build tag "cgo"): github.com/valyala/gozstd, a real cgo
//     binding to the Zstd C library.
//   - zstd_pure.go (build tag "!cgo"): github.com/klauspost/compress/zstd,
//     a pure-Go implementation, with encoders/decoders pooled the same way
//     the teacher pools them.
//
// # Context creation goes through the adapter allocator
//
// Neither backend's Go API exposes a pluggable-allocator hook: gozstd's
// CCtx/DCtx and klauspost's Encoder/Decoder always manage their own
// internal memory, unlike the C library's ZSTD_customMem, which is what
// the allocator this package sits on top of (the pool package) was
// originally modeled after. That means a context's actual internal
// memory can never literally be carved out of pool.Pool/pool.Fallback.
//
// What NewCContext/NewDContext do instead is reserve a budget-sized
// pool.Buffer, sized to this package's EstimateCompressContextSize /
// EstimateDecompressContextSize, for the lifetime of the context, and
// release it on Close. This preserves the property the allocator exists
// to provide — a bounded number of concurrently live contexts on the
// compression side, and a guaranteed-to-succeed reservation (pool then
// fallback) on the decompression side — without pretending the codec's
// own internal allocations are routed through it. The underlying codec
// object (the *zstd.Encoder, *gozstd.CCtx, etc.) is still recycled
// through its own small sync.Pool, exactly as the teacher recycles its
// codec objects; that is a distinct, orthogonal concern (object reuse)
// from the memory-bounding concern pool.Pool/pool.Fallback address.
package zstdcodec

import "errors"

// ErrCodec wraps any failure reported by the underlying Zstd implementation
// on a call that the facade treats as a hard error (decompression) rather
// than something to convert into the "store raw" sentinel.
var ErrCodec = errors.New("zstdcodec: codec error")

// ErrContextExhausted is returned by NewCContext when the compression-side
// pool has no slot and no heap fallback left to back a new context's
// reservation. The facade converts this into its "decline to compress,
// store raw" sentinel rather than propagating it further.
var ErrContextExhausted = errors.New("zstdcodec: no memory available for compression context")

// CContext is a reusable compression context. Compress may be called
// exactly once before Close returns it to whatever pool produced it.
type CContext interface {
	// Compress compresses src into dst (an append-style destination
	// slice — its existing length is the compressed prefix, if any, and
	// its capacity bounds how much can be written before the backend
	// would need to grow it) using the given codec-level cookie. It
	// returns dst extended by the compressed bytes.
	Compress(dst, src []byte, cookie int32) ([]byte, error)
	// Close releases the context's pool reservation and returns the
	// underlying codec object to its reuse pool. It must be called
	// exactly once per successful NewCContext.
	Close()
}

// DContext is a reusable decompression context.
type DContext interface {
	// Decompress decompresses src into dst (append-style, as with
	// CContext.Compress) and returns the resulting slice.
	Decompress(dst, src []byte) ([]byte, error)
	Close()
}

// EstimateDecompressContextSize returns the approximate memory footprint
// of one decompression context, used to size both the adapter's
// decompression pool reservations and its single fallback slab. Neither
// backend exposes the C library's ZSTD_estimateDCtxSize() through its Go
// API, so this is a conservative, documented constant based on the real
// Zstd decompressor's default window size (a DCtx is dominated by its
// window buffer, typically well under 1 MiB at the default window log).
func EstimateDecompressContextSize() int {
	const estimatedDCtxSize = 256 * 1024

	return estimatedDCtxSize
}

// EstimateCompressContextSize returns the approximate memory footprint of
// one compression context, used to size the adapter's compression pool
// reservations. A CCtx is typically smaller than a DCtx at the same level
// since it has no window buffer to retain across calls in this adapter's
// one-shot usage pattern.
func EstimateCompressContextSize() int {
	const estimatedCCtxSize = 128 * 1024

	return estimatedCCtxSize
}
