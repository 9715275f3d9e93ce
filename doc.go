// Package zstdadapter integrates a Zstandard codec into a copy-on-write
// filesystem's per-block compression path.
//
// The codec itself — github.com/valyala/gozstd on cgo builds,
// github.com/klauspost/compress/zstd otherwise, both selected transparently
// by internal/zstdcodec — is treated as an external, opaque library. This
// package supplies the engineering around it:
//
//   - level: bidirectional translation between stable, on-disk logical
//     compression levels and the codec's signed level cookies.
//   - frame: the fixed 8-byte big-endian header every compressed block
//     carries, recording payload length, format version, and level.
//   - pool: a bounded, slot-based allocator plus a single reserved
//     fallback slab, so decompression never fails for want of memory.
//
// # Basic usage
//
//	if err := zstdadapter.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer zstdadapter.Fini()
//
//	dst := make([]byte, len(src))
//	n := zstdadapter.Compress(dst, src, level.Default)
//	if n == len(src) {
//	    // Compression declined; store src raw.
//	}
//
//	out := make([]byte, len(src))
//	if err := zstdadapter.Decompress(out, dst[:n]); err != nil {
//	    log.Fatal(err)
//	}
//
// # Failure policy
//
// Compress is best-effort: any failure — a too-small destination, a codec
// error, resource exhaustion — is converted into the "store raw" sentinel
// (returning len(src)) rather than propagated. Decompress is the opposite:
// given a well-formed frame and a prior successful Init, it is designed to
// never fail for want of memory, at the cost of serializing callers on a
// single reserved slab under extreme pressure. Corrupt frames still return
// a distinguishable error from Decompress.
package zstdadapter
