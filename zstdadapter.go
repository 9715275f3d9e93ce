package zstdadapter

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/openzfs/zstdadapter/frame"
	"github.com/openzfs/zstdadapter/internal/zstdcodec"
	"github.com/openzfs/zstdadapter/level"
	"github.com/openzfs/zstdadapter/pool"
)

// FormatVersion is written into every header's version field. It is
// monotonically assigned; bumping it is how a future change to this
// adapter's framing would be distinguished from blocks written by an older
// version, without touching the on-disk layout itself.
const FormatVersion = 1

// ErrNotInitialized is returned by Decompress and related calls if Init has
// not been called, or Fini has since been called, when a prior successful
// Init was required for the guaranteed-progress fallback to exist.
var ErrNotInitialized = errors.New("zstdadapter: Init has not been called")

var (
	stateMu         sync.Mutex
	compressPool    *pool.Pool
	decompressAlloc *pool.DecompressAllocator
	initialized     bool
)

// Init allocates the pool arrays and the fallback slab. It is idempotent:
// calling it again while already initialized is a no-op.
func Init() error {
	stateMu.Lock()
	defer stateMu.Unlock()

	if initialized {
		return nil
	}

	n := pool.DefaultPoolSize()
	compressPool = pool.NewPool(n)

	decompressPool := pool.NewPool(n)
	pageSize := os.Getpagesize()
	fallbackSize := (zstdcodec.EstimateDecompressContextSize() + pageSize - 1) / pageSize * pageSize
	fallback := pool.NewFallback(fallbackSize)
	decompressAlloc = pool.NewDecompressAllocator(decompressPool, fallback)

	initialized = true

	return nil
}

// Fini releases the pools and the fallback slab. It is idempotent after one
// successful Init; calling it before Init, or more than once, is harmless.
func Fini() {
	stateMu.Lock()
	defer stateMu.Unlock()

	compressPool = nil
	decompressAlloc = nil
	initialized = false
}

// Compress compresses src into dst, prefixed with the block header, at the
// given logical level. It returns the number of bytes written to dst.
//
// Compress never fails: dst_cap preconditions, context-creation failure,
// and any codec error are all converted into the "declined" sentinel,
// returning len(src) to tell the caller to store the block raw.
//
// The codec is asked to write directly into dst's backing array past the
// header region; dst is already the caller-sized destination, so there is
// no separate scratch buffer to acquire from the pool here (the pool is
// consulted by zstdcodec.NewCContext instead, to bound the compression
// context itself — see internal/zstdcodec/codec.go).
func Compress(dst, src []byte, lvl level.Logical) int {
	if len(dst) < frame.Size || len(dst) > len(src) {
		return len(src)
	}

	stateMu.Lock()
	cp := compressPool
	stateMu.Unlock()

	if cp == nil {
		return len(src)
	}

	normalized := level.Normalize(lvl)
	cookie := level.CookieOf(normalized)

	cctx, err := zstdcodec.NewCContext(cp)
	if err != nil {
		return len(src)
	}
	defer cctx.Close()

	budget := len(dst) - frame.Size

	out, err := cctx.Compress(dst[frame.Size:frame.Size:len(dst)], src, cookie)
	if err != nil || len(out) > budget {
		return len(src)
	}

	frame.Encode(dst, uint32(len(out)), FormatVersion, normalized)
	// out may or may not alias dst's backing array (the codec can grow
	// past the capacity we handed it), so copy unconditionally; copying a
	// slice onto itself is a no-op.
	copy(dst[frame.Size:], out)

	return frame.Size + len(out)
}

// Decompress decompresses a well-formed frame from src into dst.
//
// It requires len(dst) >= len(src). Given a prior successful Init, it is
// designed to never fail purely for want of memory; it can still fail if
// the frame itself is corrupt, or if Init was never called (or Fini has
// since been called).
//
// The codec is asked to write directly into dst, which is already the
// caller-sized destination. The pool/fallback allocator is consulted by
// zstdcodec.NewDContext instead, to guarantee the decompression context
// itself can always be created — it is never handed out as output-buffer
// storage (see internal/zstdcodec/codec.go and pool/fallback.go).
func Decompress(dst, src []byte) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: destination smaller than source", frame.ErrHeaderInvalid)
	}

	payloadLen, _, _, err := frame.Decode(src)
	if err != nil {
		log.Printf("zstdadapter: rejected corrupt frame: %v", err)

		return err
	}

	stateMu.Lock()
	da := decompressAlloc
	stateMu.Unlock()

	if da == nil {
		return ErrNotInitialized
	}

	dctx, err := zstdcodec.NewDContext(da)
	if err != nil {
		return fmt.Errorf("zstdadapter: create decompress context: %w", err)
	}
	defer dctx.Close()

	payload := src[frame.Size : frame.Size+int(payloadLen)]

	out, err := dctx.Decompress(dst[:0:len(dst)], payload)
	if err != nil {
		return fmt.Errorf("zstdadapter: %w", err)
	}

	// out may or may not alias dst's backing array (the codec can grow
	// past the capacity we handed it), so copy unconditionally; copying a
	// slice onto itself is a no-op.
	copy(dst, out)

	return nil
}

// DecompressAndReportLevel decompresses src into dst like Decompress, and
// additionally reports the logical level the block was stored at.
func DecompressAndReportLevel(dst, src []byte) (level.Logical, error) {
	lvl, err := GetLevel(src)
	if err != nil {
		return 0, err
	}

	if err := Decompress(dst, src); err != nil {
		return 0, err
	}

	return lvl, nil
}

// GetLevel inspects a frame's header and reports its logical compression
// level without allocating or touching the codec.
func GetLevel(src []byte) (level.Logical, error) {
	_, _, lvl, err := frame.Decode(src)
	if err != nil {
		log.Printf("zstdadapter: rejected corrupt frame: %v", err)

		return 0, err
	}

	return lvl, nil
}
