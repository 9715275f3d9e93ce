//go:build !cgo

package zstdcodec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/openzfs/zstdadapter/pool"
)

// klauspost/compress/zstd's encoder only exposes four named speed
// presets, not the arbitrary 1..19 / fast-1..fast-1000 scale the codec
// dependency surface is specified against. cookieToEncoderLevel buckets an
// arbitrary cookie onto the nearest preset; this is a genuine limitation
// of the pure-Go backend (the cgo backend in zstd_cgo.go has no such
// restriction), documented here rather than hidden.
func cookieToEncoderLevel(cookie int32) zstd.EncoderLevel {
	switch {
	case cookie >= 16:
		return zstd.SpeedBestCompression
	case cookie >= 6:
		return zstd.SpeedBetterCompression
	case cookie >= 1:
		return zstd.SpeedDefault
	default: // cookie <= 0: every fast level maps to the fastest preset.
		return zstd.SpeedFastest
	}
}

// encoderPools holds one sync.Pool per speed preset, following the
// teacher's zstdEncoderPool pattern of warming up and reusing encoders
// rather than paying allocation cost per call. This is object reuse only;
// the memory-bounding reservation is the separate pool.Buffer held
// alongside each context (see codec.go's package doc).
var encoderPools = map[zstd.EncoderLevel]*sync.Pool{
	zstd.SpeedFastest:           newEncoderPool(zstd.SpeedFastest),
	zstd.SpeedDefault:           newEncoderPool(zstd.SpeedDefault),
	zstd.SpeedBetterCompression: newEncoderPool(zstd.SpeedBetterCompression),
	zstd.SpeedBestCompression:   newEncoderPool(zstd.SpeedBestCompression),
}

func newEncoderPool(lvl zstd.EncoderLevel) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(lvl),
				zstd.WithEncoderCRC(false),
			)
			if err != nil {
				// Should never happen with valid, constant options.
				panic(fmt.Sprintf("zstdcodec: failed to create encoder: %v", err))
			}

			return enc
		},
	}
}

// decoderPool mirrors the teacher's zstdDecoderPool: decoding is
// level-independent, so a single pool suffices.
var decoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstdcodec: failed to create decoder: %v", err))
		}

		return dec
	},
}

type pureCContext struct {
	resv *pool.Buffer
}

// NewCContext reserves a compression-context-sized budget from p before
// returning a context. The pure-Go backend has no per-call setup cost
// beyond picking the pooled encoder for the requested level, so
// "creation" here is nominal beyond the reservation itself; Compress does
// the encoder pool borrow. If p has no slot and no heap fallback left,
// this returns ErrContextExhausted rather than creating an
// unaccounted-for context.
func NewCContext(p *pool.Pool) (CContext, error) {
	resv := p.Acquire(EstimateCompressContextSize())
	if resv == nil {
		return nil, ErrContextExhausted
	}

	return &pureCContext{resv: resv}, nil
}

func (c *pureCContext) Compress(dst, src []byte, cookie int32) ([]byte, error) {
	lvl := cookieToEncoderLevel(cookie)

	encPool := encoderPools[lvl]

	enc, _ := encPool.Get().(*zstd.Encoder)
	defer encPool.Put(enc)

	return enc.EncodeAll(src, dst), nil
}

func (c *pureCContext) Close() {
	pool.Release(c.resv)
}

type pureDContext struct {
	resv *pool.Buffer
}

// NewDContext reserves a decompression-context-sized budget from d. d is a
// pool.DecompressAllocator, so Acquire never returns nil: this call cannot
// fail for want of memory, which is the guarantee component C exists to
// provide on the read path.
func NewDContext(d *pool.DecompressAllocator) (DContext, error) {
	resv := d.Acquire(EstimateDecompressContextSize())

	return &pureDContext{resv: resv}, nil
}

func (d *pureDContext) Decompress(dst, src []byte) ([]byte, error) {
	dec, _ := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)

	out, err := dec.DecodeAll(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return out, nil
}

func (d *pureDContext) Close() {
	pool.Release(d.resv)
}
