//go:build cgo

package zstdcodec

import (
	"fmt"
	"sync"

	"github.com/valyala/gozstd"

	"github.com/openzfs/zstdadapter/pool"
)

// cctxPool and dctxPool recycle gozstd's own cgo-backed contexts. gozstd's
// CCtx/DCtx already wrap a real ZSTD_CCtx/ZSTD_DCtx and are documented as
// expensive to create, so — exactly like the teacher's zstdEncoderPool and
// zstdDecoderPool for the pure-Go backend — we keep a warm set around
// rather than paying cgo context setup on every call. This is object reuse
// only; the memory-bounding reservation is the separate pool.Buffer held
// alongside each context (see codec.go's package doc).
var cctxPool = sync.Pool{
	New: func() any { return gozstd.NewCCtx() },
}

var dctxPool = sync.Pool{
	New: func() any { return gozstd.NewDCtx() },
}

type cgoCContext struct {
	ctx  *gozstd.CCtx
	resv *pool.Buffer
}

// NewCContext reserves a compression-context-sized budget from p before
// handing out a pooled cgo context. If p has no slot and no heap fallback
// left, it returns ErrContextExhausted rather than creating an
// unaccounted-for context.
func NewCContext(p *pool.Pool) (CContext, error) {
	resv := p.Acquire(EstimateCompressContextSize())
	if resv == nil {
		return nil, ErrContextExhausted
	}

	ctx, _ := cctxPool.Get().(*gozstd.CCtx)

	return &cgoCContext{ctx: ctx, resv: resv}, nil
}

func (c *cgoCContext) Compress(dst, src []byte, cookie int32) ([]byte, error) {
	return c.ctx.CompressLevel(dst, src, int(cookie)), nil
}

func (c *cgoCContext) Close() {
	cctxPool.Put(c.ctx)
	pool.Release(c.resv)
}

type cgoDContext struct {
	ctx  *gozstd.DCtx
	resv *pool.Buffer
}

// NewDContext reserves a decompression-context-sized budget from d. d is a
// pool.DecompressAllocator, so Acquire never returns nil: this call cannot
// fail for want of memory, which is the guarantee component C exists to
// provide on the read path.
func NewDContext(d *pool.DecompressAllocator) (DContext, error) {
	resv := d.Acquire(EstimateDecompressContextSize())

	ctx, _ := dctxPool.Get().(*gozstd.DCtx)

	return &cgoDContext{ctx: ctx, resv: resv}, nil
}

func (d *cgoDContext) Decompress(dst, src []byte) ([]byte, error) {
	out, err := d.ctx.Decompress(dst, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return out, nil
}

func (d *cgoDContext) Close() {
	dctxPool.Put(d.ctx)
	pool.Release(d.resv)
}
