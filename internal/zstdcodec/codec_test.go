package zstdcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openzfs/zstdadapter/pool"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		cookie int32
		data   []byte
	}{
		{"default level, text", 3, bytes.Repeat([]byte("abcd"), 1024)},
		{"fast level, zeros", -3, make([]byte, 4096)},
		{"high level", 19, bytes.Repeat([]byte{0x42}, 8192)},
	}

	cp := pool.NewPool(pool.DefaultPoolSize())
	da := pool.NewDecompressAllocator(pool.NewPool(pool.DefaultPoolSize()), pool.NewFallback(EstimateDecompressContextSize()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cctx, err := NewCContext(cp)
			require.NoError(t, err)
			defer cctx.Close()

			compressed, err := cctx.Compress(nil, tt.data, tt.cookie)
			require.NoError(t, err)

			dctx, err := NewDContext(da)
			require.NoError(t, err)
			defer dctx.Close()

			decompressed, err := dctx.Decompress(nil, compressed)
			require.NoError(t, err)
			assert.Equal(t, tt.data, decompressed)
		})
	}
}

func TestDecompress_CorruptInput(t *testing.T) {
	da := pool.NewDecompressAllocator(pool.NewPool(pool.DefaultPoolSize()), pool.NewFallback(EstimateDecompressContextSize()))

	dctx, err := NewDContext(da)
	require.NoError(t, err)
	defer dctx.Close()

	_, err = dctx.Decompress(nil, []byte("not a zstd frame"))
	assert.Error(t, err)
}

func TestNewCContext_ExhaustedPoolDeclines(t *testing.T) {
	// A pool with one slot, held, and a simulated heap allocation failure
	// (pool.Pool's unpooled fallback): NewCContext must report
	// ErrContextExhausted rather than fabricate an unaccounted-for
	// context. See pool.TestPool_HeapExhaustionReturnsNil for the same
	// simulation technique at the pool layer.
	cp := pool.NewPool(1)
	cp.SetHeapAllocForTest(func(int) []byte { return nil })

	held := cp.Acquire(EstimateCompressContextSize())
	require.NotNil(t, held)

	cctx, err := NewCContext(cp)
	assert.Nil(t, cctx)
	assert.ErrorIs(t, err, ErrContextExhausted)

	pool.Release(held)
}

func TestEstimateDecompressContextSize(t *testing.T) {
	assert.Greater(t, EstimateDecompressContextSize(), 0)
}

func TestEstimateCompressContextSize(t *testing.T) {
	assert.Greater(t, EstimateCompressContextSize(), 0)
}
