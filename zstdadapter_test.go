package zstdadapter

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openzfs/zstdadapter/frame"
	"github.com/openzfs/zstdadapter/level"
)

func TestMain_InitFini(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	// Idempotent.
	require.NoError(t, Init())
}

func TestCompress_DeclinesWithoutInit(t *testing.T) {
	Fini() // ensure uninitialized

	src := bytes.Repeat([]byte("x"), 64)
	dst := make([]byte, 64)
	n := Compress(dst, src, level.Default)
	assert.Equal(t, len(src), n, "Compress must decline, not panic, when Init was never called")
}

func TestRoundTrip_VariousLevels(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	levels := []level.Logical{
		level.Default, level.Inherit, level.Level1, level.Level3,
		level.Level19, level.Fast1, level.Fast3, level.Fast1000,
	}

	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 200)

	for _, lvl := range levels {
		t.Run(lvl.String(), func(t *testing.T) {
			dst := make([]byte, len(data))
			n := Compress(dst, data, lvl)

			if n == len(data) {
				t.Skip("codec declined to compress this input at this level")
			}

			out := make([]byte, len(data))
			err := Decompress(out, dst[:n])
			require.NoError(t, err)
			assert.Equal(t, data, out)
		})
	}
}

// S1: a short, barely compressible input is expected to decline when the
// destination budget equals the source length, but to round-trip exactly
// when given headroom.
func TestScenario_ShortInputDeclinesAtTightBudget(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := []byte("Hello, world!\n")

	tight := make([]byte, len(src))
	n := Compress(tight, src, level.Default)
	assert.Equal(t, len(src), n, "tight budget should decline on an incompressible 14-byte input")

	roomy := make([]byte, 64)
	n = Compress(roomy, src, level.Default)
	if n < 64 {
		out := make([]byte, len(src))
		require.NoError(t, Decompress(out, roomy[:n]))
		assert.Equal(t, src, out)
	}
}

// S2: a highly compressible 4KiB block compresses well under 64 bytes and
// round-trips exactly, reporting the level it was compressed at.
func TestScenario_ZerosCompressSmall(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := make([]byte, 4096)
	dst := make([]byte, 4096)

	n := Compress(dst, src, level.Level1)
	require.Less(t, n, 64)

	payloadLen, _, lvl, err := frame.Decode(dst[:n])
	require.NoError(t, err)
	assert.Equal(t, uint32(n-frame.Size), payloadLen)
	assert.Equal(t, level.Level1, lvl)

	out := make([]byte, len(src))
	require.NoError(t, Decompress(out, dst[:n]))
	assert.Equal(t, src, out)
}

// S3: a fast level round-trips and GetLevel reports it back correctly.
func TestScenario_FastLevelRoundTrip(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := bytes.Repeat([]byte("abcd"), 1024)
	dst := make([]byte, len(src))

	n := Compress(dst, src, level.Fast3)
	require.Less(t, n, len(src))

	gotLvl, err := GetLevel(dst[:n])
	require.NoError(t, err)
	assert.Equal(t, level.Fast3, gotLvl)

	out := make([]byte, len(src))
	require.NoError(t, Decompress(out, dst[:n]))
	assert.Equal(t, src, out)
}

// S5: tampering with the stored length must be rejected, and dst left
// untouched.
func TestScenario_TamperedFrameRejected(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := bytes.Repeat([]byte("abcd"), 1024)
	dst := make([]byte, len(src))
	n := Compress(dst, src, level.Default)
	require.Less(t, n, len(src))

	frameBytes := append([]byte(nil), dst[:n]...)
	frameBytes[0] = 0xFF

	out := make([]byte, len(frameBytes))
	sentinel := append([]byte(nil), out...)

	err := Decompress(out, frameBytes)
	require.Error(t, err)
	assert.Equal(t, sentinel, out, "Decompress must not write to dst on a rejected frame")
}

// S6: Inherit and Default both normalize to the same, concretely reported
// default level, and both round-trip.
func TestScenario_SentinelLevelsNormalize(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := bytes.Repeat([]byte("sentinel-normalization-test"), 64)

	for _, lvl := range []level.Logical{level.Inherit, level.Default} {
		dst := make([]byte, len(src))
		n := Compress(dst, src, lvl)
		require.Less(t, n, len(src))

		gotLvl, err := GetLevel(dst[:n])
		require.NoError(t, err)
		assert.Equal(t, level.DefaultLevel, gotLvl)

		out := make([]byte, len(src))
		require.NoError(t, Decompress(out, dst[:n]))
		assert.Equal(t, src, out)
	}
}

// S4: many goroutines round-tripping concurrently against the pools Init
// creates must neither corrupt data nor deadlock.
func TestScenario_ConcurrentRoundTrips(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	const goroutines = 32

	var wg sync.WaitGroup

	errs := make(chan error, goroutines)

	for i := range goroutines {
		wg.Add(1)

		go func(seed int) {
			defer wg.Done()

			r := rand.New(rand.NewSource(int64(seed)))
			buf := make([]byte, 8192)
			_, _ = r.Read(buf)

			dst := make([]byte, len(buf))
			n := Compress(dst, buf, level.Default)

			if n == len(buf) {
				return // declined; nothing further to verify
			}

			out := make([]byte, len(buf))
			if err := Decompress(out, dst[:n]); err != nil {
				errs <- err

				return
			}

			if !bytes.Equal(buf, out) {
				errs <- assert.AnError
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent round-trip failed: %v", err)
	}
}

func TestGetLevel_PureInspection(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := bytes.Repeat([]byte("inspect-me"), 512)
	dst := make([]byte, len(src))
	n := Compress(dst, src, level.Level9)
	require.Less(t, n, len(src))

	lvl, err := GetLevel(dst[:n])
	require.NoError(t, err)
	assert.Equal(t, level.Level9, lvl)
}

func TestDecompressAndReportLevel(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	src := bytes.Repeat([]byte("report-level"), 512)
	dst := make([]byte, len(src))
	n := Compress(dst, src, level.Fast1)
	require.Less(t, n, len(src))

	out := make([]byte, len(src))
	lvl, err := DecompressAndReportLevel(out, dst[:n])
	require.NoError(t, err)
	assert.Equal(t, level.Fast1, lvl)
	assert.Equal(t, src, out)
}

func TestDecompress_RequiresDestinationCapacity(t *testing.T) {
	require.NoError(t, Init())
	defer Fini()

	err := Decompress(make([]byte, 2), make([]byte, 4))
	assert.Error(t, err)
}
