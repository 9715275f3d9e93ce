// Command zstdadapterbench exercises the zstdadapter facade end-to-end and
// reports compression ratios across a handful of logical levels, in the
// spirit of the teacher's examples/compress_demo.
package main

import (
	"bytes"
	"fmt"
	"log"

	"github.com/openzfs/zstdadapter"
	"github.com/openzfs/zstdadapter/level"
)

func main() {
	if err := zstdadapter.Init(); err != nil {
		log.Fatal(err)
	}
	defer zstdadapter.Fini()

	data := generateSampleData()
	fmt.Printf("zstdadapter bench — input size: %d bytes\n\n", len(data))

	levels := []level.Logical{
		level.Fast10,
		level.Default,
		level.Level9,
		level.Level19,
	}

	for _, lvl := range levels {
		runLevel(lvl, data)
	}
}

func runLevel(lvl level.Logical, data []byte) {
	dst := make([]byte, len(data))
	n := zstdadapter.Compress(dst, data, lvl)

	if n == len(data) {
		fmt.Printf("%-12s declined (incompressible at this budget)\n", lvl.String())

		return
	}

	ratio := float64(len(data)) / float64(n)

	out := make([]byte, len(data))
	if err := zstdadapter.Decompress(out, dst[:n]); err != nil {
		fmt.Printf("%-12s decompress failed: %v\n", lvl.String(), err)

		return
	}

	ok := bytes.Equal(data, out)
	fmt.Printf("%-12s %6d bytes  ratio %.2f:1  round-trip-ok=%v\n", lvl.String(), n, ratio, ok)
}

func generateSampleData() []byte {
	var buf bytes.Buffer
	for i := 0; i < 2000; i++ {
		fmt.Fprintf(&buf, "metric.sample.%d value=%d\n", i%50, i)
	}

	return buf.Bytes()
}
