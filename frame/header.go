// Package frame encodes and decodes the fixed 8-byte header that prefixes
// every compressed block produced by this adapter.
//
// The header is always big-endian on the wire, independent of the host's
// native byte order — following the same "never rely on host order"
// discipline the teacher's endian package documents for its own appended
// binary encodings.
package frame

import (
	"errors"

	"github.com/openzfs/zstdadapter/endian"
	"github.com/openzfs/zstdadapter/level"
)

// wireOrder is the header's byte order on disk. It is always big-endian,
// deliberately never endian.GetLittleEndianEngine() or the host's native
// order — see endian.CheckEndianness, which this package never calls.
var wireOrder = endian.GetBigEndianEngine()

// Size is the fixed length, in bytes, of every encoded header.
const Size = 8

// ErrHeaderInvalid is returned by Decode when the frame prefix fails any of
// the invariants in the format: a payload length that would overrun the
// source, or a level byte that does not correspond to a known logical
// level.
var ErrHeaderInvalid = errors.New("frame: invalid header")

// versionShift and levelMask split the second 32-bit word of the header
// into a 24-bit format version and an 8-bit level, as described by the
// on-disk layout:
//
//	offset 0:  uint32  compressed_payload_length
//	offset 4:  uint32  version_and_level
//	             bits [31..8]  format version (24-bit)
//	             bits  [7..0]  level (8-bit)
const (
	versionShift = 8
	levelMask    = 0xFF
)

// Encode writes an 8-byte header to dst[0:8] and returns Size.
//
// dst must have a length of at least Size; callers reserve the header
// region before asking the codec to write the compressed payload after it.
func Encode(dst []byte, payloadLen uint32, version uint32, lvl level.Logical) int {
	wireOrder.PutUint32(dst[0:4], payloadLen)
	wireOrder.PutUint32(dst[4:8], version<<versionShift|uint32(lvl))

	return Size
}

// Decode parses the 8-byte header at the start of src.
//
// It requires len(src) >= Size and rejects a header whose declared payload
// length would run past the end of src, or whose level byte is not part of
// the logical-level enumeration.
func Decode(src []byte) (payloadLen uint32, version uint32, lvl level.Logical, err error) {
	if len(src) < Size {
		return 0, 0, 0, ErrHeaderInvalid
	}

	payloadLen = wireOrder.Uint32(src[0:4])
	word := wireOrder.Uint32(src[4:8])
	version = word >> versionShift
	lvl = level.Logical(word & levelMask)

	if uint64(payloadLen)+Size > uint64(len(src)) {
		return 0, 0, 0, ErrHeaderInvalid
	}

	if !level.Valid(lvl) || lvl == level.Inherit || lvl == level.Default {
		return 0, 0, 0, ErrHeaderInvalid
	}

	return payloadLen, version, lvl, nil
}
