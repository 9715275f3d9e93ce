// Package level translates between the logical compression levels stored on
// disk and the signed level cookies understood by the Zstd codec.
//
// The logical level is part of the on-disk format and must remain stable
// across codec versions: it is a closed, append-only enumeration. The
// cookie is whatever the linked codec version happens to use internally for
// a given level, including negative "fast" levels. Keeping the two
// separated means a future codec that renumbers its fast levels only
// changes the table in this package, never the on-disk format.
package level

import "fmt"

// Logical is a stable, on-disk compression level identifier.
//
// New entries may only be appended; existing values must never be reused
// or renumbered, since they are persisted inside compressed block headers.
type Logical uint8

const (
	// Inherit means "use whatever level the containing dataset/property
	// specifies"; it is resolved by the caller before reaching this
	// package and never appears in a stored header.
	Inherit Logical = 0

	// Default means "use the codec's recommended level." Like Inherit,
	// it is normalized away before a header is written.
	Default Logical = 1

	Level1  Logical = 2
	Level2  Logical = 3
	Level3  Logical = 4
	Level4  Logical = 5
	Level5  Logical = 6
	Level6  Logical = 7
	Level7  Logical = 8
	Level8  Logical = 9
	Level9  Logical = 10
	Level10 Logical = 11
	Level11 Logical = 12
	Level12 Logical = 13
	Level13 Logical = 14
	Level14 Logical = 15
	Level15 Logical = 16
	Level16 Logical = 17
	Level17 Logical = 18
	Level18 Logical = 19
	Level19 Logical = 20

	Fast1  Logical = 21
	Fast2  Logical = 22
	Fast3  Logical = 23
	Fast4  Logical = 24
	Fast5  Logical = 25
	Fast6  Logical = 26
	Fast7  Logical = 27
	Fast8  Logical = 28
	Fast9  Logical = 29
	Fast10 Logical = 30

	Fast20  Logical = 31
	Fast30  Logical = 32
	Fast40  Logical = 33
	Fast50  Logical = 34
	Fast60  Logical = 35
	Fast70  Logical = 36
	Fast80  Logical = 37
	Fast90  Logical = 38
	Fast100 Logical = 39

	Fast500  Logical = 40
	Fast1000 Logical = 41
)

// DefaultLevel is the named constant resolving the source ambiguity around
// the "historically 3" default: it is always a concrete positive level,
// never the Default/Inherit sentinel itself, so it can be written to a
// block header.
const DefaultLevel = Level3

type tableEntry struct {
	logical Logical
	cookie  int32
}

// levelTable is the bidirectional mapping between logical levels and codec
// cookies. Inherit and Default deliberately never appear here: they are
// sentinels resolved by CookieOf before a lookup would need them.
var levelTable = []tableEntry{
	{Level1, 1}, {Level2, 2}, {Level3, 3}, {Level4, 4}, {Level5, 5},
	{Level6, 6}, {Level7, 7}, {Level8, 8}, {Level9, 9}, {Level10, 10},
	{Level11, 11}, {Level12, 12}, {Level13, 13}, {Level14, 14}, {Level15, 15},
	{Level16, 16}, {Level17, 17}, {Level18, 18}, {Level19, 19},

	{Fast1, -1}, {Fast2, -2}, {Fast3, -3}, {Fast4, -4}, {Fast5, -5},
	{Fast6, -6}, {Fast7, -7}, {Fast8, -8}, {Fast9, -9}, {Fast10, -10},

	{Fast20, -20}, {Fast30, -30}, {Fast40, -40}, {Fast50, -50},
	{Fast60, -60}, {Fast70, -70}, {Fast80, -80}, {Fast90, -90}, {Fast100, -100},

	{Fast500, -500}, {Fast1000, -1000},
}

// CookieOf returns the codec-level cookie for a logical level.
//
// Inherit and Default are normalized to the cookie for DefaultLevel: the
// caller is expected to have already decided those sentinels resolve to a
// concrete level before a block is written, but CookieOf is kept total so
// it never needs to report an error for them.
func CookieOf(l Logical) int32 {
	if l == Inherit || l == Default {
		l = DefaultLevel
	}

	for _, e := range levelTable {
		if e.logical == l {
			return e.cookie
		}
	}

	// A logical level outside the table (neither a known fast/positive
	// level, Inherit, nor Default) is a programming error on the
	// caller's part, not a corrupt frame: frames are validated through
	// LogicalOf on the read path instead. Fall back to the default
	// cookie rather than panicking, keeping CookieOf total.
	return CookieOf(DefaultLevel)
}

// LogicalOf returns the logical level corresponding to a codec cookie seen
// on a decompression path, or false if the cookie is not in the table.
//
// A false result means the frame is corrupt: no valid Normalize call ever
// produces a cookie outside this table.
func LogicalOf(cookie int32) (Logical, bool) {
	for _, e := range levelTable {
		if e.cookie == cookie {
			return e.logical, true
		}
	}

	return 0, false
}

// Normalize resolves Inherit/Default to a concrete, storable logical level.
// Every other level passes through unchanged.
func Normalize(l Logical) Logical {
	if l == Inherit || l == Default {
		return DefaultLevel
	}

	return l
}

// Valid reports whether l is a logical level this package recognizes,
// including the Inherit and Default sentinels.
func Valid(l Logical) bool {
	if l == Inherit || l == Default {
		return true
	}

	got, ok := LogicalOf(CookieOf(l))

	return ok && got == l
}

func (l Logical) String() string {
	switch l {
	case Inherit:
		return "inherit"
	case Default:
		return "default"
	}

	for _, e := range levelTable {
		if e.logical == l {
			return fmt.Sprintf("level(%d)", e.cookie)
		}
	}

	return fmt.Sprintf("level(unknown:%d)", uint8(l))
}
