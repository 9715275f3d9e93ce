package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieOf_PositiveLevels(t *testing.T) {
	tests := []struct {
		name   string
		lvl    Logical
		cookie int32
	}{
		{"level1", Level1, 1},
		{"level3", Level3, 3},
		{"level19", Level19, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cookie, CookieOf(tt.lvl))
		})
	}
}

func TestCookieOf_FastLevels(t *testing.T) {
	tests := []struct {
		name   string
		lvl    Logical
		cookie int32
	}{
		{"fast1", Fast1, -1},
		{"fast10", Fast10, -10},
		{"fast20", Fast20, -20},
		{"fast100", Fast100, -100},
		{"fast500", Fast500, -500},
		{"fast1000", Fast1000, -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cookie, CookieOf(tt.lvl))
		})
	}
}

func TestCookieOf_Sentinels(t *testing.T) {
	require.Equal(t, CookieOf(DefaultLevel), CookieOf(Inherit))
	require.Equal(t, CookieOf(DefaultLevel), CookieOf(Default))
}

func TestLogicalOf_Bijective(t *testing.T) {
	for _, e := range levelTable {
		got, ok := LogicalOf(e.cookie)
		require.True(t, ok, "cookie %d should resolve", e.cookie)
		assert.Equal(t, e.logical, got)
	}
}

func TestLogicalOf_UnknownCookie(t *testing.T) {
	_, ok := LogicalOf(1234567)
	assert.False(t, ok, "an out-of-table cookie must be reported as unknown")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, DefaultLevel, Normalize(Inherit))
	assert.Equal(t, DefaultLevel, Normalize(Default))
	assert.Equal(t, Level9, Normalize(Level9))
	assert.Equal(t, Fast3, Normalize(Fast3))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Inherit))
	assert.True(t, Valid(Default))
	assert.True(t, Valid(Level1))
	assert.True(t, Valid(Fast1000))
	assert.False(t, Valid(Logical(200)))
}

func TestLogicalString(t *testing.T) {
	assert.Equal(t, "inherit", Inherit.String())
	assert.Equal(t, "default", Default.String())
	assert.Equal(t, "level(3)", Level3.String())
	assert.Equal(t, "level(-1)", Fast1.String())
}
