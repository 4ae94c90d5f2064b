package snapstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_Valid(t *testing.T) {
	assert.True(t, Version("0000000042").Valid())
	assert.True(t, Version("9999999999").Valid())
	assert.False(t, Version("").Valid())
	assert.False(t, Version("42").Valid())
	assert.False(t, Version("00000000042").Valid())
	assert.False(t, Version("000000004x").Valid())
	assert.False(t, Version("v000000042").Valid())
}

func TestVersionFromNumber(t *testing.T) {
	assert.Equal(t, Version("0000000042"), VersionFromNumber(42))
	assert.Equal(t, Version("0000000000"), VersionFromNumber(0))
	assert.Equal(t, Version("1234567890"), VersionFromNumber(1234567890))
}

func TestVersion_Number(t *testing.T) {
	n, err := Version("0000000042").Number()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	_, err = Version("not-a-number").Number()
	require.Error(t, err)
}

func TestVersion_LexicographicOrderMatchesNumericOrder(t *testing.T) {
	// the fixed width keeps string ordering aligned with semantic ordering
	// across digit boundaries
	pairs := [][2]uint64{
		{1, 2},
		{9, 10},
		{99, 100},
		{999999999, 1000000000},
	}
	for _, pair := range pairs {
		lo := VersionFromNumber(pair[0])
		hi := VersionFromNumber(pair[1])
		assert.Less(t, string(lo), string(hi))
	}
}

func TestCutoffBefore(t *testing.T) {
	cutoff, err := CutoffBefore(VersionFromNumber(10), 2)
	require.NoError(t, err)

	assert.True(t, cutoff(VersionFromNumber(7)))
	assert.False(t, cutoff(VersionFromNumber(8)))
	assert.False(t, cutoff(VersionFromNumber(10)))
	assert.False(t, cutoff(VersionFromNumber(11)))
	assert.False(t, cutoff(Version("malformed")))
}

func TestCutoffBefore_KeepNothing(t *testing.T) {
	cutoff, err := CutoffBefore(VersionFromNumber(5), 0)
	require.NoError(t, err)

	assert.True(t, cutoff(VersionFromNumber(4)))
	assert.False(t, cutoff(VersionFromNumber(5)))
}

func TestCutoffBefore_InvalidCurrent(t *testing.T) {
	_, err := CutoffBefore(Version("malformed"), 2)
	require.Error(t, err)
}
