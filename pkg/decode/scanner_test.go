package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipekit/magstripe/pkg/format"
)

func TestFindStartOffset(t *testing.T) {
	spec, err := format.Track2.Resolve()
	require.NoError(t, err)

	for _, lead := range []int{0, 1, 9, 31, DefaultMaxLeadingNoiseBits} {
		data, bits := buildRecord(t, spec, "123", lead, 2)
		off, err := findStart(mustStream(t, data, bits), spec, DefaultMaxLeadingNoiseBits)
		require.NoError(t, err)
		assert.Equal(t, lead, off)
	}
}

func TestFindStartInverted(t *testing.T) {
	spec, err := format.Track2Inverted.Resolve()
	require.NoError(t, err)

	data, bits := buildRecord(t, spec, "123", 14, 2)
	off, err := findStart(mustStream(t, data, bits), spec, DefaultMaxLeadingNoiseBits)
	require.NoError(t, err)
	assert.Equal(t, 14, off)
}

func TestFindStartNoiseBound(t *testing.T) {
	spec, err := format.Track2.Resolve()
	require.NoError(t, err)
	data, bits := buildRecord(t, spec, "123", 20, 2)

	_, err = findStart(mustStream(t, data, bits), spec, 19)
	assert.ErrorIs(t, err, ErrNoStartSentinel)

	off, err := findStart(mustStream(t, data, bits), spec, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, off)
}

func TestFindStartHonorsSkipBits(t *testing.T) {
	spec, err := format.Track2.Resolve()
	require.NoError(t, err)
	data, bits := buildRecord(t, spec, "123", 8, 2)

	skipped := *spec
	skipped.SkipBits = 8
	off, err := findStart(mustStream(t, data, bits), &skipped, DefaultMaxLeadingNoiseBits)
	require.NoError(t, err)
	assert.Equal(t, 8, off)

	// A skip past the sentinel walks over it.
	skipped.SkipBits = 9
	_, err = findStart(mustStream(t, data, bits), &skipped, 4)
	assert.ErrorIs(t, err, ErrNoStartSentinel)
}

func TestFindStartAbsent(t *testing.T) {
	spec, err := format.Track2.Resolve()
	require.NoError(t, err)

	_, err = findStart(mustStream(t, []byte{0x00, 0x00, 0x00}, 24), spec, DefaultMaxLeadingNoiseBits)
	assert.ErrorIs(t, err, ErrNoStartSentinel)
}
