package bitstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		bitCount int
		wantErr  bool
	}{
		{name: "exact fit", data: []byte{0xFF, 0x00}, bitCount: 16},
		{name: "partial last byte", data: []byte{0xFF, 0x00, 0xAA}, bitCount: 20},
		{name: "oversized buffer", data: []byte{0xFF, 0x00, 0xAA, 0xBB, 0xCC}, bitCount: 20},
		{name: "empty", data: nil, bitCount: 0},
		{name: "too small", data: []byte{0xFF}, bitCount: 16, wantErr: true},
		{name: "one bit over", data: []byte{0xFF}, bitCount: 9, wantErr: true},
		{name: "negative count", data: []byte{0xFF}, bitCount: -1, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.data, tc.bitCount)
			if tc.wantErr {
				var ise *InvalidStreamError
				require.Error(t, err)
				require.True(t, errors.As(err, &ise))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.bitCount, s.Len())
			assert.Equal(t, tc.bitCount, s.Remaining())
		})
	}
}

func TestNewErrorFields(t *testing.T) {
	_, err := New([]byte{0xFF}, 16)
	var ise *InvalidStreamError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 2, ise.RequiredBytes)
	assert.Equal(t, 1, ise.ProvidedBytes)
}

func TestExtractBits(t *testing.T) {
	// 1101 0110 : 1010 ...
	s, err := New([]byte{0b11010110, 0b10100000}, 12)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		offset int
		n      int
		order  BitOrder
		want   byte
	}{
		{name: "msb at 0", offset: 0, n: 5, order: MSBFirst, want: 0b11010},
		{name: "lsb at 0", offset: 0, n: 5, order: LSBFirst, want: 0b01011},
		{name: "msb across byte boundary", offset: 6, n: 5, order: MSBFirst, want: 0b10101},
		{name: "lsb across byte boundary", offset: 6, n: 5, order: LSBFirst, want: 0b10101},
		{name: "single bit", offset: 1, n: 1, order: MSBFirst, want: 1},
		{name: "zero bits", offset: 3, n: 0, order: MSBFirst, want: 0},
		{name: "full byte", offset: 0, n: 8, order: MSBFirst, want: 0b11010110},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := s.ExtractBits(tc.offset, tc.n, tc.order)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestExtractBitsTooShort(t *testing.T) {
	s, err := New([]byte{0xFF, 0xFF}, 12)
	require.NoError(t, err)

	_, err = s.ExtractBits(10, 5, MSBFirst)
	var tse *TooShortError
	require.True(t, errors.As(err, &tse))
	assert.Equal(t, 12, tse.BitCount)
	assert.Equal(t, 15, tse.MinimumRequired)
}

func TestExtractBitsCountRange(t *testing.T) {
	s, err := New([]byte{0xFF, 0xFF}, 16)
	require.NoError(t, err)

	_, err = s.ExtractBits(0, 9, MSBFirst)
	assert.ErrorIs(t, err, ErrCountRange)
	_, err = s.ExtractBits(0, -1, MSBFirst)
	assert.ErrorIs(t, err, ErrCountRange)
}

func TestReadAndPeek(t *testing.T) {
	s, err := New([]byte{0b10101001}, 8)
	require.NoError(t, err)

	v, err := s.PeekBits(1, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(1), v)
	assert.Equal(t, 0, s.Pos(), "peek must not advance the cursor")

	v, err = s.ReadBits(1, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(1), v)

	v, err = s.ReadBits(3, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(0b010), v)

	v, err = s.ReadBits(4, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(0b1001), v)
	assert.Equal(t, 0, s.Remaining())

	_, err = s.ReadBits(1, MSBFirst)
	var tse *TooShortError
	assert.True(t, errors.As(err, &tse))
}

func TestSeek(t *testing.T) {
	s, err := New([]byte{0xAA, 0xAA}, 16)
	require.NoError(t, err)

	require.NoError(t, s.Seek(9))
	v, err := s.ReadBits(2, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(0b01), v)

	require.NoError(t, s.Seek(16))
	assert.Equal(t, 0, s.Remaining())

	assert.Error(t, s.Seek(17))
	assert.Error(t, s.Seek(-1))
}

func TestSlice(t *testing.T) {
	s, err := New([]byte{0b11010110, 0b10101111}, 16)
	require.NoError(t, err)

	sub, err := s.Slice(3, 11)
	require.NoError(t, err)
	assert.Equal(t, 8, sub.Len())
	assert.Equal(t, 0, sub.Pos(), "slice cursor starts at zero")

	v, err := sub.ExtractBits(0, 8, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(0b10110101), v)

	// Slices are independent of the parent cursor.
	_, err = s.ReadBits(8, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.Pos())

	// Nested slices compose offsets.
	inner, err := sub.Slice(2, 6)
	require.NoError(t, err)
	v, err = inner.ExtractBits(0, 4, MSBFirst)
	require.NoError(t, err)
	assert.Equal(t, byte(0b1101), v)

	_, err = s.Slice(5, 3)
	assert.Error(t, err)
	_, err = s.Slice(0, 17)
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	testCases := []struct {
		data     []byte
		bitCount int
		want     string
	}{
		{[]byte{0b11010110}, 8, "BitStream(11010110)"},
		{[]byte{0b11010110, 0b10100000}, 12, "BitStream(11010110:1010)"},
		{[]byte{0b11010110, 0b10101111}, 16, "BitStream(11010110:10101111)"},
		{[]byte{0b11010110, 0b10101111, 0b11000000}, 20, "BitStream(11010110:10101111:1100)"},
		{nil, 0, "BitStream()"},
	}

	for _, tc := range testCases {
		s, err := New(tc.data, tc.bitCount)
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.String())
	}
}
