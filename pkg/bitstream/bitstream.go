// Package bitstream provides a bit-addressable, read-only view over a byte
// buffer with an explicit bit count and a movable read cursor.
//
// The backing buffer is left-aligned: bit 0 is the most significant bit of
// the first byte, and any trailing bits in the last byte beyond the bit
// count are ignored. Reads may extract the bits of a run MSB-first or
// LSB-first; see BitOrder.
package bitstream

import (
	"errors"
	"fmt"
	"strings"
)

// BitOrder selects how a run of bits is assembled into a value.
type BitOrder int

const (
	// MSBFirst places the first bit of the run in the most significant
	// position of the result.
	MSBFirst BitOrder = iota

	// LSBFirst places the first bit of the run in the least significant
	// position of the result, reversing the bit order within the run.
	LSBFirst
)

func (o BitOrder) String() string {
	switch o {
	case MSBFirst:
		return "msb"
	case LSBFirst:
		return "lsb"
	default:
		return fmt.Sprintf("BitOrder(%d)", int(o))
	}
}

// ErrCountRange is returned when a requested bit run is not in [0, 8].
var ErrCountRange = errors.New("bitstream: bit count out of range")

// InvalidStreamError reports a buffer too small to hold the declared bit count.
type InvalidStreamError struct {
	RequiredBytes int
	ProvidedBytes int
}

func (e *InvalidStreamError) Error() string {
	return fmt.Sprintf("invalid bitstream: %d bytes required, but only %d bytes provided",
		e.RequiredBytes, e.ProvidedBytes)
}

// TooShortError reports a read past the end of the stream.
type TooShortError struct {
	BitCount        int // bits in the stream
	MinimumRequired int // bits the operation needed
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("bitstream too short: %d bits provided, but at least %d bits required",
		e.BitCount, e.MinimumRequired)
}

// BitStream is a read-only view over a byte buffer. The zero value is an
// empty stream; use New to construct one over data.
//
// A BitStream never copies or mutates the backing bytes. Slice produces
// independent views sharing the same bytes, each with its own cursor.
type BitStream struct {
	data     []byte
	base     int // bit offset of logical bit 0 within data
	bitCount int
	pos      int // cursor, in [0, bitCount]
}

// New creates a BitStream over data holding bitCount bits. The buffer is
// shrunk to the minimum number of bytes needed. Returns InvalidStreamError
// if the buffer cannot hold bitCount bits.
func New(data []byte, bitCount int) (*BitStream, error) {
	required := (bitCount + 7) / 8
	if bitCount < 0 || len(data) < required {
		return nil, &InvalidStreamError{RequiredBytes: required, ProvidedBytes: len(data)}
	}
	return &BitStream{data: data[:required], bitCount: bitCount}, nil
}

// Len returns the total number of bits in the stream.
func (s *BitStream) Len() int { return s.bitCount }

// Pos returns the current cursor position.
func (s *BitStream) Pos() int { return s.pos }

// Remaining returns the number of bits left after the cursor.
func (s *BitStream) Remaining() int { return s.bitCount - s.pos }

// Seek repositions the cursor to an absolute bit offset.
func (s *BitStream) Seek(offset int) error {
	if offset < 0 || offset > s.bitCount {
		return fmt.Errorf("bitstream: seek offset %d out of range [0, %d]", offset, s.bitCount)
	}
	s.pos = offset
	return nil
}

// bit returns the bit at absolute offset i, which must be in range.
func (s *BitStream) bit(i int) byte {
	abs := s.base + i
	return (s.data[abs/8] >> (7 - abs%8)) & 1
}

// ExtractBits assembles n bits starting at the given offset without touching
// the cursor. n must be in [0, 8]. Returns TooShortError if the run extends
// past the end of the stream.
func (s *BitStream) ExtractBits(offset, n int, order BitOrder) (byte, error) {
	if n < 0 || n > 8 {
		return 0, ErrCountRange
	}
	if offset < 0 || offset+n > s.bitCount {
		return 0, &TooShortError{BitCount: s.bitCount, MinimumRequired: offset + n}
	}
	var v byte
	for i := 0; i < n; i++ {
		b := s.bit(offset + i)
		if order == LSBFirst {
			v |= b << i
		} else {
			v |= b << (n - 1 - i)
		}
	}
	return v, nil
}

// ReadBits extracts the next n bits at the cursor and advances it.
func (s *BitStream) ReadBits(n int, order BitOrder) (byte, error) {
	v, err := s.ExtractBits(s.pos, n, order)
	if err != nil {
		return 0, err
	}
	s.pos += n
	return v, nil
}

// PeekBits extracts the next n bits at the cursor without advancing it.
func (s *BitStream) PeekBits(n int, order BitOrder) (byte, error) {
	return s.ExtractBits(s.pos, n, order)
}

// Slice returns an independent view over bits [start, end) sharing the
// backing bytes. The new view's cursor starts at 0.
func (s *BitStream) Slice(start, end int) (*BitStream, error) {
	if start < 0 || end < start || end > s.bitCount {
		return nil, fmt.Errorf("bitstream: slice [%d, %d) out of range [0, %d]", start, end, s.bitCount)
	}
	return &BitStream{data: s.data, base: s.base + start, bitCount: end - start}, nil
}

// String renders the stream as binary digits with a colon after every
// eight bits, e.g. "BitStream(11010110:1010)".
func (s *BitStream) String() string {
	var sb strings.Builder
	sb.WriteString("BitStream(")
	for i := 0; i < s.bitCount; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(':')
		}
		sb.WriteByte('0' + s.bit(i))
	}
	sb.WriteByte(')')
	return sb.String()
}
