package format

import "fmt"

// CharMap is a bidirectional mapping between fixed-width data-bit patterns
// and characters. Both directions are unique; maps are immutable once built.
type CharMap struct {
	toChar map[byte]rune
	toBits map[rune]byte
}

// NewCharMap builds a CharMap from a pattern-to-character mapping. Fails if
// two patterns map to the same character.
func NewCharMap(mapping map[byte]rune) (*CharMap, error) {
	m := &CharMap{
		toChar: make(map[byte]rune, len(mapping)),
		toBits: make(map[rune]byte, len(mapping)),
	}
	for bits, r := range mapping {
		if prev, ok := m.toBits[r]; ok {
			return nil, fmt.Errorf("character %q mapped by both %#05b and %#05b", r, prev, bits)
		}
		m.toChar[bits] = r
		m.toBits[r] = bits
	}
	return m, nil
}

// Char returns the character for a data-bit pattern.
func (m *CharMap) Char(bits byte) (rune, bool) {
	r, ok := m.toChar[bits]
	return r, ok
}

// Bits returns the data-bit pattern for a character.
func (m *CharMap) Bits(r rune) (byte, bool) {
	bits, ok := m.toBits[r]
	return bits, ok
}

// Len returns the number of mapped characters.
func (m *CharMap) Len() int { return len(m.toChar) }

var (
	track1Chars = mustCharMap(asciiRange(0x20, 64))
	track2Chars = mustCharMap(asciiRange(0x30, 16))
)

// Track1CharMap returns the IATA Track 1 map: 6 data bits covering the 64
// ASCII characters from space (0x20) through underscore (0x5F).
func Track1CharMap() *CharMap { return track1Chars }

// Track2CharMap returns the ABA Track 2/3 map: 4 data bits covering the 16
// ASCII characters from '0' (0x30) through '?' (0x3F), i.e. the digits plus
// the separator characters.
func Track2CharMap() *CharMap { return track2Chars }

// asciiRange maps data value v to the character offset+v for v in [0, n).
func asciiRange(offset, n int) map[byte]rune {
	mapping := make(map[byte]rune, n)
	for v := 0; v < n; v++ {
		mapping[byte(v)] = rune(offset + v)
	}
	return mapping
}

func mustCharMap(mapping map[byte]rune) *CharMap {
	m, err := NewCharMap(mapping)
	if err != nil {
		panic(err)
	}
	return m
}
