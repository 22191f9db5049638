// Package format describes magnetic-stripe encoding variants. A Format is a
// named variant (or a custom specification) that resolves to a canonical
// Spec: bits per character, sentinels, bit order, inversion, parity scheme,
// and a bidirectional character map. Inversion, bit order, parity position,
// and sentinel presence are orthogonal axes of one Spec, not separate decode
// algorithms.
package format

import (
	"fmt"
	"math/bits"

	"github.com/swipekit/magstripe/pkg/bitstream"
)

// Parity selects the per-character parity scheme. The Swapped variants place
// the parity bit at bit 0 of the character value with the data bits above
// it, instead of the standard layout with the parity bit on top.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParitySwappedOdd
	ParitySwappedEven
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	case ParitySwappedOdd:
		return "swapped-odd"
	case ParitySwappedEven:
		return "swapped-even"
	default:
		return fmt.Sprintf("Parity(%d)", int(p))
	}
}

// Odd reports whether the scheme expects odd bit parity.
func (p Parity) Odd() bool { return p == ParityOdd || p == ParitySwappedOdd }

// Swapped reports whether the parity bit sits at bit 0 of the character.
func (p Parity) Swapped() bool { return p == ParitySwappedOdd || p == ParitySwappedEven }

// Sentinel is a fixed bit pattern marking a record boundary, expressed in
// normalized character-value space.
type Sentinel struct {
	Bits    int
	Pattern byte
}

// Spec is the canonical, immutable description of one encoding variant.
// Character values are the result of extracting BitsPerChar wire bits in
// BitOrder and complementing if Inverted; sentinels, parity, and the
// character map all operate on these values.
type Spec struct {
	Name          string
	BitsPerChar   int
	StartSentinel *Sentinel // nil for raw (sentinel-less) formats
	EndSentinel   *Sentinel
	BitOrder      bitstream.BitOrder
	Inverted      bool
	Parity        Parity
	SkipBits      int // fixed header skip before scanning or raw data
	Chars         *CharMap
}

// InvalidSpecError reports a malformed custom specification.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid format specification: %s", e.Reason)
}

// Validate checks the structural constraints of a Spec.
func (s *Spec) Validate() error {
	switch {
	case s.BitsPerChar < 1 || s.BitsPerChar > 8:
		return &InvalidSpecError{Reason: fmt.Sprintf("bits_per_char must be in [1, 8], got %d", s.BitsPerChar)}
	case s.Chars == nil || s.Chars.Len() == 0:
		return &InvalidSpecError{Reason: "character map is empty"}
	case s.SkipBits < 0:
		return &InvalidSpecError{Reason: fmt.Sprintf("skip_bits must not be negative, got %d", s.SkipBits)}
	case (s.StartSentinel == nil) != (s.EndSentinel == nil):
		return &InvalidSpecError{Reason: "start and end sentinels must both be set or both be absent"}
	}
	for _, sen := range []*Sentinel{s.StartSentinel, s.EndSentinel} {
		if sen == nil {
			continue
		}
		if sen.Bits < 1 || sen.Bits > 8 {
			return &InvalidSpecError{Reason: fmt.Sprintf("sentinel width must be in [1, 8], got %d", sen.Bits)}
		}
		if int(sen.Pattern) >= 1<<sen.Bits {
			return &InvalidSpecError{Reason: fmt.Sprintf("sentinel pattern %#b does not fit in %d bits", sen.Pattern, sen.Bits)}
		}
	}
	return nil
}

// Mask returns the character-value mask for a run of n bits.
func Mask(n int) byte { return byte(1<<n - 1) }

// Normalize maps an n-bit raw extraction into character-value space,
// applying the inversion flag. Bit order is already handled at extraction.
func (s *Spec) Normalize(raw byte, n int) byte {
	if s.Inverted {
		return ^raw & Mask(n)
	}
	return raw
}

// DataBits strips the parity bit from a character value per the parity
// scheme, returning the data-bit pattern used for character lookup and LRC
// accumulation.
func (s *Spec) DataBits(v byte) byte {
	switch {
	case s.Parity == ParityNone:
		return v
	case s.Parity.Swapped():
		return v >> 1
	default:
		return v & Mask(s.BitsPerChar-1)
	}
}

// EncodeChar assembles a full character value from data bits, computing the
// parity bit per the scheme. Used to derive sentinel patterns and the
// expected LRC character.
func (s *Spec) EncodeChar(data byte) byte {
	if s.Parity == ParityNone {
		return data
	}
	var parity byte
	if odd := bits.OnesCount8(data)%2 == 1; odd != s.Parity.Odd() {
		parity = 1
	}
	if s.Parity.Swapped() {
		return data<<1 | parity
	}
	return data | parity<<(s.BitsPerChar-1)
}

// sentinelFor derives the sentinel pattern for a character through the
// spec's character map and parity scheme.
func (s *Spec) sentinelFor(r rune) (*Sentinel, error) {
	data, ok := s.Chars.Bits(r)
	if !ok {
		return nil, &InvalidSpecError{Reason: fmt.Sprintf("sentinel character %q not in character map", r)}
	}
	return &Sentinel{Bits: s.BitsPerChar, Pattern: s.EncodeChar(data)}, nil
}

// Format identifies one encoding variant and resolves it to a Spec.
// The named variants below form a closed set; Custom carries an explicit
// Spec for anything outside it.
type Format interface {
	// Name returns the variant's identifier, e.g. "track2-inverted".
	Name() string

	// Resolve produces the canonical Spec for this variant. Resolution is
	// pure; the returned Spec must not be mutated.
	Resolve() (*Spec, error)
}

type named int

// The built-in format variants.
const (
	Track2 named = iota
	Track2Inverted
	Track2MSB
	Track2LSB
	Track2Raw
	Track2SwappedParity
	Track2EvenParity
	Track1
	Track1Inverted
	Track3
)

var names = map[named]string{
	Track2:              "track2",
	Track2Inverted:      "track2-inverted",
	Track2MSB:           "track2-msb",
	Track2LSB:           "track2-lsb",
	Track2Raw:           "track2-raw",
	Track2SwappedParity: "track2-swapped-parity",
	Track2EvenParity:    "track2-even-parity",
	Track1:              "track1",
	Track1Inverted:      "track1-inverted",
	Track3:              "track3",
}

func (f named) Name() string {
	if n, ok := names[f]; ok {
		return n
	}
	return fmt.Sprintf("format(%d)", int(f))
}

func (f named) String() string { return f.Name() }

// Resolve builds the Spec for a named variant. Track 3 shares the Track 2
// encoding; its higher recording density does not affect decoding.
func (f named) Resolve() (*Spec, error) {
	s := &Spec{Name: f.Name()}
	switch f {
	case Track1, Track1Inverted:
		s.BitsPerChar = 7
		s.BitOrder = bitstream.LSBFirst
		s.Parity = ParityOdd
		s.Chars = Track1CharMap()
		s.Inverted = f == Track1Inverted
	case Track2, Track2Inverted, Track2MSB, Track2LSB, Track2Raw,
		Track2SwappedParity, Track2EvenParity, Track3:
		s.BitsPerChar = 5
		s.BitOrder = bitstream.LSBFirst
		s.Parity = ParityOdd
		s.Chars = Track2CharMap()
		switch f {
		case Track2Inverted:
			s.Inverted = true
		case Track2MSB:
			s.BitOrder = bitstream.MSBFirst
		case Track2SwappedParity:
			s.Parity = ParitySwappedOdd
		case Track2EvenParity:
			s.Parity = ParityEven
		}
	default:
		return nil, &InvalidSpecError{Reason: fmt.Sprintf("unknown format %d", int(f))}
	}
	if f != Track2Raw {
		start, end := startSentinelChar(f), '?'
		var err error
		if s.StartSentinel, err = s.sentinelFor(start); err != nil {
			return nil, err
		}
		if s.EndSentinel, err = s.sentinelFor(end); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func startSentinelChar(f named) rune {
	if f == Track1 || f == Track1Inverted {
		return '%'
	}
	return ';'
}

type custom struct {
	spec *Spec
}

// Custom wraps an explicit Spec as a Format.
func Custom(spec *Spec) Format { return custom{spec: spec} }

func (c custom) Name() string {
	if c.spec != nil && c.spec.Name != "" {
		return c.spec.Name
	}
	return "custom"
}

func (c custom) Resolve() (*Spec, error) {
	if c.spec == nil {
		return nil, &InvalidSpecError{Reason: "nil custom spec"}
	}
	if err := c.spec.Validate(); err != nil {
		return nil, err
	}
	return c.spec, nil
}

// Parse looks up a built-in format by name.
func Parse(name string) (Format, error) {
	for f, n := range names {
		if n == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

// Standard returns the default trial order: the most common variants first.
func Standard() []Format {
	return []Format{Track2, Track2Inverted, Track1, Track1Inverted}
}

// All returns every built-in variant in trial order.
func All() []Format {
	return []Format{
		Track2, Track2Inverted, Track2MSB, Track2LSB, Track2Raw,
		Track2SwappedParity, Track2EvenParity, Track1, Track1Inverted, Track3,
	}
}
