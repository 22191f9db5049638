package format

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swipekit/magstripe/pkg/bitstream"
)

// specFile is the YAML shape of a custom format specification.
//
//	name: acme-badge
//	bits_per_char: 5
//	bit_order: lsb            # lsb | msb
//	inverted: true
//	parity: odd               # none | odd | even | swapped-odd | swapped-even
//	skip_bits: 0
//	charset: "0123456789:;<=>?"   # data value = index into the string
//	start_sentinel: {char: ";"}   # or {bits: 5, pattern: 11}
//	end_sentinel: {char: "?"}
type specFile struct {
	Name          string        `yaml:"name"`
	BitsPerChar   int           `yaml:"bits_per_char"`
	BitOrder      string        `yaml:"bit_order"`
	Inverted      bool          `yaml:"inverted"`
	Parity        string        `yaml:"parity"`
	SkipBits      int           `yaml:"skip_bits"`
	Charset       string        `yaml:"charset"`
	StartSentinel *sentinelFile `yaml:"start_sentinel"`
	EndSentinel   *sentinelFile `yaml:"end_sentinel"`
}

// sentinelFile describes a sentinel either by character (resolved through
// the charset and parity scheme) or by an explicit width and pattern.
type sentinelFile struct {
	Char    string `yaml:"char"`
	Bits    int    `yaml:"bits"`
	Pattern uint8  `yaml:"pattern"`
}

// LoadSpec reads a custom format specification from a YAML file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// ParseSpec parses a YAML custom format specification.
func ParseSpec(data []byte) (*Spec, error) {
	var sf specFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse spec file: %w", err)
	}

	spec := &Spec{
		Name:        sf.Name,
		BitsPerChar: sf.BitsPerChar,
		Inverted:    sf.Inverted,
		SkipBits:    sf.SkipBits,
	}

	switch sf.BitOrder {
	case "", "lsb":
		spec.BitOrder = bitstream.LSBFirst
	case "msb":
		spec.BitOrder = bitstream.MSBFirst
	default:
		return nil, &InvalidSpecError{Reason: fmt.Sprintf("unknown bit_order %q", sf.BitOrder)}
	}

	switch sf.Parity {
	case "", "none":
		spec.Parity = ParityNone
	case "odd":
		spec.Parity = ParityOdd
	case "even":
		spec.Parity = ParityEven
	case "swapped-odd":
		spec.Parity = ParitySwappedOdd
	case "swapped-even":
		spec.Parity = ParitySwappedEven
	default:
		return nil, &InvalidSpecError{Reason: fmt.Sprintf("unknown parity %q", sf.Parity)}
	}

	if sf.Charset == "" {
		return nil, &InvalidSpecError{Reason: "charset is required"}
	}
	dataBits := spec.BitsPerChar
	if spec.Parity != ParityNone {
		dataBits--
	}
	runes := []rune(sf.Charset)
	if len(runes) > 1<<dataBits {
		return nil, &InvalidSpecError{
			Reason: fmt.Sprintf("charset has %d characters but %d data bits hold at most %d", len(runes), dataBits, 1<<dataBits),
		}
	}
	mapping := make(map[byte]rune, len(runes))
	for i, r := range runes {
		mapping[byte(i)] = r
	}
	chars, err := NewCharMap(mapping)
	if err != nil {
		return nil, &InvalidSpecError{Reason: err.Error()}
	}
	spec.Chars = chars

	if spec.StartSentinel, err = sf.StartSentinel.resolve(spec); err != nil {
		return nil, err
	}
	if spec.EndSentinel, err = sf.EndSentinel.resolve(spec); err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (sf *sentinelFile) resolve(spec *Spec) (*Sentinel, error) {
	if sf == nil {
		return nil, nil
	}
	if sf.Char != "" {
		runes := []rune(sf.Char)
		if len(runes) != 1 {
			return nil, &InvalidSpecError{Reason: fmt.Sprintf("sentinel char %q must be a single character", sf.Char)}
		}
		return spec.sentinelFor(runes[0])
	}
	return &Sentinel{Bits: sf.Bits, Pattern: sf.Pattern}, nil
}
