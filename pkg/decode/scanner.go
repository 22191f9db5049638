package decode

import (
	"github.com/swipekit/magstripe/pkg/bitstream"
	"github.com/swipekit/magstripe/pkg/format"
)

// findStart locates the start sentinel, sliding a sentinel-width window bit
// by bit from the spec's header skip. The search is bounded: the sentinel
// must begin within maxNoise bits of the search origin. Returns the bit
// offset of the sentinel.
func findStart(bs *bitstream.BitStream, spec *format.Spec, maxNoise int) (int, error) {
	sen := spec.StartSentinel
	limit := bs.Len() - sen.Bits
	if bound := spec.SkipBits + maxNoise; limit > bound {
		limit = bound
	}
	for off := spec.SkipBits; off <= limit; off++ {
		raw, err := bs.ExtractBits(off, sen.Bits, spec.BitOrder)
		if err != nil {
			break
		}
		if spec.Normalize(raw, sen.Bits) == sen.Pattern {
			return off, nil
		}
	}
	return 0, ErrNoStartSentinel
}
