package decode

import "github.com/swipekit/magstripe/pkg/format"

// lrcAccumulator folds the data bits of each accepted character into a
// running longitudinal redundancy check. The start and end sentinels are
// included; the transmitted LRC character itself is not.
type lrcAccumulator struct {
	sum byte
}

func (a *lrcAccumulator) add(dataBits byte) {
	a.sum ^= dataBits
}

// expected returns the LRC character the record should carry: the XOR of
// the accumulated data bits with the parity bit completed per the spec's
// scheme.
func (a *lrcAccumulator) expected(spec *format.Spec) byte {
	return spec.EncodeChar(a.sum)
}
