package decode

import (
	"math/bits"

	"github.com/swipekit/magstripe/pkg/format"
)

// checkParity validates a character value against the configured polarity.
// The parity bit's position within the character does not matter here: the
// popcount over all bits is position-independent. The swapped layouts only
// change which bits form the data value (see format.Spec.DataBits).
func checkParity(v byte, parity format.Parity) bool {
	if parity == format.ParityNone {
		return true
	}
	odd := bits.OnesCount8(v)%2 == 1
	return odd == parity.Odd()
}
