package decode

import (
	"errors"
	"fmt"

	"github.com/swipekit/magstripe/pkg/format"
)

// Errors
var (
	ErrNoFormatsProvided = errors.New("no formats provided for decoding")
	ErrNoStartSentinel   = errors.New("invalid or missing start sentinel")
	ErrNoEndSentinel     = errors.New("invalid or missing end sentinel")
	ErrLRCCheckFailed    = errors.New("LRC check failed")
	ErrEmptyRecord       = errors.New("record contains no data characters")
)

// ParityError reports a parity mismatch. Position is the 0-based index of
// the character within the record, counted from the first data character
// after the start sentinel.
type ParityError struct {
	Position int
}

func (e *ParityError) Error() string {
	return fmt.Sprintf("parity check failed at character %d", e.Position)
}

// InvalidCharacterError reports a data-bit pattern with no entry in the
// format's character map.
type InvalidCharacterError struct {
	Value    byte
	Position int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character at position %d: %#b", e.Position, e.Value)
}

// Attempt records the outcome of one candidate format.
type Attempt struct {
	Format format.Format
	Err    error
}

// NoValidFormatError reports that every candidate format failed. Attempted
// is always the full candidate count; Attempts retains the per-format
// reasons for diagnostics.
type NoValidFormatError struct {
	Attempted int
	Attempts  []Attempt
}

func (e *NoValidFormatError) Error() string {
	return fmt.Sprintf("failed to decode with any of the %d provided formats", e.Attempted)
}
