package decode

import (
	"strings"

	"go.uber.org/zap"

	"github.com/swipekit/magstripe/pkg/bitstream"
	"github.com/swipekit/magstripe/pkg/format"
)

// Output is the result of a successful decode.
type Output struct {
	// Format is the candidate that decoded the stream.
	Format format.Format

	// Data is the decoded record, sentinels excluded.
	Data string

	// LRCValid reports whether the record checksum validated. It is false
	// for raw formats (which carry no LRC) and for lenient decodes whose
	// LRC was missing or wrong.
	LRCValid bool
}

// Decoder tries an ordered, immutable list of candidate formats against a
// bit stream. A Decoder is stateless across calls and safe for concurrent
// use; every attempt runs on an independent cursor over the shared bytes.
type Decoder struct {
	formats  []format.Format
	logger   *zap.Logger
	lenient  bool
	maxNoise int
}

// NewDecoder creates a Decoder over the given candidate list. The list is
// copied; candidates are tried in the exact order provided.
func NewDecoder(formats []format.Format, opts ...Option) *Decoder {
	o := applyOpts(opts)
	return &Decoder{
		formats:  append([]format.Format(nil), formats...),
		logger:   o.logger,
		lenient:  o.lenient,
		maxNoise: o.maxNoise,
	}
}

// Decode tries each candidate format in order and returns the first decode
// that validates end-to-end. If every candidate fails, the returned
// NoValidFormatError reports the full candidate count and the per-format
// reasons.
func (d *Decoder) Decode(stream *bitstream.BitStream) (*Output, error) {
	if len(d.formats) == 0 {
		d.logger.Warn("no formats provided for decoding")
		return nil, ErrNoFormatsProvided
	}

	d.logger.Debug("starting decode",
		zap.Int("formats", len(d.formats)),
		zap.Int("bits", stream.Len()))

	attempts := make([]Attempt, 0, len(d.formats))
	for _, f := range d.formats {
		out, err := d.tryFormat(f, stream)
		if err != nil {
			d.logger.Debug("format failed",
				zap.String("format", f.Name()),
				zap.Error(err))
			attempts = append(attempts, Attempt{Format: f, Err: err})
			continue
		}
		d.logger.Debug("decoded",
			zap.String("format", f.Name()),
			zap.Int("chars", len(out.Data)),
			zap.Bool("lrc_valid", out.LRCValid))
		return out, nil
	}

	d.logger.Warn("failed to decode with any format", zap.Int("attempted", len(d.formats)))
	return nil, &NoValidFormatError{Attempted: len(d.formats), Attempts: attempts}
}

// tryFormat runs one candidate against a fresh view of the stream.
func (d *Decoder) tryFormat(f format.Format, stream *bitstream.BitStream) (*Output, error) {
	spec, err := f.Resolve()
	if err != nil {
		return nil, err
	}
	view, err := stream.Slice(0, stream.Len())
	if err != nil {
		return nil, err
	}
	data, lrcValid, err := d.decodeAttempt(view, spec)
	if err != nil {
		return nil, err
	}
	return &Output{Format: f, Data: data, LRCValid: lrcValid}, nil
}

func (d *Decoder) decodeAttempt(bs *bitstream.BitStream, spec *format.Spec) (string, bool, error) {
	if spec.StartSentinel == nil {
		return d.decodeRaw(bs, spec)
	}

	// Room for both sentinels plus at least one data character.
	if minimum := 3 * spec.BitsPerChar; bs.Len() < minimum {
		return "", false, &bitstream.TooShortError{BitCount: bs.Len(), MinimumRequired: minimum}
	}

	start, err := findStart(bs, spec, d.maxNoise)
	if err != nil {
		return "", false, err
	}
	d.logger.Debug("found start sentinel",
		zap.String("format", spec.Name),
		zap.Int("offset", start))

	var lrc lrcAccumulator
	lrc.add(spec.DataBits(spec.StartSentinel.Pattern))
	if err := bs.Seek(start + spec.StartSentinel.Bits); err != nil {
		return "", false, err
	}

	end := spec.EndSentinel
	var sb strings.Builder
	pos := 0
	for {
		if rawEnd, err := bs.PeekBits(end.Bits, spec.BitOrder); err == nil &&
			spec.Normalize(rawEnd, end.Bits) == end.Pattern {
			lrc.add(spec.DataBits(end.Pattern))
			if err := bs.Seek(bs.Pos() + end.Bits); err != nil {
				return "", false, err
			}
			return d.checkLRC(bs, spec, &lrc, sb.String())
		}

		raw, err := bs.ReadBits(spec.BitsPerChar, spec.BitOrder)
		if err != nil {
			return "", false, ErrNoEndSentinel
		}
		v := spec.Normalize(raw, spec.BitsPerChar)
		if !checkParity(v, spec.Parity) {
			return "", false, &ParityError{Position: pos}
		}
		data := spec.DataBits(v)
		r, ok := spec.Chars.Char(data)
		if !ok {
			return "", false, &InvalidCharacterError{Value: data, Position: pos}
		}
		lrc.add(data)
		sb.WriteRune(r)
		pos++
	}
}

// checkLRC reads the transmitted LRC character after the end sentinel and
// compares it to the accumulated record checksum. Truncation before the
// LRC character and mismatches are tolerated in lenient mode.
func (d *Decoder) checkLRC(bs *bitstream.BitStream, spec *format.Spec, lrc *lrcAccumulator, data string) (string, bool, error) {
	if data == "" {
		return "", false, ErrEmptyRecord
	}
	raw, err := bs.ReadBits(spec.BitsPerChar, spec.BitOrder)
	if err != nil {
		if d.lenient {
			return data, false, nil
		}
		return "", false, err
	}
	transmitted := spec.Normalize(raw, spec.BitsPerChar)
	if transmitted != lrc.expected(spec) {
		d.logger.Debug("LRC mismatch",
			zap.String("format", spec.Name),
			zap.Uint8("transmitted", transmitted),
			zap.Uint8("computed", lrc.expected(spec)))
		if d.lenient {
			return data, false, nil
		}
		return "", false, ErrLRCCheckFailed
	}
	return data, true, nil
}

// decodeRaw treats the remainder of the stream after the header skip as
// data directly: no sentinels, no LRC.
func (d *Decoder) decodeRaw(bs *bitstream.BitStream, spec *format.Spec) (string, bool, error) {
	if spec.SkipBits > 0 {
		if spec.SkipBits > bs.Len() {
			return "", false, &bitstream.TooShortError{BitCount: bs.Len(), MinimumRequired: spec.SkipBits}
		}
		if err := bs.Seek(spec.SkipBits); err != nil {
			return "", false, err
		}
	}

	var sb strings.Builder
	pos := 0
	for bs.Remaining() >= spec.BitsPerChar {
		raw, err := bs.ReadBits(spec.BitsPerChar, spec.BitOrder)
		if err != nil {
			return "", false, err
		}
		v := spec.Normalize(raw, spec.BitsPerChar)
		if !checkParity(v, spec.Parity) {
			return "", false, &ParityError{Position: pos}
		}
		data := spec.DataBits(v)
		r, ok := spec.Chars.Char(data)
		if !ok {
			return "", false, &InvalidCharacterError{Value: data, Position: pos}
		}
		sb.WriteRune(r)
		pos++
	}
	if sb.Len() == 0 {
		return "", false, ErrEmptyRecord
	}
	return sb.String(), false, nil
}
