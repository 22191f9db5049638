package decode

import "go.uber.org/zap"

// DefaultMaxLeadingNoiseBits bounds the start-sentinel search: the sentinel
// must begin within this many bits of the head of the stream. The default
// absorbs the head gap seen on real swipes while keeping false sentinel
// matches in long noise runs unlikely.
const DefaultMaxLeadingNoiseBits = 64

type options struct {
	logger   *zap.Logger
	lenient  bool
	maxNoise int
}

func applyOpts(opts []Option) options {
	o := options{
		logger:   zap.NewNop(),
		maxNoise: DefaultMaxLeadingNoiseBits,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Decoder.
type Option func(*options)

// WithLogger sets the logger used for attempt-level diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Lenient tolerates a missing or mismatched LRC: the decode succeeds and
// Output.LRCValid reports false. Parity and sentinel failures still fail.
func Lenient() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithMaxLeadingNoise sets the leading-noise tolerance window, in bits,
// for the start-sentinel search.
func WithMaxLeadingNoise(bits int) Option {
	return func(o *options) {
		o.maxNoise = bits
	}
}
