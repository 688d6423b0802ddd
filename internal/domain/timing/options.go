package timing

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithSequentialGaps makes the aggregator attach per-field gaps to every
// emitted shot.
func WithSequentialGaps() Option {
	return func(a *Aggregator) {
		a.sequentialGaps = true
	}
}
