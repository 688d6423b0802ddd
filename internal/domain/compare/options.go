package compare

// Default comparison constants.
const (
	defaultOutlierFactor = 2.0
	defaultTieThreshold  = 0.005
)

// Option applies a configuration option to the Comparator.
type Option func(*Comparator)

// WithOutlierFactor sets how many mean absolute deltas a position may drift
// before it is flagged.
func WithOutlierFactor(factor float64) Option {
	return func(c *Comparator) {
		if factor > 0 {
			c.outlierFactor = factor
		}
	}
}

// WithTieThreshold sets the dead zone, in seconds, inside which a total
// latency delta counts as a tie.
func WithTieThreshold(seconds float64) Option {
	return func(c *Comparator) {
		if seconds >= 0 {
			c.tieThreshold = seconds
		}
	}
}
