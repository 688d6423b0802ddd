package repository

import "time"

// Option applies a configuration option to the BunStore.
type Option func(*BunStore)

// WithClock sets the time source used for match creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BunStore) {
		if now != nil {
			s.now = now
		}
	}
}
