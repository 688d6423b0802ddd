// Package repository persists matches and their shots.
package repository

import (
	"context"

	"github.com/okian/smtgolf/internal/domain/model"
)

// Store provides read/write access to stored matches.
type Store interface {
	// ReplaceShots upserts the match by number and replaces all of its shots
	// in one transaction. A non-empty description overwrites the stored one.
	ReplaceShots(ctx context.Context, matchNumber, description string, shots []model.Shot) (model.Match, error)

	// GetMatch returns a match and its shots in insertion order.
	// Returns ErrNotFound if the match is unknown.
	GetMatch(ctx context.Context, matchNumber string) (model.Match, []model.Shot, error)

	// ListMatches returns all matches with shot counts, newest first.
	ListMatches(ctx context.Context) ([]model.Match, error)

	// DeleteMatch removes a match and its shots.
	// Returns ErrNotFound if the match is unknown.
	DeleteMatch(ctx context.Context, matchNumber string) error

	// CountMatches returns the number of stored matches.
	CountMatches(ctx context.Context) (int, error)

	Close() error
}
