package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/pkg/metrics"
)

// BunStore is a Store backed by a relational database through bun.
type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*BunStore)(nil)

// NewBunStore wraps an open bun database. Call CreateSchema before use on a
// fresh database.
func NewBunStore(db *bun.DB, opts ...Option) *BunStore {
	s := &BunStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying bun handle.
func (s *BunStore) DB() *bun.DB {
	return s.db
}

// CreateSchema creates the matches and shots tables if they do not exist.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*matchRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create matches table: %w", err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*shotRow)(nil)).
		IfNotExists().
		ForeignKey(`("match_id") REFERENCES "matches" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create shots table: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*shotRow)(nil)).
		Index("shots_match_id_idx").
		Column("match_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create shots index: %w", err)
	}
	return nil
}

// ReplaceShots upserts the match and swaps its shots atomically.
func (s *BunStore) ReplaceShots(ctx context.Context, matchNumber, description string, shots []model.Shot) (model.Match, error) {
	defer observe("replace_shots", time.Now())

	var m matchRow
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		found, err := s.findMatch(ctx, tx, matchNumber)
		switch {
		case errors.Is(err, ErrNotFound):
			created := &matchRow{MatchNumber: matchNumber, Description: description, CreatedAt: s.now()}
			if _, err := tx.NewInsert().Model(created).Exec(ctx); err != nil {
				return fmt.Errorf("insert match: %w", err)
			}
			if found, err = s.findMatch(ctx, tx, matchNumber); err != nil {
				return err
			}
		case err != nil:
			return err
		case description != "" && found.Description != description:
			found.Description = description
			if _, err := tx.NewUpdate().Model(&found).Column("description").WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("update description: %w", err)
			}
		}
		m = found

		if _, err := tx.NewDelete().Model((*shotRow)(nil)).Where("match_id = ?", m.ID).Exec(ctx); err != nil {
			return fmt.Errorf("delete shots: %w", err)
		}
		if len(shots) == 0 {
			return nil
		}
		rows := make([]shotRow, len(shots))
		for i, shot := range shots {
			rows[i] = newShotRow(m.ID, shot)
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert shots: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.RecordRepositoryError("replace_shots")
		return model.Match{}, err
	}
	return m.toModel(len(shots)), nil
}

// GetMatch loads a match and its shots.
func (s *BunStore) GetMatch(ctx context.Context, matchNumber string) (model.Match, []model.Shot, error) {
	defer observe("get_match", time.Now())

	m, err := s.findMatch(ctx, s.db, matchNumber)
	if err != nil {
		return model.Match{}, nil, err
	}

	var rows []shotRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("match_id = ?", m.ID).
		Order("id ASC").
		Scan(ctx); err != nil {
		metrics.RecordRepositoryError("get_match")
		return model.Match{}, nil, fmt.Errorf("select shots: %w", err)
	}

	shots := make([]model.Shot, len(rows))
	for i, r := range rows {
		shots[i] = r.toModel()
	}
	return m.toModel(len(shots)), shots, nil
}

// ListMatches returns every match with its shot count, newest first.
func (s *BunStore) ListMatches(ctx context.Context) ([]model.Match, error) {
	defer observe("list_matches", time.Now())

	var rows []matchSummary
	err := s.db.NewSelect().
		TableExpr("matches AS m").
		ColumnExpr("m.id, m.match_number, m.description, m.created_at").
		ColumnExpr("COUNT(s.id) AS shot_count").
		Join("LEFT JOIN shots AS s ON s.match_id = m.id").
		GroupExpr("m.id, m.match_number, m.description, m.created_at").
		OrderExpr("m.created_at DESC, m.id DESC").
		Scan(ctx, &rows)
	if err != nil {
		metrics.RecordRepositoryError("list_matches")
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]model.Match, len(rows))
	for i, r := range rows {
		out[i] = model.Match{
			ID:          r.ID,
			MatchNumber: r.MatchNumber,
			Description: r.Description,
			CreatedAt:   r.CreatedAt,
			ShotCount:   r.ShotCount,
		}
	}
	return out, nil
}

// DeleteMatch removes the match and its shots in one transaction.
func (s *BunStore) DeleteMatch(ctx context.Context, matchNumber string) error {
	defer observe("delete_match", time.Now())

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m, err := s.findMatch(ctx, tx, matchNumber)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*shotRow)(nil)).Where("match_id = ?", m.ID).Exec(ctx); err != nil {
			return fmt.Errorf("delete shots: %w", err)
		}
		if _, err := tx.NewDelete().Model(&m).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordRepositoryError("delete_match")
	}
	return err
}

// CountMatches returns the number of stored matches.
func (s *BunStore) CountMatches(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*matchRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) findMatch(ctx context.Context, db bun.IDB, matchNumber string) (matchRow, error) {
	var m matchRow
	err := db.NewSelect().Model(&m).Where("match_number = ?", matchNumber).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return matchRow{}, fmt.Errorf("%w: %s", ErrNotFound, matchNumber)
	}
	if err != nil {
		return matchRow{}, fmt.Errorf("select match: %w", err)
	}
	return m, nil
}

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}
