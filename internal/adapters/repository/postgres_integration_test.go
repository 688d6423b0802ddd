//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/okian/smtgolf/internal/adapters/repository"
	"github.com/okian/smtgolf/internal/domain/model"
)

func TestBunStore_Postgres(t *testing.T) {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("golf"),
		postgres.WithUsername("golf"),
		postgres.WithPassword("golf"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := repository.Open(ctx, repository.DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.ReplaceShots(ctx, "PG1", "league night", []model.Shot{
		shot("Ana", 1, 1, 250, 1200),
		shot("Bo", 1, 2, 230, 900),
	})
	require.NoError(t, err)

	_, err = store.ReplaceShots(ctx, "PG1", "", []model.Shot{shot("Cy", 2, 1, 210, 800)})
	require.NoError(t, err)

	m, shots, err := store.GetMatch(ctx, "PG1")
	require.NoError(t, err)
	require.Equal(t, "league night", m.Description)
	require.Len(t, shots, 1)
	require.Equal(t, "Cy", shots[0].Golfer)
	require.Nil(t, shots[0].Apex)

	list, err := store.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, list[0].ShotCount)

	require.NoError(t, store.DeleteMatch(ctx, "PG1"))
	require.True(t, errors.Is(store.DeleteMatch(ctx, "PG1"), repository.ErrNotFound))
}
