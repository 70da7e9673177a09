package composables_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/pkg/composables"
)

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (nopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (nopTx) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestUseTx_RoundTrip(t *testing.T) {
	ctx := composables.WithTx(context.Background(), nopTx{})
	tx, err := composables.UseTx(ctx)
	require.NoError(t, err)
	require.Equal(t, nopTx{}, tx)
}

func TestUseTx_MissingTx(t *testing.T) {
	_, err := composables.UseTx(context.Background())
	require.ErrorIs(t, err, composables.ErrNoTx)
}
