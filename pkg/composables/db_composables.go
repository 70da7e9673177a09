package composables

import (
	"context"
	"errors"

	"github.com/iota-uz/freight-dwh/pkg/constants"
	"github.com/iota-uz/freight-dwh/pkg/repo"
)

var ErrNoTx = errors.New("no transaction found in context")

func WithTx(ctx context.Context, tx repo.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

func UseTx(ctx context.Context) (repo.Tx, error) {
	tx, ok := ctx.Value(constants.TxKey).(repo.Tx)
	if !ok {
		return nil, ErrNoTx
	}
	return tx, nil
}
