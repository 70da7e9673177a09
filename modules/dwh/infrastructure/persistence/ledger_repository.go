package persistence

import (
	"context"

	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
	"github.com/iota-uz/freight-dwh/pkg/composables"
)

// LedgerRepository records which source files a run has seen. The ledger is
// append-only and keyed by file name, so reprocessing a day never duplicates
// entries.
type LedgerRepository struct{}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// Record inserts one ledger row unless the file name is already present.
// Reports whether a row was written.
func (r *LedgerRepository) Record(ctx context.Context, row *models.FileIngestion) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx,
		`INSERT INTO etl_file_ingestion (file_name, source, date_key, time_of_day, run_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (file_name) DO NOTHING`,
		row.FileName, row.Source, row.DateKey, nullStr(row.TimeOfDay), row.RunID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
