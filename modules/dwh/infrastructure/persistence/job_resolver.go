package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/pkg/composables"
)

// ResolveJob maps a (job type, job key) pair to its dim_job surrogate key.
// Unlike the scalar dimensions the natural key is compound, so it gets its
// own path instead of a DimTable entry. Results share the run cache.
func (r *DimensionResolver) ResolveJob(ctx context.Context, ref domain.JobRef) (int64, error) {
	jobType := domain.CleanString(ref.Type)
	jobKey := domain.CleanString(ref.Key)
	if jobType == "" || jobKey == "" {
		return 0, ErrInvalidKey.WithDetails("dim_job")
	}

	ck := cacheKey{table: "dim_job", code: jobType + "\x00" + jobKey}
	if key, ok := r.cache.keys[ck]; ok {
		return key, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var key int64
	err = tx.QueryRow(ctx,
		`SELECT job_dim_key FROM dim_job WHERE job_type = $1 AND job_key = $2`,
		jobType, jobKey,
	).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT absorbs a concurrent insert of the same pair; the
		// follow-up select then finds the winner's row.
		err = tx.QueryRow(ctx,
			`INSERT INTO dim_job (job_type, job_key) VALUES ($1, $2)
			 ON CONFLICT (job_type, job_key) DO UPDATE SET updated_at = now()
			 RETURNING job_dim_key`,
			jobType, jobKey,
		).Scan(&key)
	}
	if err != nil {
		return 0, err
	}

	r.cache.keys[ck] = key
	return key, nil
}
