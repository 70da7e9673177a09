package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/pkg/composables"
	"github.com/iota-uz/freight-dwh/pkg/serrors"
)

var (
	// ErrInvalidKey is returned when a natural key is empty after normalization.
	ErrInvalidKey = serrors.NewError("DIM_INVALID_KEY", "dimension natural key is empty after normalization", "")

	// ErrSchemaMismatch marks a typed upsert the fast path could not complete
	// (concurrent insert of the same natural key, or a column the table does
	// not carry). Resolve rolls the failed try back to its savepoint and
	// branches to the dynamic builder.
	ErrSchemaMismatch = serrors.NewError("DIM_SCHEMA_MISMATCH", "typed dimension upsert failed, dynamic fallback required", "")
)

// Attributes is the descriptive column set of one dimension row, keyed by
// column name. String values are whitespace-normalized before use.
type Attributes map[string]any

type cacheKey struct {
	table string
	code  string
}

// dimCache holds per-run surrogate keys and attribute signatures. It is
// process-local, unbounded for the run, and assumes a single writer.
type dimCache struct {
	keys map[cacheKey]int64
	sigs map[cacheKey]string
}

func newDimCache() *dimCache {
	return &dimCache{
		keys: make(map[cacheKey]int64),
		sigs: make(map[cacheKey]string),
	}
}

// DimensionResolver maps natural keys to surrogate keys, creating or updating
// dimension rows as needed. One resolver is scoped to one run and discarded
// with it; its caches are never shared across runs.
type DimensionResolver struct {
	log   *logrus.Logger
	cache *dimCache
}

func NewDimensionResolver(log *logrus.Logger) *DimensionResolver {
	return &DimensionResolver{log: log, cache: newDimCache()}
}

// Resolve returns the surrogate key for (table, code), inserting or updating
// the row when required. An unchanged cache hit issues zero statements.
func (r *DimensionResolver) Resolve(ctx context.Context, table DimTable, code string, attrs Attributes) (int64, error) {
	code = domain.CleanString(code)
	if code == "" {
		return 0, ErrInvalidKey.WithDetails(table.Name)
	}

	cols, vals := normalizeAttrs(table, code, attrs)
	sig := attrSignature(cols, vals)
	ck := cacheKey{table: table.Name, code: code}

	if key, ok := r.cache.keys[ck]; ok {
		if len(cols) > 0 && r.cache.sigs[ck] != sig {
			err := withSavepoint(ctx, func(ctx context.Context) error {
				return r.updateAttrs(ctx, table, code, cols, vals)
			})
			if errors.Is(err, ErrSchemaMismatch) {
				r.logFallback(table, code, err)
				_, err = r.fallbackResolve(ctx, table, code, cols, vals)
			}
			if err != nil {
				return 0, err
			}
			r.cache.sigs[ck] = sig
		}
		return key, nil
	}

	var key int64
	err := withSavepoint(ctx, func(ctx context.Context) error {
		k, ferr := r.fastResolve(ctx, table, code, cols, vals)
		key = k
		return ferr
	})
	if errors.Is(err, ErrSchemaMismatch) {
		r.logFallback(table, code, err)
		key, err = r.fallbackResolve(ctx, table, code, cols, vals)
	}
	if err != nil {
		return 0, err
	}

	r.cache.keys[ck] = key
	r.cache.sigs[ck] = sig
	return key, nil
}

// ResolveCodeName is a convenience for the common code/name dimension shape.
func (r *DimensionResolver) ResolveCodeName(ctx context.Context, table DimTable, ref domain.CodeName, extra Attributes) (int64, error) {
	attrs := Attributes{}
	for k, v := range extra {
		attrs[k] = v
	}
	if table.NameColumn != "" {
		attrs[table.NameColumn] = ref.Name
	}
	return r.Resolve(ctx, table, ref.Code, attrs)
}

// ResolveCodeDesc mirrors ResolveCodeName for code/description dimensions.
func (r *DimensionResolver) ResolveCodeDesc(ctx context.Context, table DimTable, ref domain.CodeDesc, extra Attributes) (int64, error) {
	attrs := Attributes{}
	for k, v := range extra {
		attrs[k] = v
	}
	if table.NameColumn != "" {
		attrs[table.NameColumn] = ref.Description
	}
	return r.Resolve(ctx, table, ref.Code, attrs)
}

// Lookup returns the cached or stored surrogate key without writing. Used
// where a reference must not create rows (e.g. country inferred from a port
// code prefix).
func (r *DimensionResolver) Lookup(ctx context.Context, table DimTable, code string) (int64, bool, error) {
	code = domain.CleanString(code)
	if code == "" {
		return 0, false, nil
	}
	ck := cacheKey{table: table.Name, code: code}
	if key, ok := r.cache.keys[ck]; ok {
		return key, true, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, false, err
	}
	var key int64
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, table.KeyColumn, table.Name, table.CodeColumn),
		code,
	).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	r.cache.keys[ck] = key
	return key, true, nil
}

// normalizeAttrs cleans string attribute values, drops nils, defaults the
// display-name column to the natural key, and orders columns
// deterministically.
func normalizeAttrs(table DimTable, code string, attrs Attributes) ([]string, []any) {
	merged := make(Attributes, len(attrs)+1)
	for k, v := range attrs {
		if s, ok := v.(string); ok {
			cleaned := domain.CleanString(s)
			if cleaned == "" && k != table.NameColumn {
				continue
			}
			merged[k] = cleaned
			continue
		}
		if v == nil {
			continue
		}
		merged[k] = v
	}
	if table.NameColumn != "" {
		if s, ok := merged[table.NameColumn].(string); !ok || s == "" {
			merged[table.NameColumn] = code
		}
	}

	cols := make([]string, 0, len(merged))
	for k := range merged {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	vals := make([]any, 0, len(cols))
	for _, c := range cols {
		vals = append(vals, merged[c])
	}
	return cols, vals
}

func attrSignature(cols []string, vals []any) string {
	var b strings.Builder
	for i, c := range cols {
		fmt.Fprintf(&b, "%s=%v;", c, vals[i])
	}
	return b.String()
}

// withSavepoint runs one fast-path try in a nested transaction. Postgres
// rejects every statement after a failed one until the transaction is rolled
// back, so the try must land in its own savepoint and be discarded before the
// dynamic fallback issues statements on the outer scope. A carrier that
// cannot open a nested scope runs the try directly.
func withSavepoint(ctx context.Context, fn func(context.Context) error) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	starter, ok := tx.(interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	})
	if !ok {
		return fn(ctx)
	}
	nested, err := starter.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(composables.WithTx(ctx, nested)); err != nil {
		_ = nested.Rollback(ctx)
		return err
	}
	return nested.Commit(ctx)
}

func (r *DimensionResolver) updateAttrs(ctx context.Context, table DimTable, code string, cols []string, vals []any) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(vals)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
		args = append(args, vals[i])
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, code)
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = $%d`,
		table.Name, strings.Join(sets, ", "), table.CodeColumn, len(args),
	)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return wrapSchemaMismatch(err, table)
	}
	return nil
}

// fastResolve is the straight-line path: update attributes by natural key,
// select the surrogate key, insert when no row exists.
func (r *DimensionResolver) fastResolve(ctx context.Context, table DimTable, code string, cols []string, vals []any) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	if len(cols) > 0 {
		if err := r.updateAttrs(ctx, table, code, cols, vals); err != nil {
			return 0, err
		}
	}

	var key int64
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, table.KeyColumn, table.Name, table.CodeColumn),
		code,
	).Scan(&key)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	insertCols := append([]string{table.CodeColumn}, cols...)
	placeholders := make([]string, len(insertCols))
	for i := range insertCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	args := append([]any{code}, vals...)
	err = tx.QueryRow(ctx,
		fmt.Sprintf(
			`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
			table.Name, strings.Join(insertCols, ", "), strings.Join(placeholders, ", "), table.KeyColumn,
		),
		args...,
	).Scan(&key)
	if err != nil {
		return 0, wrapSchemaMismatch(err, table)
	}
	return key, nil
}

// fallbackResolve is the dynamic per-table path used after a fast-path
// mismatch: explicit existence check, then a builder-generated update or
// insert restricted to the columns the statement actually needs.
func (r *DimensionResolver) fallbackResolve(ctx context.Context, table DimTable, code string, cols []string, vals []any) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(table.KeyColumn).From(table.Name)
	sb.Where(sb.Equal(table.CodeColumn, code))
	query, args := sb.Build()

	var key int64
	err = tx.QueryRow(ctx, query, args...).Scan(&key)
	switch {
	case err == nil:
		if len(cols) == 0 {
			return key, nil
		}
		ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		ub.Update(table.Name)
		assignments := make([]string, 0, len(cols)+1)
		for i, c := range cols {
			assignments = append(assignments, ub.Assign(c, vals[i]))
		}
		assignments = append(assignments, "updated_at = now()")
		ub.Set(assignments...)
		ub.Where(ub.Equal(table.CodeColumn, code))
		query, args = ub.Build()
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, err
		}
		return key, nil
	case errors.Is(err, pgx.ErrNoRows):
		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto(table.Name)
		ib.Cols(append([]string{table.CodeColumn}, cols...)...)
		ib.Values(append([]any{code}, vals...)...)
		query, args = ib.Build()
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, err
		}
		query, args = sb.Build()
		if err := tx.QueryRow(ctx, query, args...).Scan(&key); err != nil {
			return 0, err
		}
		return key, nil
	default:
		return 0, err
	}
}

func (r *DimensionResolver) logFallback(table DimTable, code string, err error) {
	if r.log == nil {
		return
	}
	r.log.WithFields(logrus.Fields{
		"table": table.Name,
		"code":  code,
	}).Debugf("dimension fast path fell back: %v", err)
}

// wrapSchemaMismatch classifies the two recoverable fast-path failures:
// a unique-violation race on the natural key and a column the live table
// does not carry.
func wrapSchemaMismatch(err error, table DimTable) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "42703": // unique_violation, undefined_column
			return fmt.Errorf("%w: %v", ErrSchemaMismatch.WithDetails(table.Name), err)
		}
	}
	return err
}
