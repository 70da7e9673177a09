package persistence_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/pkg/composables"
)

type fakeRow struct {
	err error
	val int64
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

// fakeTx emulates a dimension table keyed by its natural code. It counts
// statements so tests can assert the zero-write cache contract, and it
// mimics the session poisoning a real transaction suffers after any failed
// statement: everything is rejected until a nested scope rolls back.
type fakeTx struct {
	rows    map[string]int64
	next    int64
	execs   int
	queries int

	// insertConflict simulates a concurrent writer: the next typed INSERT
	// fails with a unique violation after the winning row appears.
	insertConflict bool

	aborted   bool
	saves     int
	rollbacks int
}

func newFakeTx() *fakeTx {
	return &fakeTx{rows: make(map[string]int64)}
}

func (f *fakeTx) statements() int { return f.execs + f.queries }

func abortedErr() *pgconn.PgError {
	return &pgconn.PgError{Code: "25P02", Message: "current transaction is aborted, commands ignored until end of transaction block"}
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs++
	if f.aborted {
		return pgconn.CommandTag{}, abortedErr()
	}
	if strings.HasPrefix(sql, "INSERT") && len(args) > 0 {
		if code, ok := args[0].(string); ok {
			f.next++
			f.rows[code] = f.next
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (f *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries++
	if f.aborted {
		return fakeRow{err: abortedErr()}
	}
	code, _ := args[0].(string)
	if strings.HasPrefix(sql, "SELECT") {
		if key, ok := f.rows[code]; ok {
			return fakeRow{val: key}
		}
		return fakeRow{err: pgx.ErrNoRows}
	}
	// INSERT ... RETURNING
	if f.insertConflict {
		f.insertConflict = false
		f.aborted = true
		f.next++
		f.rows[code] = f.next
		return fakeRow{err: &pgconn.PgError{Code: "23505"}}
	}
	f.next++
	f.rows[code] = f.next
	return fakeRow{val: f.next}
}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	f.saves++
	return &fakeSavepoint{parent: f}, nil
}

// fakeSavepoint stands in for a nested transaction. Statements still hit the
// parent; rollback clears the aborted flag the way ROLLBACK TO SAVEPOINT
// revives a session, while the concurrent winner's row stays because it was
// never part of this scope.
type fakeSavepoint struct {
	parent *fakeTx
}

func (s *fakeSavepoint) Begin(ctx context.Context) (pgx.Tx, error) { return s.parent.Begin(ctx) }

func (s *fakeSavepoint) Commit(context.Context) error { return nil }

func (s *fakeSavepoint) Rollback(context.Context) error {
	s.parent.rollbacks++
	s.parent.aborted = false
	return nil
}

func (s *fakeSavepoint) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.parent.Exec(ctx, sql, args...)
}

func (s *fakeSavepoint) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.parent.Query(ctx, sql, args...)
}

func (s *fakeSavepoint) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.parent.QueryRow(ctx, sql, args...)
}

func (s *fakeSavepoint) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("unexpected CopyFrom")
}

func (s *fakeSavepoint) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}

func (s *fakeSavepoint) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (s *fakeSavepoint) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("unexpected Prepare")
}

func (s *fakeSavepoint) Conn() *pgx.Conn { return nil }

func txContext(tx *fakeTx) context.Context {
	return composables.WithTx(context.Background(), tx)
}

func TestResolve_InsertsThenCaches(t *testing.T) {
	tx := newFakeTx()
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	attrs := persistence.Attributes{"name": "United States"}
	key, err := r.Resolve(ctx, persistence.DimCountry, "US", attrs)
	require.NoError(t, err)
	require.Equal(t, int64(1), key)

	before := tx.statements()
	again, err := r.Resolve(ctx, persistence.DimCountry, "US", attrs)
	require.NoError(t, err)
	require.Equal(t, key, again)
	require.Equal(t, before, tx.statements(), "unchanged cache hit must issue no statements")
}

func TestResolve_NormalizesCodeBeforeCaching(t *testing.T) {
	tx := newFakeTx()
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	key, err := r.Resolve(ctx, persistence.DimPort, "  USNYC ", nil)
	require.NoError(t, err)

	before := tx.statements()
	again, err := r.Resolve(ctx, persistence.DimPort, "USNYC", nil)
	require.NoError(t, err)
	require.Equal(t, key, again)
	require.Equal(t, before, tx.statements())
}

func TestResolve_ChangedAttrsIssueSingleUpdate(t *testing.T) {
	tx := newFakeTx()
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	_, err := r.Resolve(ctx, persistence.DimCountry, "US", persistence.Attributes{"name": "United States"})
	require.NoError(t, err)

	execsBefore := tx.execs
	queriesBefore := tx.queries
	_, err = r.Resolve(ctx, persistence.DimCountry, "US", persistence.Attributes{"name": "USA"})
	require.NoError(t, err)
	require.Equal(t, execsBefore+1, tx.execs, "changed attrs update the row once")
	require.Equal(t, queriesBefore, tx.queries, "the cached key needs no lookup")
}

func TestResolve_EmptyCodeFails(t *testing.T) {
	r := persistence.NewDimensionResolver(nil)
	_, err := r.Resolve(txContext(newFakeTx()), persistence.DimCountry, "   ", nil)
	require.ErrorIs(t, err, persistence.ErrInvalidKey)
}

func TestResolve_UniqueViolationFallsBack(t *testing.T) {
	tx := newFakeTx()
	tx.insertConflict = true
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	key, err := r.Resolve(ctx, persistence.DimCurrency, "USD", persistence.Attributes{"description": "US Dollar"})
	require.NoError(t, err)
	require.NotZero(t, key, "fallback must find the concurrently inserted row")

	before := tx.statements()
	again, err := r.Resolve(ctx, persistence.DimCurrency, "USD", persistence.Attributes{"description": "US Dollar"})
	require.NoError(t, err)
	require.Equal(t, key, again)
	require.Equal(t, before, tx.statements())
}

func TestResolve_FallbackRunsOnCleanScope(t *testing.T) {
	tx := newFakeTx()
	tx.insertConflict = true
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	key, err := r.Resolve(ctx, persistence.DimCountry, "NL", persistence.Attributes{"name": "Netherlands"})
	require.NoError(t, err)
	require.NotZero(t, key)
	require.NotZero(t, tx.saves, "the fast-path try must run in a nested scope")
	require.NotZero(t, tx.rollbacks, "the failed try must be rolled back before the fallback queries")
	require.False(t, tx.aborted, "the transaction must be usable after the fallback")
}

func TestLookup_NeverCreates(t *testing.T) {
	tx := newFakeTx()
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	_, found, err := r.Lookup(ctx, persistence.DimCountry, "ZZ")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, tx.rows)
}

func TestResolveJob_CompoundKeyCached(t *testing.T) {
	tx := newFakeTx()
	ctx := txContext(tx)
	r := persistence.NewDimensionResolver(nil)

	ref := domain.JobRef{Type: "ForwardingShipment", Key: "S00123456"}
	key, err := r.ResolveJob(ctx, ref)
	require.NoError(t, err)

	before := tx.statements()
	again, err := r.ResolveJob(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, key, again)
	require.Equal(t, before, tx.statements())

	_, err = r.ResolveJob(ctx, domain.JobRef{Type: "ForwardingShipment"})
	require.ErrorIs(t, err, persistence.ErrInvalidKey)
}
