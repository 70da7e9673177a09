package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
	"github.com/iota-uz/freight-dwh/pkg/composables"
	"github.com/iota-uz/freight-dwh/pkg/eventbus"
)

const dateLayout = "20060102"

// Parser turns one source file into a document.
type Parser interface {
	ParseFile(path string) (*domain.Document, error)
}

// Ingester loads one document inside the caller's transaction scope.
type Ingester interface {
	IngestDocument(ctx context.Context, doc *domain.Document) error
	Counts() *RowCounts
}

// LoadOptions tune one load run.
type LoadOptions struct {
	// Only restricts the run to file names containing the substring.
	Only string
	// Limit stops after N files when positive.
	Limit int
	// Force reprocesses files the ledger has already seen.
	Force bool
	// ContinueOnError keeps going past a failed file instead of aborting.
	ContinueOnError bool
}

// LoadController walks a day's drop directory and drives ingestion with
// batched commits: files are processed sequentially inside an outer
// transaction that is committed every CommitEvery files, and each file runs
// in a nested transaction so a bad file rolls back alone.
type LoadController struct {
	pool        *pgxpool.Pool
	parser      Parser
	ingest      Ingester
	ledger      LedgerStore
	bus         eventbus.EventBus
	log         *logrus.Logger
	xmlRoot     string
	commitEvery int
}

func NewLoadController(
	pool *pgxpool.Pool,
	parser Parser,
	ingest Ingester,
	ledger LedgerStore,
	bus eventbus.EventBus,
	log *logrus.Logger,
	xmlRoot string,
	commitEvery int,
) *LoadController {
	if commitEvery < 1 {
		commitEvery = 1
	}
	return &LoadController{
		pool:        pool,
		parser:      parser,
		ingest:      ingest,
		ledger:      ledger,
		bus:         bus,
		log:         log,
		xmlRoot:     xmlRoot,
		commitEvery: commitEvery,
	}
}

// LoadDate ingests every eligible file under <xmlRoot>/<date>. A missing day
// folder is an error; an existing but empty one is a no-op run. The summary is
// returned alongside the error so a failed run still reports what it did.
func (c *LoadController) LoadDate(ctx context.Context, date string, opts LoadOptions) (*RunSummary, error) {
	started := time.Now()
	summary := &RunSummary{Date: date, Counts: c.ingest.Counts()}
	defer func() { summary.Elapsed = time.Since(started) }()

	if _, err := time.Parse(dateLayout, date); err != nil {
		return summary, fmt.Errorf("invalid date %q, want YYYYMMDD", date)
	}

	files, err := c.listFiles(date, opts)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		if c.log != nil {
			c.log.WithField("date", date).Info("no files to load")
		}
		return summary, nil
	}

	runID := uuid.NewString()
	dateKey := domain.DateKey(fmt.Sprintf("%s-%s-%s", date[:4], date[4:6], date[6:8]))

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "begin batch transaction")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	sinceCommit := 0
	for _, name := range files {
		if err := c.loadFile(ctx, tx, date, name, runID, dateKey, opts, summary); err != nil {
			summary.Failed++
			summary.FailedFiles = append(summary.FailedFiles, name)
			c.bus.Publish(FileFailed{FileName: name, Err: err})
			if c.log != nil {
				c.log.WithField("file", name).WithError(err).Error("file failed")
			}
			if !opts.ContinueOnError {
				// Commit the files that succeeded before the failure.
				if cerr := tx.Commit(ctx); cerr != nil {
					return summary, errors.Wrapf(cerr, "commit after failure in %s", name)
				}
				return summary, errors.Wrapf(err, "load %s", name)
			}
			continue
		}

		sinceCommit++
		if sinceCommit >= c.commitEvery {
			if err := tx.Commit(ctx); err != nil {
				return summary, errors.Wrap(err, "batch commit")
			}
			if tx, err = c.pool.Begin(ctx); err != nil {
				return summary, errors.Wrap(err, "begin batch transaction")
			}
			sinceCommit = 0
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, errors.Wrap(err, "final commit")
	}
	c.bus.Publish(RunCompleted{Summary: summary})
	return summary, nil
}

// LoadRange runs LoadDate over each day in [from, to], continuing past
// per-file failures and days without a drop folder, and merges the daily
// summaries.
func (c *LoadController) LoadRange(ctx context.Context, from, to string, opts LoadOptions) (*RunSummary, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q, want YYYYMMDD", from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q, want YYYYMMDD", to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s precedes start %s", to, from)
	}

	opts.ContinueOnError = true
	started := time.Now()
	total := &RunSummary{Date: from + ".." + to, Counts: c.ingest.Counts()}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, err := c.LoadDate(ctx, d.Format(dateLayout), opts)
		total.Processed += day.Processed
		total.Skipped += day.Skipped
		total.Failed += day.Failed
		total.FailedFiles = append(total.FailedFiles, day.FailedFiles...)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if c.log != nil {
					c.log.WithField("date", d.Format(dateLayout)).Info("no drop folder for day, skipping")
				}
				continue
			}
			total.Elapsed = time.Since(started)
			return total, err
		}
	}
	total.Elapsed = time.Since(started)
	return total, nil
}

// batchTx is the slice of pgx.Tx the controller needs; narrowing it keeps
// the nested-transaction dance testable.
type batchTx interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// loadFile runs one file in a nested transaction on the batch transaction,
// so its failure rolls back to the pre-file savepoint without poisoning the
// files already staged.
func (c *LoadController) loadFile(
	ctx context.Context,
	tx batchTx,
	date, name, runID string,
	dateKey int,
	opts LoadOptions,
	summary *RunSummary,
) error {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin file transaction")
	}
	defer func() {
		_ = nested.Rollback(ctx)
	}()

	fileCtx := composables.WithTx(ctx, nested)

	source := sourceFromName(name)
	recorded, err := c.ledger.Record(fileCtx, &models.FileIngestion{
		FileName:  name,
		Source:    string(source),
		DateKey:   dateKey,
		TimeOfDay: time.Now().Format("15:04:05"),
		RunID:     runID,
	})
	if err != nil {
		return err
	}
	if !recorded && !opts.Force {
		summary.Skipped++
		if c.log != nil {
			c.log.WithField("file", name).Debug("already ingested, skipping")
		}
		return nested.Commit(ctx)
	}

	doc, err := c.parser.ParseFile(filepath.Join(c.xmlRoot, date, name))
	if err != nil {
		return err
	}
	doc.FileName = name

	if err := c.ingest.IngestDocument(fileCtx, doc); err != nil {
		return err
	}
	if err := nested.Commit(ctx); err != nil {
		return errors.Wrapf(err, "commit file %s", name)
	}

	summary.Processed++
	c.bus.Publish(FileProcessed{FileName: name, Source: source})
	return nil
}

// listFiles returns the day's XML file names in lexical order, which puts
// the AR_ family ahead of the CSL family so fallback headers exist before
// canonical shipments claim them.
func (c *LoadController) listFiles(date string, opts LoadOptions) ([]string, error) {
	dir := filepath.Join(c.xmlRoot, date)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read day folder %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		if opts.Only != "" && !strings.Contains(e.Name(), opts.Only) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if opts.Limit > 0 && len(names) > opts.Limit {
		names = names[:opts.Limit]
	}
	return names, nil
}

func sourceFromName(name string) domain.Source {
	if strings.HasPrefix(strings.ToUpper(name), "AR_") {
		return domain.SourceAR
	}
	return domain.SourceCSL
}
