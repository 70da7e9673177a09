package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
)

type stubIngester struct{}

func (stubIngester) IngestDocument(context.Context, *domain.Document) error { return nil }

func (stubIngester) Counts() *RowCounts { return NewRowCounts() }

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("<x/>"), 0o644))
	}
}

func TestListFiles_OrdersTransactionsFirst(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "20250715"),
		"CSL00002.xml", "AR_INV-002.xml", "CSL00001.xml", "AR_INV-001.xml", "notes.txt")

	c := &LoadController{xmlRoot: root}
	names, err := c.listFiles("20250715", LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"AR_INV-001.xml", "AR_INV-002.xml", "CSL00001.xml", "CSL00002.xml"}, names)
}

func TestListFiles_OnlyAndLimit(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "20250715"),
		"AR_INV-001.xml", "AR_INV-002.xml", "CSL00001.xml")

	c := &LoadController{xmlRoot: root}

	names, err := c.listFiles("20250715", LoadOptions{Only: "INV"})
	require.NoError(t, err)
	require.Equal(t, []string{"AR_INV-001.xml", "AR_INV-002.xml"}, names)

	names, err = c.listFiles("20250715", LoadOptions{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"AR_INV-001.xml"}, names)
}

func TestListFiles_MissingDayFails(t *testing.T) {
	c := &LoadController{xmlRoot: t.TempDir()}
	_, err := c.listFiles("20250715", LoadOptions{})
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadDate_MissingDayFolderFails(t *testing.T) {
	c := &LoadController{xmlRoot: t.TempDir(), ingest: stubIngester{}}
	summary, err := c.LoadDate(context.Background(), "20250715", LoadOptions{})
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Zero(t, summary.Processed)
}

func TestLoadDate_EmptyDayFolderIsNoOp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "20250715"), 0o755))

	c := &LoadController{xmlRoot: root, ingest: stubIngester{}}
	summary, err := c.LoadDate(context.Background(), "20250715", LoadOptions{})
	require.NoError(t, err)
	require.Zero(t, summary.Processed)
}

func TestLoadRange_SkipsMissingDays(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "20250715"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "20250717"), 0o755))

	c := &LoadController{xmlRoot: root, ingest: stubIngester{}}
	total, err := c.LoadRange(context.Background(), "20250715", "20250717", LoadOptions{})
	require.NoError(t, err)
	require.Zero(t, total.Failed)
}

func TestSourceFromName(t *testing.T) {
	require.Equal(t, domain.SourceAR, sourceFromName("AR_INV-001.xml"))
	require.Equal(t, domain.SourceAR, sourceFromName("ar_inv-001.xml"))
	require.Equal(t, domain.SourceCSL, sourceFromName("CSL00042.xml"))
}

func TestRunSummary_RenderIncludesFailures(t *testing.T) {
	s := &RunSummary{Date: "20250715", Processed: 3, Failed: 1, FailedFiles: []string{"CSL00099.xml"}}
	out := s.Render(false)
	require.Contains(t, out, "processed=3")
	require.Contains(t, out, "failed=1")
	require.Contains(t, out, "CSL00099.xml")
}
