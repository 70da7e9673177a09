package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RowCounts tallies rows added and removed per table across one run.
type RowCounts struct {
	added   map[string]int64
	removed map[string]int64
}

func NewRowCounts() *RowCounts {
	return &RowCounts{
		added:   make(map[string]int64),
		removed: make(map[string]int64),
	}
}

func (c *RowCounts) Add(table string, removed, added int64) {
	if removed == 0 && added == 0 {
		return
	}
	c.added[table] += added
	c.removed[table] += removed
}

func (c *RowCounts) Tables() []string {
	seen := make(map[string]struct{}, len(c.added))
	for t := range c.added {
		seen[t] = struct{}{}
	}
	for t := range c.removed {
		seen[t] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (c *RowCounts) Added(table string) int64   { return c.added[table] }
func (c *RowCounts) Removed(table string) int64 { return c.removed[table] }

// RunSummary is the outcome of one load run. It is rendered even when the
// run aborts early so operators always see what happened.
type RunSummary struct {
	Date      string
	Processed int
	Skipped   int
	Failed    int
	Elapsed   time.Duration

	FailedFiles []string
	Counts      *RowCounts
}

// Render formats the summary for the console. With verbose set, the per-table
// row movement is appended.
func (s *RunSummary) Render(verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "date=%s processed=%d skipped=%d failed=%d elapsed=%s\n",
		s.Date, s.Processed, s.Skipped, s.Failed, s.Elapsed.Round(time.Millisecond))
	for _, f := range s.FailedFiles {
		fmt.Fprintf(&b, "  failed: %s\n", f)
	}
	if verbose && s.Counts != nil {
		for _, t := range s.Counts.Tables() {
			fmt.Fprintf(&b, "  %-28s +%d -%d\n", t, s.Counts.Added(t), s.Counts.Removed(t))
		}
	}
	return b.String()
}
