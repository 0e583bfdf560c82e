// Package report accumulates per-run download outcomes and renders the
// final summary.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/fetcharr/internal/fetch"
	"github.com/vmunix/fetcharr/internal/workspace"
	"github.com/vmunix/fetcharr/pkg/asset"
)

// Failure is one failed fetch attempt, kept so failures are isolated
// but never silently lost.
type Failure struct {
	URL    string
	Reason string
}

// Aggregator accumulates outcomes for the lifetime of one run. Owned by
// the single goroutine driving the pipeline; no locking.
type Aggregator struct {
	outcomes []fetch.Outcome
	counts   map[asset.Category]int
	bytes    map[asset.Category]int64
	failures []Failure
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		counts: make(map[asset.Category]int),
		bytes:  make(map[asset.Category]int64),
	}
}

// Record appends an outcome, updating the per-category success count
// and byte total or the failure list. Insertion order is processing
// order.
func (a *Aggregator) Record(o fetch.Outcome) {
	a.outcomes = append(a.outcomes, o)
	if o.Success {
		a.counts[o.Ref.Category]++
		a.bytes[o.Ref.Category] += o.Bytes
		return
	}
	a.failures = append(a.failures, Failure{URL: o.Ref.URL, Reason: o.Error})
}

// Summary is the final tally of a run.
type Summary struct {
	Processed  int
	Counts     map[asset.Category]int
	Bytes      map[asset.Category]int64
	TotalBytes int64
	Failures   []Failure
	Outcomes   []fetch.Outcome
}

// Summary produces the final tally. It never fails and is correct even
// for an all-failure run: all totals zero, failure list fully
// populated. Invariant: Succeeded() + len(Failures) == Processed.
func (a *Aggregator) Summary() Summary {
	s := Summary{
		Processed: len(a.outcomes),
		Counts:    make(map[asset.Category]int, len(a.counts)),
		Bytes:     make(map[asset.Category]int64, len(a.bytes)),
		Failures:  append([]Failure(nil), a.failures...),
		Outcomes:  append([]fetch.Outcome(nil), a.outcomes...),
	}
	for c, n := range a.counts {
		s.Counts[c] = n
	}
	for c, b := range a.bytes {
		s.Bytes[c] = b
		s.TotalBytes += b
	}
	return s
}

// Succeeded returns the number of successful downloads across all
// categories.
func (s Summary) Succeeded() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// FormatBytes renders a byte count with adaptive units (B, kB, MB, GB).
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Render writes the human-readable summary.
func (s Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "\nDownload Summary:\n")
	for _, c := range asset.Categories {
		fmt.Fprintf(w, "  %-6s %3d  (%s)\n", c.Label(), s.Counts[c], FormatBytes(s.Bytes[c]))
	}
	fmt.Fprintf(w, "  Failed %3d\n", len(s.Failures))
	fmt.Fprintf(w, "  Total  %3d processed, %s on disk\n", s.Processed, FormatBytes(s.TotalBytes))

	if len(s.Failures) > 0 {
		fmt.Fprintf(w, "\nFailures:\n")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.URL, f.Reason)
		}
	}
}

// RenderListing writes the per-category file listing produced by the
// workspace after a run.
func RenderListing(w io.Writer, m *workspace.Manager) error {
	wrote := false
	for _, c := range asset.Categories {
		entries, err := m.Listing(c)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			continue
		}
		if !wrote {
			fmt.Fprintf(w, "\nDownloaded files:\n")
			wrote = true
		}
		fmt.Fprintf(w, "  %s (%d):\n", c.Label(), len(entries))
		for _, e := range entries {
			fmt.Fprintf(w, "    %s (%s)\n", e.Name, FormatBytes(e.Size))
		}
	}
	return nil
}
