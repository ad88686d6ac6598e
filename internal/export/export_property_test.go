package export

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/csheth/claimscout/internal/chart"
)

func genRows() *rapid.Generator[[]chart.Row] {
	text := rapid.StringMatching(`[a-zA-Z0-9 |*_\\"<>&,\n\[\]~-]{0,24}`)
	return rapid.Custom(func(t *rapid.T) []chart.Row {
		n := rapid.IntRange(0, 8).Draw(t, "rows")
		rows := make([]chart.Row, n)
		for i := range rows {
			rows[i] = chart.Row{
				ID:           i + 1,
				ClaimElement: text.Draw(t, "claim"),
				Evidence:     text.Draw(t, "evidence"),
				Reasoning:    text.Draw(t, "reasoning"),
				Confidence:   rapid.SampledFrom([]chart.Confidence{chart.Strong, chart.Moderate, chart.Weak}).Draw(t, "confidence"),
				Version:      rapid.IntRange(1, 9).Draw(t, "version"),
			}
		}
		return rows
	})
}

// Every text format carries exactly one data row per chart element, whatever
// the cell contents.
func TestRowCountMatchesChart(t *testing.T) {
	e := New("")
	rapid.Check(t, func(t *rapid.T) {
		snap := sampleSnapshot()
		snap.Rows = genRows().Draw(t, "rows")

		for _, f := range []Format{FormatWord, FormatPrint} {
			out, err := e.Render(context.Background(), f, snap)
			if err != nil {
				t.Fatalf("render %s: %v", f, err)
			}
			if got := strings.Count(string(out), "<tr>"); got != len(snap.Rows)+1 {
				t.Fatalf("%s rows got %d want %d", f, got-1, len(snap.Rows))
			}
		}

		out, err := e.Render(context.Background(), FormatCSV, snap)
		if err != nil {
			t.Fatalf("render csv: %v", err)
		}
		records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
		if err != nil {
			t.Fatalf("csv parse: %v", err)
		}
		if len(records) != len(snap.Rows)+1 {
			t.Fatalf("csv records got %d want %d", len(records)-1, len(snap.Rows))
		}
		for i, r := range snap.Rows {
			if records[i+1][2] != r.Evidence {
				t.Fatalf("row %d evidence got %q want %q", i+1, records[i+1][2], r.Evidence)
			}
		}
	})
}
