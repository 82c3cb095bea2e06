// Package ingest holds the source adapters. Each one pulls raw data
// from its provider and appends observations (or flight events) to the
// raw store; no shared logic beyond date-range resolution lives here.
// Canonicalization is the mapper's job, not the ingestors'.
package ingest

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
)

// Ingestor is one source adapter.
type Ingestor interface {
	Name() string
	Run(ctx context.Context, st *rawstore.Store, from, to time.Time) error
}

// ResolveRange picks the fetch window for a source: explicit override
// in days, otherwise resume from the day after the last stored
// observation, otherwise a 90-day backfill. The window always ends
// yesterday, since most providers finalize a day only after it ends.
func ResolveRange(st *rawstore.Store, source string, overrideDays int, now time.Time) (time.Time, time.Time, error) {
	end := now.AddDate(0, 0, -1)

	if overrideDays > 0 {
		return end.AddDate(0, 0, -overrideDays), end, nil
	}

	last, err := st.LastDate(source)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if last != "" {
		t, err := time.Parse("2006-01-02", last)
		if err == nil {
			return t.AddDate(0, 0, 1), end, nil
		}
	}
	return end.AddDate(0, 0, -90), end, nil
}

var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// SheetCSVURL builds the public CSV export URL for one tab of a Google
// Sheet, given the sheet's share URL.
func SheetCSVURL(sheetURL, tab string) (string, error) {
	m := sheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", fmt.Errorf("no spreadsheet id in URL %q", sheetURL)
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s", m[1], tab), nil
}
