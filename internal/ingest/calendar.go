package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

// Work pulls the work-hours tab of the shared Google Sheet: one row per
// day with total hours, meeting count, and focus hours, all computed on
// the sheet side from calendar data.
type Work struct {
	SheetURL string
	Client   *http.Client
}

func (w *Work) Name() string { return schema.SourceWork }

// workColumns maps the sheet's header names to raw store fields. Extra
// sheet columns pass straight through; the mapper decides what counts.
var workColumns = map[string]string{
	"total_work_hr": "total_work_hr",
	"meeting_count": "meeting_count",
	"focus_hr":      "focus_hr",
}

func (w *Work) Run(ctx context.Context, st *rawstore.Store, from, to time.Time) error {
	if w.SheetURL == "" {
		return fmt.Errorf("work: GOOGLE_SHEET_URL not set")
	}
	rows, err := fetchSheetCSV(ctx, w.Client, w.SheetURL, "work_hours")
	if err != nil {
		return fmt.Errorf("work: %w", err)
	}
	if len(rows) < 2 {
		log.Printf("[work] sheet has no data rows")
		return nil
	}

	obs, err := workRows(rows, from, to)
	if err != nil {
		return fmt.Errorf("work: %w", err)
	}

	n, err := st.AppendObservations(obs)
	if err != nil {
		return err
	}
	log.Printf("[work] %d sheet rows, appended %d new observations", len(rows)-1, n)
	return nil
}

// workRows turns the sheet's header + data rows into observations for
// the in-window dates. Columns outside workColumns are dropped here;
// they are sheet formatting helpers, not data.
func workRows(rows [][]string, from, to time.Time) ([]rawstore.Observation, error) {
	header := rows[0]
	dateCol := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "date") {
			dateCol = i
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("sheet has no date column")
	}

	observedAt := time.Now().UTC()
	var obs []rawstore.Observation
	for _, row := range rows[1:] {
		if dateCol >= len(row) {
			continue
		}
		date := strings.TrimSpace(row[dateCol])
		if date == "" || !inRange(date, from, to) {
			continue
		}
		for i, h := range header {
			field, ok := workColumns[strings.ToLower(strings.TrimSpace(h))]
			if !ok || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			obs = append(obs, rawstore.Observation{
				Date:       date,
				Source:     schema.SourceWork,
				Field:      field,
				Value:      value,
				ObservedAt: observedAt,
			})
		}
	}
	return obs, nil
}

// fetchSheetCSV downloads one tab of a Google Sheet as CSV.
func fetchSheetCSV(ctx context.Context, client *http.Client, sheetURL, tab string) ([][]string, error) {
	u, err := SheetCSVURL(sheetURL, tab)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet tab %s: %w", tab, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet tab %s returned %s", tab, resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse sheet tab %s: %w", tab, err)
		}
		rows = append(rows, row)
	}
}
