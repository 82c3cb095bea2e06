package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

const ouraBaseURL = "https://api.ouraring.com/v2/usercollection"

// Oura pulls daily sleep, readiness, and activity summaries from the
// Oura API v2. Raw response pages are cached under CacheDir so a bad
// mapping can be re-run without refetching.
type Oura struct {
	Token    string
	BaseURL  string // test override; empty means the real API
	CacheDir string
	Client   *http.Client
}

func (o *Oura) Name() string { return schema.SourceOura }

type ouraPage struct {
	Data      []json.RawMessage `json:"data"`
	NextToken string            `json:"next_token"`
}

type ouraSleep struct {
	Day          string `json:"day"`
	Score        int    `json:"score"`
	Contributors struct {
		TotalSleep int `json:"total_sleep"`
	} `json:"contributors"`
	TotalSleepDuration int `json:"total_sleep_duration"` // seconds
	DeepSleepDuration  int `json:"deep_sleep_duration"`
	RemSleepDuration   int `json:"rem_sleep_duration"`
	LowestHeartRate    int `json:"lowest_heart_rate"`
}

type ouraReadiness struct {
	Day          string `json:"day"`
	Score        int    `json:"score"`
	Contributors struct {
		RestingHeartRate int `json:"resting_heart_rate"`
	} `json:"contributors"`
}

type ouraActivity struct {
	Day           string `json:"day"`
	Score         int    `json:"score"`
	ActiveCalorie int    `json:"active_calories"`
	Steps         int    `json:"steps"`
}

func (o *Oura) Run(ctx context.Context, st *rawstore.Store, from, to time.Time) error {
	if o.Token == "" {
		return fmt.Errorf("oura: OURA_TOKEN not set")
	}
	observedAt := time.Now().UTC()

	var obs []rawstore.Observation
	add := func(date, field string, value string) {
		if value == "" {
			return
		}
		obs = append(obs, rawstore.Observation{
			Date:       date,
			Source:     schema.SourceOura,
			Field:      field,
			Value:      value,
			ObservedAt: observedAt,
		})
	}

	sleepItems, err := o.fetchAll(ctx, "daily_sleep", from, to)
	if err != nil {
		return err
	}
	for _, raw := range sleepItems {
		var s ouraSleep
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("oura: decode sleep item: %w", err)
		}
		add(s.Day, "sleep_score", strconv.Itoa(s.Score))
		add(s.Day, "total_sleep_min", strconv.Itoa(s.TotalSleepDuration/60))
		add(s.Day, "deep_min", strconv.Itoa(s.DeepSleepDuration/60))
		add(s.Day, "rem_min", strconv.Itoa(s.RemSleepDuration/60))
		add(s.Day, "hr_lowest", strconv.Itoa(s.LowestHeartRate))
	}

	readinessItems, err := o.fetchAll(ctx, "daily_readiness", from, to)
	if err != nil {
		return err
	}
	for _, raw := range readinessItems {
		var r ouraReadiness
		if err := json.Unmarshal(raw, &r); err != nil {
			return fmt.Errorf("oura: decode readiness item: %w", err)
		}
		add(r.Day, "readiness_score", strconv.Itoa(r.Score))
		add(r.Day, "resting_heart_rate", strconv.Itoa(r.Contributors.RestingHeartRate))
	}

	activityItems, err := o.fetchAll(ctx, "daily_activity", from, to)
	if err != nil {
		return err
	}
	for _, raw := range activityItems {
		var a ouraActivity
		if err := json.Unmarshal(raw, &a); err != nil {
			return fmt.Errorf("oura: decode activity item: %w", err)
		}
		add(a.Day, "activity_score", strconv.Itoa(a.Score))
		add(a.Day, "active_calories", strconv.Itoa(a.ActiveCalorie))
		add(a.Day, "steps", strconv.Itoa(a.Steps))
	}

	n, err := st.AppendObservations(obs)
	if err != nil {
		return err
	}
	log.Printf("[oura] fetched %d items, appended %d new observations", len(obs), n)
	return nil
}

// fetchAll walks an endpoint's pages until next_token runs out.
func (o *Oura) fetchAll(ctx context.Context, endpoint string, from, to time.Time) ([]json.RawMessage, error) {
	base := o.BaseURL
	if base == "" {
		base = ouraBaseURL
	}
	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var items []json.RawMessage
	nextToken := ""
	for page := 0; ; page++ {
		q := url.Values{}
		q.Set("start_date", from.Format("2006-01-02"))
		q.Set("end_date", to.Format("2006-01-02"))
		if nextToken != "" {
			q.Set("next_token", nextToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/"+endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("oura: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+o.Token)

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("oura: fetch %s: %w", endpoint, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("oura: read %s response: %w", endpoint, err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("oura: %s returned %s", endpoint, resp.Status)
		}

		o.cachePage(endpoint, page, body)

		var p ouraPage
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("oura: decode %s page: %w", endpoint, err)
		}
		items = append(items, p.Data...)

		if p.NextToken == "" {
			return items, nil
		}
		nextToken = p.NextToken
	}
}

func (o *Oura) cachePage(endpoint string, page int, body []byte) {
	if o.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(o.CacheDir, 0o755); err != nil {
		return
	}
	name := fmt.Sprintf("oura_%s_%s_p%d.json", endpoint, time.Now().UTC().Format("20060102"), page)
	os.WriteFile(filepath.Join(o.CacheDir, name), body, 0o644)
}
