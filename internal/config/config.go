// Package config loads runtime configuration from the environment,
// with a .env file honored when present.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every tunable the pipeline and its services read.
type Config struct {
	DataDir     string // root for raw files, cache, and derived artifacts
	HomeAirport string // home base IATA code for trip segmentation
	MaxGapDays  int    // inactivity gap that force-closes an open trip

	OuraToken string
	SheetURL  string // Google Sheet with work_hours and events tabs

	TelegramToken  string
	TelegramChatID int64

	DashboardDataDir string // optional second copy of tracker.json

	VotesAddr   string
	VotesDBPath string
	VotesCORS   []string

	CronSpec string // schedule for watch mode ingest+rebuild
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	godotenv.Load()

	c := &Config{
		DataDir:          envOr("DAYLOG_DATA_DIR", "data"),
		HomeAirport:      envOr("HOME_AIRPORT", "SFO"),
		MaxGapDays:       envInt("DAYLOG_MAX_GAP_DAYS", 30),
		OuraToken:        os.Getenv("OURA_TOKEN"),
		SheetURL:         os.Getenv("GOOGLE_SHEET_URL"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   int64(envInt("TELEGRAM_CHAT_ID", 0)),
		DashboardDataDir: os.Getenv("DAYLOG_DASHBOARD_DIR"),
		VotesAddr:        envOr("VOTES_ADDR", ":8090"),
		CronSpec:         envOr("DAYLOG_CRON", "0 0 6 * * *"),
	}
	c.VotesDBPath = envOr("VOTES_DB", filepath.Join(c.DataDir, "derived", "votes.db"))

	corsRaw := envOr("VOTES_CORS", "*")
	for _, o := range strings.Split(corsRaw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.VotesCORS = append(c.VotesCORS, o)
		}
	}

	return c, nil
}

// RawDir is where ingestors drop and read source files.
func (c *Config) RawDir() string { return filepath.Join(c.DataDir, "raw") }

// CacheDir holds raw API responses kept for debugging.
func (c *Config) CacheDir() string { return filepath.Join(c.DataDir, "raw_cache") }

// DerivedDir holds everything a rebuild produces.
func (c *Config) DerivedDir() string { return filepath.Join(c.DataDir, "derived") }

// DBPath is the raw observation store.
func (c *Config) DBPath() string { return filepath.Join(c.DerivedDir(), "daylog.db") }

// TrackerJSONPath is the snapshot artifact the dashboard consumes.
func (c *Config) TrackerJSONPath() string { return filepath.Join(c.DerivedDir(), "tracker.json") }

// DailySummaryCSVPath is the flat per-day export.
func (c *Config) DailySummaryCSVPath() string {
	return filepath.Join(c.DerivedDir(), "daily_summary.csv")
}

// WeeklySummaryCSVPath is the per-ISO-week rollup export.
func (c *Config) WeeklySummaryCSVPath() string {
	return filepath.Join(c.DerivedDir(), "weekly_summary.csv")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
