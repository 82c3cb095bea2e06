package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/daylog/internal/snapshot"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTrends
	viewTravel
	viewLog
)

var viewNames = []string{"Today", "Trends", "Travel", "Log"}

// --- Messages ---

// snapshotMsg delivers a freshly loaded artifact. A nil snapshot with a
// non-empty err means the load failed; the previous snapshot stays up.
type snapshotMsg struct {
	snap *snapshot.Snapshot
	err  error
}

type statusMsg struct {
	text    string
	isError bool
}

type logSavedMsg struct {
	date string
}

type tickMsg time.Time

// --- Helpers ---

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func habitGlyph(done bool) string {
	if done {
		return "✓"
	}
	return "·"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
