package cli

import (
	"testing"
	"time"

	"github.com/sadopc/daylog/internal/config"
)

func testApp() *app {
	return &app{cfg: &config.Config{DataDir: "data", HomeAirport: "SFO", MaxGapDays: 30}}
}

func TestResolveDate(t *testing.T) {
	got, err := resolveDate("2026-03-01")
	if err != nil || got != "2026-03-01" {
		t.Fatalf("resolveDate = %q, %v", got, err)
	}

	got, err = resolveDate("")
	if err != nil {
		t.Fatal(err)
	}
	if got != time.Now().Format("2006-01-02") {
		t.Fatalf("empty date = %q, want today", got)
	}

	if _, err := resolveDate("03/01/2026"); err == nil {
		t.Fatal("non-ISO date should fail")
	}
}

func TestSelectIngestors(t *testing.T) {
	a := testApp()

	all := selectIngestors(a, "")
	if len(all) != 4 {
		t.Fatalf("all sources = %d, want 4", len(all))
	}

	one := selectIngestors(a, "oura")
	if len(one) != 1 || one[0].Name() != "oura" {
		t.Fatalf("oura selection = %v", one)
	}

	if got := selectIngestors(a, "fitbit"); got != nil {
		t.Fatalf("unknown source should select nothing, got %v", got)
	}
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	want := map[string]bool{"ingest": false, "rebuild": false, "log": false, "dash": false, "votes": false, "watch": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %s not registered", name)
		}
	}
}
