package votes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, *Store) {
	t.Helper()
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("new votes store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewServer(store), store
}

func TestStoreUpsertReplaces(t *testing.T) {
	_, store := newTestServer(t)

	if err := store.Upsert(Vote{ActivityID: "2026-03-01:workout", Person: "sam", Value: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(Vote{ActivityID: "2026-03-01:workout", Person: "sam", Value: -1, Reason: "skipped leg day"}); err != nil {
		t.Fatal(err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatal(err)
	}
	got := all["2026-03-01:workout"]
	if len(got) != 1 {
		t.Fatalf("votes = %d, want 1 (re-vote replaces)", len(got))
	}
	if got[0].Value != -1 || got[0].Reason != "skipped leg day" {
		t.Fatalf("vote = %+v", got[0])
	}
	if got[0].UpdatedAt == "" {
		t.Fatal("updatedAt should be set")
	}
}

func TestStoreGroupsByActivity(t *testing.T) {
	_, store := newTestServer(t)

	store.Upsert(Vote{ActivityID: "a", Person: "sam", Value: 1})
	store.Upsert(Vote{ActivityID: "a", Person: "kim", Value: -1})
	store.Upsert(Vote{ActivityID: "b", Person: "sam", Value: 1})

	all, _ := store.All()
	if len(all) != 2 || len(all["a"]) != 2 || len(all["b"]) != 1 {
		t.Fatalf("grouping wrong: %v", all)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler([]string{"*"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPostVote(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler([]string{"*"})

	body := `{"activityId":"2026-03-01:sauna","person":"kim","value":1}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	all, _ := store.All()
	if len(all["2026-03-01:sauna"]) != 1 {
		t.Fatal("vote not stored")
	}
}

func TestPostVoteValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler([]string{"*"})

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing person", `{"activityId":"a","value":1}`},
		{"missing activity", `{"person":"sam","value":1}`},
		{"zero value", `{"activityId":"a","person":"sam","value":0}`},
		{"out of range value", `{"activityId":"a","person":"sam","value":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListVotes(t *testing.T) {
	srv, store := newTestServer(t)
	store.Upsert(Vote{ActivityID: "a", Person: "sam", Value: 1})

	h := srv.Handler([]string{"*"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/votes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got map[string][]Vote
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got["a"]) != 1 || got["a"][0].Person != "sam" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler([]string{"https://dash.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/votes", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
}
