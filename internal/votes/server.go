package votes

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server exposes the votes API:
//
//	GET  /health  liveness probe
//	GET  /votes   all votes grouped by activity id
//	POST /votes   upsert one vote
type Server struct {
	store *Store
}

func NewServer(store *Store) *Server { return &Server{store: store} }

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/votes", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/votes", s.handleUpsert).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// ListenAndServe runs the API on addr until the server fails.
func (s *Server) ListenAndServe(addr string, allowedOrigins []string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(allowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("[votes] listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.All()
	if err != nil {
		log.Printf("[votes] list: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load votes")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var v Vote
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if v.ActivityID == "" || v.Person == "" {
		writeError(w, http.StatusBadRequest, "activityId and person are required")
		return
	}
	if v.Value != 1 && v.Value != -1 {
		writeError(w, http.StatusBadRequest, "value must be 1 or -1")
		return
	}

	if err := s.store.Upsert(v); err != nil {
		log.Printf("[votes] upsert: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save vote")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// responseWrapper captures the status code for the request log.
type responseWrapper struct {
	http.ResponseWriter
	status int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWrapper{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("[votes] %s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}
