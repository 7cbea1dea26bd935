package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"rmindex/pkg/index"
	"rmindex/pkg/monitor"
)

// Server exposes a read-only HTTP query surface over a built index.Index:
// /lookup, /lower_bound, /upper_bound and a /stats diagnostics endpoint.
type Server struct {
	idx   index.Index
	stats *monitor.QueryStats
	mux   *http.ServeMux
}

func NewServer(idx index.Index) *Server {
	s := &Server{idx: idx, stats: monitor.NewQueryStats(), mux: http.NewServeMux()}
	s.mux.HandleFunc("/lookup", s.handleLookup)
	s.mux.HandleFunc("/lower_bound", s.handleLowerBound)
	s.mux.HandleFunc("/upper_bound", s.handleUpperBound)
	s.mux.HandleFunc("/stats", s.handleStats)
	return s
}

func (s *Server) Start(addr string) {
	log.Printf("[API] Server listening on %s (%s)", addr, s.idx.Type())
	log.Fatal(http.ListenAndServe(addr, s.mux))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) parseKey(w http.ResponseWriter, r *http.Request) (float64, bool) {
	keyStr := r.URL.Query().Get("key")
	key, err := strconv.ParseFloat(keyStr, 64)
	if err != nil {
		http.Error(w, "invalid key", http.StatusBadRequest)
		return 0, false
	}
	return key, true
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	key, ok := s.parseKey(w, r)
	if !ok {
		return
	}

	start := time.Now()
	pos := s.idx.LowerBound(key)
	duration := time.Since(start)
	s.stats.RecordLookup()

	resp := map[string]interface{}{
		"key":        key,
		"position":   pos,
		"latency_ns": duration.Nanoseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleLowerBound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	key, ok := s.parseKey(w, r)
	if !ok {
		return
	}
	s.stats.RecordLookup()
	resp := map[string]interface{}{"key": key, "position": s.idx.LowerBound(key)}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleUpperBound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	key, ok := s.parseKey(w, r)
	if !ok {
		return
	}
	s.stats.RecordLookup()
	resp := map[string]interface{}{"key": key, "position": s.idx.UpperBound(key)}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	resp := map[string]interface{}{
		"type":               s.idx.Type(),
		"size_bytes":         s.idx.TotalSizeBytes(),
		"lookup_count":       s.stats.LookupCount,
		"out_of_range_count": s.stats.OutOfRangeCount,
		"out_of_range_ratio": s.stats.OutOfRangeRatio(),
		"disagreement_ratio": s.stats.DisagreementRatio(),
	}
	json.NewEncoder(w).Encode(resp)
}
