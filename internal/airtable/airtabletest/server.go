// Package airtabletest runs an in-process fake of the record store's
// REST surface for tests. It understands just the formula shapes the
// repos generate: field equality, OR-of-RECORD_ID batches and
// FIND/ARRAYJOIN containment, optionally wrapped in one AND.
package airtabletest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// BaseID is the base every test client should be constructed with.
const BaseID = "appTESTBASE"

// Rec is one stored record.
type Rec struct {
	ID          string
	CreatedTime string
	Fields      map[string]any
}

// Upload captures one attachment upload call.
type Upload struct {
	RecordID    string
	Field       string
	Filename    string
	ContentType string
	File        string
}

// Server fakes one base of the record store.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	tables  map[string][]Rec
	nextID  int
	calls   map[string]int
	uploads []Upload

	// FailCreates makes every create answer 500, for testing that no
	// record survives a failed pipeline.
	FailCreates bool
	// FailUploads makes every attachment upload answer 500.
	FailUploads bool
}

// New starts the fake. Callers must Close it.
func New() *Server {
	s := &Server{
		tables: map[string][]Rec{},
		calls:  map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Seed replaces the contents of a table.
func (s *Server) Seed(table string, recs ...Rec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append([]Rec{}, recs...)
}

// Record returns a stored record by id, or nil.
func (s *Server) Record(table, id string) *Rec {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tables[table] {
		if s.tables[table][i].ID == id {
			rec := s.tables[table][i]
			return &rec
		}
	}
	return nil
}

// Count returns how many records a table holds.
func (s *Server) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

// ListCalls returns how many list queries a table has served. Used to
// assert batching.
func (s *Server) ListCalls(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls["list "+table]
}

// Uploads returns the attachment uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload{}, s.uploads...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Clients must be built with a base URL ending in /v0, mirroring
	// the real API root. Anything else is a fixture bug.
	if parts[0] != "v0" {
		http.NotFound(w, r)
		return
	}
	// Attachment upload: v0/{base}/{record}/{field}/uploadAttachment
	if parts[len(parts)-1] == "uploadAttachment" && len(parts) == 5 {
		if s.FailUploads {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"type": "INTERNAL_SERVER_ERROR", "message": "seeded failure"},
			})
			return
		}
		var body struct {
			ContentType string `json:"contentType"`
			File        string `json:"file"`
			Filename    string `json:"filename"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.uploads = append(s.uploads, Upload{
			RecordID:    parts[2],
			Field:       parts[3],
			Filename:    body.Filename,
			ContentType: body.ContentType,
			File:        body.File,
		})
		writeJSON(w, http.StatusOK, map[string]any{"id": parts[2]})
		return
	}

	// v0/{base}/{table}[/{id}]
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}
	table := parts[2]

	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		s.calls["list "+table]++
		s.list(w, r, table)
	case len(parts) == 3 && r.Method == http.MethodPost:
		s.create(w, r, table)
	case len(parts) == 4 && r.Method == http.MethodGet:
		if rec := s.find(table, parts[3]); rec != nil {
			writeJSON(w, http.StatusOK, encode(*rec))
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"type": "NOT_FOUND"}})
	case len(parts) == 4 && r.Method == http.MethodPatch:
		if rec := s.find(table, parts[3]); rec != nil {
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			for k, v := range body.Fields {
				rec.Fields[k] = v
			}
			writeJSON(w, http.StatusOK, encode(*rec))
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"type": "NOT_FOUND"}})
	case len(parts) == 4 && r.Method == http.MethodDelete:
		recs := s.tables[table]
		for i := range recs {
			if recs[i].ID == parts[3] {
				s.tables[table] = append(recs[:i], recs[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": parts[3]})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"type": "NOT_FOUND"}})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) find(table, id string) *Rec {
	recs := s.tables[table]
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i]
		}
	}
	return nil
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, table string) {
	if s.FailCreates {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"type": "INTERNAL_SERVER_ERROR", "message": "seeded failure"},
		})
		return
	}
	var body struct {
		Fields map[string]any `json:"fields"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	s.nextID++
	rec := Rec{
		ID:          "recNEW" + strconv.Itoa(s.nextID),
		CreatedTime: "2026-01-01T00:00:00.000Z",
		Fields:      body.Fields,
	}
	s.tables[table] = append(s.tables[table], rec)
	writeJSON(w, http.StatusOK, encode(rec))
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, table string) {
	formula := r.URL.Query().Get("filterByFormula")
	max := 0
	if m := r.URL.Query().Get("maxRecords"); m != "" {
		max, _ = strconv.Atoi(m)
	}

	var out []map[string]any
	for _, rec := range s.tables[table] {
		if matches(formula, rec) {
			out = append(out, encode(rec))
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	if out == nil {
		out = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

var (
	reRecordID = regexp.MustCompile(`RECORD_ID\(\) = '((?:[^'\\]|\\.)*)'`)
	reFind     = regexp.MustCompile(`FIND\('((?:[^'\\]|\\.)*)', ARRAYJOIN\(\{([^}]+)\}\)\) > 0`)
	reEq       = regexp.MustCompile(`\{([^}]+)\} = '((?:[^'\\]|\\.)*)'`)
)

// matches evaluates the limited formula subset the repos emit. AND is
// treated as "every clause present must hold", OR of field equalities
// as "any holds".
func matches(formula string, rec Rec) bool {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return true
	}

	if ids := reRecordID.FindAllStringSubmatch(formula, -1); len(ids) > 0 {
		for _, m := range ids {
			if unescape(m[1]) == rec.ID {
				return true
			}
		}
		return false
	}

	finds := reFind.FindAllStringSubmatch(formula, -1)
	for _, m := range finds {
		if !containsRef(rec, m[2], unescape(m[1])) {
			return false
		}
	}

	eqs := reEq.FindAllStringSubmatch(formula, -1)
	if len(eqs) == 0 {
		return len(finds) > 0
	}
	anyEq := false
	for _, m := range eqs {
		if fieldString(rec, m[1]) == unescape(m[2]) {
			anyEq = true
		}
	}
	return anyEq
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

func fieldString(rec Rec, field string) string {
	if v, ok := rec.Fields[field]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func containsRef(rec Rec, field, id string) bool {
	v, ok := rec.Fields[field]
	if !ok {
		return false
	}
	items, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			for _, s := range ss {
				if s == id {
					return true
				}
			}
		}
		return false
	}
	for _, it := range items {
		if s, ok := it.(string); ok && s == id {
			return true
		}
	}
	return false
}

func encode(rec Rec) map[string]any {
	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return map[string]any{
		"id":          rec.ID,
		"createdTime": rec.CreatedTime,
		"fields":      fields,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
