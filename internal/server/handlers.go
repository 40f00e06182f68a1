package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/uhco-curriculum/lomap/internal/dashboard"
	"github.com/uhco-curriculum/lomap/internal/mapping"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// TaxonomyInfo describes one configured taxonomy.
type TaxonomyInfo struct {
	core.TaxonomyConfig
	Paths  int    `json:"paths"`
	Levels int    `json:"levels"`
	Error  string `json:"error,omitempty"`
}

// OptionsResponse is the next level of a progressive selection.
type OptionsResponse struct {
	Level   int      `json:"level"`
	Options []string `json:"options"`
	Done    bool     `json:"done"`
}

// DashboardResponse is a summary plus the filter choices available.
type DashboardResponse struct {
	Years     []string `json:"years"`
	Semesters []string `json:"semesters"`
	dashboard.Summary
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReference(w http.ResponseWriter, _ *http.Request) {
	ref := s.registry.Reference()
	if ref == nil {
		s.writeError(w, fmt.Errorf("reference data: %w", core.ErrNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, ref)
}

func (s *Server) handleTaxonomies(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.All()
	out := make([]TaxonomyInfo, 0, len(all))
	for _, tc := range all {
		info := TaxonomyInfo{TaxonomyConfig: tc}
		table, err := s.registry.Table(tc.Name)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Paths = table.Len()
			info.Levels = table.MaxDepth()
		}
		out = append(out, info)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	maxLevels := 0
	if v := r.URL.Query().Get("max_levels"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, core.NewValidationError(fmt.Errorf("max_levels must be a positive integer"),
				core.FieldError{Field: "max_levels", Error: "must be a positive integer"}))
			return
		}
		maxLevels = n
	}

	table, err := s.registry.TableWith(chi.URLParam(r, "name"), maxLevels)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sel, err := s.registry.Selector(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	choices := r.URL.Query()["choice"]
	options, ok := sel.Options(choices)
	if options == nil {
		options = []string{}
	}
	s.writeJSON(w, http.StatusOK, OptionsResponse{
		Level:   len(choices) + 1,
		Options: options,
		Done:    !ok,
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sel, err := s.registry.Selector(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sel.Select(r.URL.Query()["choice"]))
}

func mappingFilter(r *http.Request) core.MappingFilter {
	q := r.URL.Query()
	return core.MappingFilter{
		Year:       q.Get("year"),
		Semester:   q.Get("semester"),
		CourseName: q.Get("course"),
	}
}

func (s *Server) handleListMappings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.List(r.Context(), mappingFilter(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rows == nil {
		rows = []core.Mapping{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSaveMapping(w http.ResponseWriter, r *http.Request) {
	var d mapping.Draft
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		s.writeError(w, core.NewValidationError(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	n, err := s.service.Save(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"saved": n})
}

// handleDashboard summarizes one year and semester. Without a year or semester
// the first available one is used.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.List(r.Context(), core.MappingFilter{})
	if err != nil {
		s.writeError(w, err)
		return
	}

	years := dashboard.Years(rows)
	year := r.URL.Query().Get("year")
	if year == "" && len(years) > 0 {
		year = years[0]
	}
	semesters := dashboard.Semesters(rows, year)
	semester := r.URL.Query().Get("semester")
	if semester == "" && len(semesters) > 0 {
		semester = semesters[0]
	}

	if years == nil {
		years = []string{}
	}
	if semesters == nil {
		semesters = []string{}
	}
	s.writeJSON(w, http.StatusOK, DashboardResponse{
		Years:     years,
		Semesters: semesters,
		Summary:   dashboard.Summarize(rows, year, semester),
	})
}

// handleEvents streams reload events as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: reload\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
