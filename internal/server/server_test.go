package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhco-curriculum/lomap/internal/config"
	"github.com/uhco-curriculum/lomap/internal/registry"
	"github.com/uhco-curriculum/lomap/internal/state"
	"github.com/uhco-curriculum/lomap/internal/testutil"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

type staticSource struct {
	ref *core.ReferenceData
}

func (s staticSource) ReadReference(context.Context, []string) (*core.ReferenceData, error) {
	return s.ref, nil
}

func reference() *core.ReferenceData {
	return &core.ReferenceData{
		Courses:     core.Courses{{Year: "2", Semester: "Fall", Description: "Ocular Anatomy", LectureOrLab: "Lecture"}},
		BloomLevels: []core.BloomLevel{{Description: "Apply - use information", Level: "Apply"}},
		Taxonomies: map[string][]core.TaxonomyRow{
			"asco": {
				{Code: "A", Title: "Patient Care"},
				{Code: "A.1", ParentCode: "A", Title: "History", IsLeaf: true},
				{Code: "A.2", ParentCode: "A", Title: "Examination", IsLeaf: true},
				{Code: "B", Title: "Professionalism", IsLeaf: true},
			},
			"nbeo": {
				{Code: "1", Title: "Loop", Category: "Condition"},
				{Code: "2", ParentCode: "1", Title: "Back", Category: "Condition"},
				{Code: "1", ParentCode: "2", Title: "Again", Category: "Condition"},
			},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	reg := registry.New(config.DefaultTaxonomies(), 5, logger)
	reg.Load(reference())

	return New(Config{
		Registry: reg,
		Store:    store,
		Source:   staticSource{ref: reference()},
		Logger:   logger,
	})
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestTaxonomies(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/api/taxonomies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	infos := decode[[]TaxonomyInfo](t, rec)
	require.Len(t, infos, 4)

	byName := make(map[string]TaxonomyInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, 3, byName["asco"].Paths)
	assert.Equal(t, 2, byName["asco"].Levels)
	assert.Contains(t, byName["nbeo-condition"].Error, "cycle")
	assert.Contains(t, byName["uhco"].Error, "not loaded")
}

func TestPaths(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantLen    int
	}{
		{name: "full", target: "/api/taxonomies/asco/paths", wantStatus: http.StatusOK, wantLen: 3},
		{name: "by label", target: "/api/taxonomies/ASCO/paths", wantStatus: http.StatusOK, wantLen: 3},
		{name: "capped", target: "/api/taxonomies/asco/paths?max_levels=1", wantStatus: http.StatusOK, wantLen: 2},
		{name: "bad cap", target: "/api/taxonomies/asco/paths?max_levels=zero", wantStatus: http.StatusBadRequest},
		{name: "unknown", target: "/api/taxonomies/acoe/paths", wantStatus: http.StatusNotFound},
		{name: "cycle", target: "/api/taxonomies/nbeo-condition/paths", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				table := decode[core.FlatTable](t, rec)
				assert.Equal(t, tt.wantLen, table.Len())
			}
		})
	}
}

func TestOptionsAndSelect(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/taxonomies/asco/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, OptionsResponse{Level: 1, Options: []string{"Patient Care", "Professionalism"}}, decode[OptionsResponse](t, rec))

	rec = do(t, h, http.MethodGet, "/api/taxonomies/asco/options?choice=Patient+Care", nil)
	assert.Equal(t, OptionsResponse{Level: 2, Options: []string{"Examination", "History"}}, decode[OptionsResponse](t, rec))

	rec = do(t, h, http.MethodGet, "/api/taxonomies/asco/options?choice=Professionalism", nil)
	assert.Equal(t, OptionsResponse{Level: 2, Options: []string{}, Done: true}, decode[OptionsResponse](t, rec))

	rec = do(t, h, http.MethodGet, "/api/taxonomies/asco/select?choice=Patient+Care&choice=History", nil)
	assert.Equal(t, core.NewSelectionResult("A.1", "History"), decode[core.SelectionResult](t, rec))

	rec = do(t, h, http.MethodGet, "/api/taxonomies/asco/select?choice=Nope", nil)
	assert.True(t, decode[core.SelectionResult](t, rec).IsEmpty())

	rec = do(t, h, http.MethodGet, "/api/taxonomies/missing/select", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMappings(t *testing.T) {
	h := newTestServer(t).Handler()

	draft := map[string]any{
		"year":               "2",
		"semester":           "Fall",
		"course_name":        "Ocular Anatomy",
		"learning_objective": "Describe the cornea",
		"bloom_description":  "Apply - use information",
		"activity":           "Lecture",
		"assessment_method":  "MCQ",
		"is_assessed":        "Yes",
		"standards": []map[string]string{
			{"column": "ASCO_Standard", "code": "A.1", "title": "History", "combined": "A.1 – History"},
		},
		"questions": []string{"Q1", " ", "Q2"},
	}
	rec := do(t, h, http.MethodPost, "/api/mappings", draft)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]int{"saved": 2}, decode[map[string]int](t, rec))

	rec = do(t, h, http.MethodGet, "/api/mappings?year=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]core.Mapping](t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "Apply", rows[0].BloomLevel)
	assert.Equal(t, "A.1", rows[0].Standard("ASCO_Standard").Code)

	rec = do(t, h, http.MethodGet, "/api/mappings?year=3", nil)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestSaveMapping_Invalid(t *testing.T) {
	h := newTestServer(t).Handler()

	t.Run("validation", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/mappings", map[string]any{"is_assessed": "yes"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[errorResponse](t, rec)
		assert.Equal(t, "Learning Objective is required.", resp.Error)
		assert.Len(t, resp.Fields, 2)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/mappings", `{"objective": "x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/mappings", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, d := range []map[string]any{
		{"year": "2", "semester": "Fall", "learning_objective": "a", "activity": "Lecture", "assessment_method": "MCQ", "is_assessed": "No"},
		{"year": "2", "semester": "Fall", "learning_objective": "b", "activity": "Lab", "is_assessed": "No"},
		{"year": "1", "semester": "Spring", "learning_objective": "c", "assessment_method": "Quiz", "is_assessed": "No"},
	} {
		rec := do(t, h, http.MethodPost, "/api/mappings", d)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, h, http.MethodGet, "/api/dashboard?year=2&semester=Fall", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DashboardResponse](t, rec)
	assert.Equal(t, []string{"1", "2"}, resp.Years)
	assert.Equal(t, []string{"Fall"}, resp.Semesters)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Alignment, 2)
	assert.Equal(t, "Aligned", resp.Alignment[0].Label)

	rec = do(t, h, http.MethodGet, "/api/dashboard", nil)
	resp = decode[DashboardResponse](t, rec)
	assert.Equal(t, "1", resp.Year, "defaults to the first year")
	assert.Equal(t, "Spring", resp.Semester)
	assert.Equal(t, 1, resp.Total)
}

func TestReference(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/api/reference", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ocular Anatomy")
}

func TestReload(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, uint64(1), s.Notifier().Version())

	s.source = nil
	assert.Error(t, s.Reload(context.Background()))
}

func TestEvents(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return s.Notifier().Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Reload(context.Background()))

	scanner := bufio.NewScanner(resp.Body)
	var data string
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	assert.Contains(t, data, `"version":1`)
}
