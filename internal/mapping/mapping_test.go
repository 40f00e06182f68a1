package mapping

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhco-curriculum/lomap/internal/testutil"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

type memoryStore struct {
	mu   sync.Mutex
	rows []core.Mapping
	err  error
}

func (s *memoryStore) Append(_ context.Context, rows []core.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *memoryStore) List(_ context.Context, filter core.MappingFilter) ([]core.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Mapping
	for _, m := range s.rows {
		if filter.Matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memoryStore) Replace(_ context.Context, rows []core.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.Mapping(nil), rows...)
	return nil
}

func (s *memoryStore) Close() error { return nil }

func bloomRef() *core.ReferenceData {
	return &core.ReferenceData{BloomLevels: []core.BloomLevel{
		{Description: "Remember - recall facts", Level: "Remember"},
		{Description: "Apply - use information", Level: "Apply"},
	}}
}

func assessedDraft() Draft {
	return Draft{
		Year:              "2",
		Semester:          "Fall",
		Type:              "Lecture",
		CourseName:        "Ocular Anatomy",
		LectureName:       "Cornea",
		LearningObjective: "  Describe the corneal layers  ",
		BloomDescription:  "Remember - recall facts",
		Activity:          "Lecture",
		AssessmentMethod:  "MCQ",
		Difficulty:        "Easy",
		IsAssessed:        "Yes",
		Standards: []core.Standard{
			{Column: "NBEO_Condition", SelectionResult: core.NewSelectionResult("111", "Keratitis")},
			{Column: "NBEO_Discipline", SelectionResult: core.EmptySelection},
		},
		ACOEStandard: "2.14 examine",
		Questions:    []string{"Q1", "  ", "Q2 "},
	}
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "blank lines", text: "\n  \n\t\n", want: nil},
		{name: "trims", text: "  What is myopia?  \n\nDefine hyperopia.\r\n", want: []string{"What is myopia?", "Define hyperopia."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuestions(tt.text))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(d *Draft)
		wantFields []string
		wantMsg    string
	}{
		{name: "valid assessed", mutate: func(*Draft) {}},
		{
			name:       "missing objective",
			mutate:     func(d *Draft) { d.LearningObjective = "   " },
			wantFields: []string{"learning_objective"},
			wantMsg:    MsgObjectiveRequired,
		},
		{
			name:       "assessed without questions",
			mutate:     func(d *Draft) { d.Questions = []string{"", " "} },
			wantFields: []string{"questions"},
			wantMsg:    MsgQuestionsRequired,
		},
		{
			name:       "assessed case-insensitive",
			mutate:     func(d *Draft) { d.IsAssessed = "YES"; d.Questions = nil },
			wantFields: []string{"questions"},
			wantMsg:    MsgQuestionsRequired,
		},
		{
			name:   "not assessed needs no questions",
			mutate: func(d *Draft) { d.IsAssessed = "No"; d.Questions = nil },
		},
		{
			name: "both missing",
			mutate: func(d *Draft) {
				d.LearningObjective = ""
				d.Questions = nil
			},
			wantFields: []string{"learning_objective", "questions"},
			wantMsg:    MsgObjectiveRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := assessedDraft()
			tt.mutate(&d)

			err := Validate(d)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, err.Error())
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestRows_Assessed(t *testing.T) {
	rows := Rows(assessedDraft(), bloomRef())
	require.Len(t, rows, 2)

	for i, want := range []string{"Q1", "Q2"} {
		m := rows[i]
		assert.Equal(t, want, m.Questions)
		assert.Equal(t, "Describe the corneal layers", m.LearningObjective)
		assert.Equal(t, "Remember", m.BloomLevel)
		assert.Equal(t, "2.14 examine", m.ACOEStandard)
		assert.Equal(t, "111 – Keratitis", m.Standard("NBEO_Condition").Combined)
		assert.True(t, m.Standard("NBEO_Discipline").IsEmpty())
		assert.Len(t, m.Standards, 2)
	}

	// rows do not share the standards slice
	rows[0].Standards[0].Code = "changed"
	assert.Equal(t, "111", rows[1].Standards[0].Code)
}

func TestRows_NotAssessed(t *testing.T) {
	d := assessedDraft()
	d.IsAssessed = "No"
	d.Justification = "Covered by the lab practical"

	rows := Rows(d, bloomRef())
	require.Len(t, rows, 1)

	m := rows[0]
	assert.Equal(t, "Covered by the lab practical", m.Questions)
	assert.Empty(t, m.ACOEStandard)
	assert.Empty(t, m.Standards)
	assert.Equal(t, "No", m.IsAssessed)
}

func TestRows_BloomLevel(t *testing.T) {
	d := assessedDraft()
	d.BloomDescription = "Unknown"
	assert.Equal(t, "", Rows(d, bloomRef())[0].BloomLevel)
	assert.Equal(t, "", Rows(d, nil)[0].BloomLevel)

	d.BloomLevel = "Create"
	assert.Equal(t, "Create", Rows(d, bloomRef())[0].BloomLevel)
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	svc := NewService(store, bloomRef(), testutil.NewTestLogger(t))

	n, err := svc.Save(ctx, assessedDraft())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	invalid := assessedDraft()
	invalid.LearningObjective = ""
	n, err = svc.Save(ctx, invalid)
	assert.Zero(t, n)
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := svc.List(ctx, core.MappingFilter{CourseName: "Ocular Anatomy"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	store.err = errors.New("disk full")
	_, err = svc.Save(ctx, assessedDraft())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save mapping")
}
