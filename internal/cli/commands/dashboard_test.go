package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhco-curriculum/lomap/internal/cli/testutil"
	"github.com/uhco-curriculum/lomap/internal/dashboard"
)

func TestRunDashboard_DefaultsToFirstYear(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	require.NoError(t, runDashboard(context.Background(), tr.Renderer, sampleStore(), "", ""))

	var s dashboard.Summary
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &s))

	assert.Equal(t, "1", s.Year)
	assert.Equal(t, "Fall", s.Semester)
	// the row with neither activity nor method is left out
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, []dashboard.Count{
		{Label: "Aligned", Count: 1, Percent: 100.0 / 3},
		{Label: "Taught_only", Count: 1, Percent: 100.0 / 3},
		{Label: "Tested_only", Count: 1, Percent: 100.0 / 3},
	}, s.Alignment)
}

func TestRunDashboard_Text(t *testing.T) {
	tr := testutil.NewTestRendererText()
	require.NoError(t, runDashboard(context.Background(), tr.Renderer, sampleStore(), "2", "Fall"))

	out := tr.Output()
	assert.Contains(t, out, "Year 2, Fall")
	assert.Contains(t, out, "Bloom level")
	assert.Contains(t, out, "Create")
	assert.Contains(t, out, "Essay")
	assert.Contains(t, out, "1 (100.0%)")
}

func TestRunDashboard_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, runDashboard(context.Background(), tr.Renderer, sampleStore(), "1", "Fall"))

	testutil.AssertValidMarkdown(t, tr.Output())
	assert.Contains(t, tr.Output(), "| Category | Count | Share |")
	assert.Contains(t, tr.Output(), "| Lecture | 1 | 33.3% |")
}

func TestRunDashboard_Empty(t *testing.T) {
	tr := testutil.NewTestRendererText()
	require.NoError(t, runDashboard(context.Background(), tr.Renderer, &memStore{}, "", ""))
	assert.Contains(t, tr.ErrorOutput(), "No mappings to summarize")
}

func TestRunDashboard_NoRowsForSemester(t *testing.T) {
	tr := testutil.NewTestRendererText()
	require.NoError(t, runDashboard(context.Background(), tr.Renderer, sampleStore(), "1", "Spring"))
	assert.Contains(t, tr.ErrorOutput(), "No mappings for this year and semester")
}
