// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/uhco-curriculum/lomap/internal/cli/config"
	"github.com/uhco-curriculum/lomap/internal/cli/output"
	reftest "github.com/uhco-curriculum/lomap/internal/testutil"
)

// SetupTestProject creates a temporary project with the reference workbook and a
// lomap.yaml pointing at it. extra is appended to the config file.
func SetupTestProject(t *testing.T, extra string) string {
	t.Helper()

	tmpDir := t.TempDir()
	reftest.WriteReferenceWorkbook(t, tmpDir)

	cfg := `workbook: reference.xlsx
state_path: .lomap/state.db
acoe_standards:
  - "2.12 Basic life support"
  - "2.14 Examine and diagnose"
` + extra
	if err := os.WriteFile(filepath.Join(tmpDir, "lomap.yaml"), []byte(cfg), 0600); err != nil {
		t.Fatalf("failed to create lomap.yaml: %v", err)
	}
	return tmpDir
}

// LoadTestProject sets up a project and makes its configuration current.
// The configuration is reset when the test ends.
func LoadTestProject(t *testing.T, extra string) *config.Config {
	t.Helper()

	dir := SetupTestProject(t, extra)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig(filepath.Join(dir, "lomap.yaml"), nil)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	return cfg
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation:
// balanced code fences and headers with content.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
