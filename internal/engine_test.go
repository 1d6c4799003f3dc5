package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/aegraph/internal/graph"
	"github.com/gnoswap-labs/aegraph/internal/script"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func writeProof(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validProof = `name: double negation
premise: "([[A]], B)"
conclusion: "(A)"
steps:
  - rule: double-cut
    path: [0]
    expect: "(A, B)"
  - rule: erasure
    path: [1]
`

func replay(t *testing.T, e *Engine, src string) (tt.Trace, []tt.Issue) {
	t.Helper()
	s, err := script.Parse([]byte(src))
	require.NoError(t, err)
	return e.Replay(s)
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)
	assert.Len(t, engine.rules, len(graph.Rules))
	assert.Equal(t, []string{"deiteration", "double-cut", "erasure"}, engine.EnabledRules())

	engine, err = NewEngine(map[string]tt.ConfigRule{
		"erasure":    {Severity: tt.SeverityOff},
		"Double-Cut": {Severity: tt.SeverityWarning},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"deiteration", "double-cut"}, engine.EnabledRules())
	assert.Equal(t, tt.SeverityWarning, engine.findRule("double-cut").Severity())

	_, err = NewEngine(map[string]tt.ConfigRule{"iteration": {}})
	assert.ErrorIs(t, err, graph.ErrUnknownRule)
}

func TestEngine_IgnoreRule(t *testing.T) {
	t.Parallel()
	engine := &Engine{}
	engine.IgnoreRule("test_rule")

	assert.True(t, engine.ignoredRules["test_rule"])
}

func TestReplayValidProof(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	trace, issues := replay(t, engine, validProof)
	assert.Empty(t, issues)
	assert.Equal(t, "double negation", trace.Name)
	require.Len(t, trace.Steps, 2)

	assert.Equal(t, graph.RuleDoubleCut, trace.Steps[0].Rule)
	assert.Equal(t, "([[A]], B)", trace.Steps[0].Before.String())
	assert.Equal(t, "(A, B)", trace.Steps[0].After.String())
	assert.Equal(t, graph.Path{1}, trace.Steps[1].Path)
	assert.Equal(t, "(A)", trace.Result().String())
}

func TestReplayIssues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		kinds    []string
		step     int
		line     int
		replayed int
	}{
		{
			name:  "malformed premise",
			src:   "premise: \"([A\"\n",
			kinds: []string{IssueMalformedGraph},
			line:  1,
		},
		{
			name: "unknown rule",
			src: `premise: "(A)"
steps:
  - rule: iteration
    path: [0]
`,
			kinds: []string{IssueUnknownRule},
			step:  1,
			line:  3,
		},
		{
			name: "invalid site",
			src: `premise: "([A])"
steps:
  - rule: erasure
    path: [0, 0]
`,
			kinds: []string{IssueInvalidSite},
			step:  1,
			line:  3,
		},
		{
			name: "path past the end",
			src: `premise: "([[A]])"
steps:
  - rule: double-cut
    path: [0]
  - rule: double-cut
    path: [4]
`,
			kinds:    []string{IssueInvalidSite},
			step:     2,
			line:     5,
			replayed: 1,
		},
		{
			name: "unexpected result",
			src: `premise: "(A, [[B]])"
steps:
  - rule: double-cut
    path: [0]
    expect: "(A)"
`,
			kinds:    []string{IssueUnexpectedResult},
			step:     1,
			line:     3,
			replayed: 1,
		},
		{
			name: "malformed expectation",
			src: `premise: "(A, [[B]])"
steps:
  - rule: double-cut
    path: [0]
    expect: "(A"
`,
			kinds:    []string{IssueMalformedGraph},
			step:     1,
			line:     3,
			replayed: 1,
		},
		{
			name: "conclusion mismatch",
			src: `premise: "(A, B)"
conclusion: "(B)"
steps:
  - rule: erasure
    path: [1]
`,
			kinds:    []string{IssueConclusionMismatch},
			line:     2,
			replayed: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(nil)
			require.NoError(t, err)

			trace, issues := replay(t, engine, tc.src)
			require.Len(t, issues, len(tc.kinds))
			for i, kind := range tc.kinds {
				assert.Equal(t, kind, issues[i].Rule)
				assert.Equal(t, "proof", issues[i].Category)
				assert.Equal(t, tt.SeverityError, issues[i].Severity)
			}
			assert.Equal(t, tc.step, issues[0].Step)
			assert.Equal(t, tc.line, issues[0].Start.Line)
			assert.Len(t, trace.Steps, tc.replayed)
		})
	}
}

func TestReplayInvalidSiteSuggestion(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(map[string]tt.ConfigRule{"erasure": {Severity: tt.SeverityWarning}})
	require.NoError(t, err)

	_, issues := replay(t, engine, `premise: "([A], B)"
steps:
  - rule: erasure
    path: [0, 0]
`)
	require.Len(t, issues, 1)
	assert.Equal(t, tt.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "applicable sites: [0] [1]", issues[0].Suggestion)
	assert.Equal(t, 5, issues[0].Start.Column)
	assert.Equal(t, len("  - rule: erasure"), issues[0].End.Column)

	_, issues = replay(t, engine, `premise: "([A])"
steps:
  - rule: double-cut
    path: [0]
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "the rule has no applicable site here", issues[0].Suggestion)
}

func TestReplayDisabledRule(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(map[string]tt.ConfigRule{"erasure": {Severity: tt.SeverityOff}})
	require.NoError(t, err)

	trace, issues := replay(t, engine, validProof)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueRuleDisabled, issues[0].Rule)
	assert.Equal(t, 2, issues[0].Step)
	assert.Equal(t, "enabled rules: deiteration, double-cut", issues[0].Suggestion)
	// the step is still carried out so later steps can be checked
	assert.Len(t, trace.Steps, 2)
}

func TestCheckReportsEveryDefect(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	s, err := script.Parse([]byte(`premise: "(A"
steps:
  - rule: iteration
    path: [0]
  - rule: erasure
  - rule: erasure
    path: [-1]
    expect: "(("
`))
	require.NoError(t, err)

	issues := engine.Check(s)
	require.Len(t, issues, 5)

	want := []struct {
		kind string
		step int
		line int
	}{
		{IssueMalformedGraph, 0, 1},
		{IssueUnknownRule, 1, 3},
		{IssueInvalidSite, 2, 5},
		{IssueInvalidSite, 3, 6},
		{IssueMalformedGraph, 3, 6},
	}
	for i, w := range want {
		assert.Equal(t, w.kind, issues[i].Rule, "issue %d", i)
		assert.Equal(t, w.step, issues[i].Step, "issue %d", i)
		assert.Equal(t, w.line, issues[i].Start.Line, "issue %d", i)
		assert.Equal(t, tt.SeverityError, issues[i].Severity)
	}
	assert.Equal(t, 5, issues[1].Start.Column)
	assert.Contains(t, issues[4].Message, "step 3: expect")
}

func TestCheckReplaysWellFormedScript(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	s, err := script.Parse([]byte(`premise: "(A, B)"
conclusion: "(B)"
steps:
  - rule: erasure
    path: [1]
`))
	require.NoError(t, err)

	issues := engine.Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueConclusionMismatch, issues[0].Rule)

	issues, err = engine.RunSource([]byte("premise: \"(A\"\nconclusion: \"[\"\n"))
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, IssueMalformedGraph, issues[0].Rule)
	assert.Equal(t, IssueMalformedGraph, issues[1].Rule)
	assert.Equal(t, 2, issues[1].Start.Line)
}

func TestDescribeSites(t *testing.T) {
	t.Parallel()
	sites := make([]graph.Path, maxSuggestedSites+2)
	for i := range sites {
		sites[i] = graph.Path{i}
	}
	got := describeSites(sites)
	assert.Contains(t, got, "[7]")
	assert.NotContains(t, got, "[8]")
	assert.Contains(t, got, "... (2 more)")
}

func TestEngineRun(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "engine_run_test")
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	path := writeProof(t, tempDir, "bad.proof.yaml", `premise: "(A)"
conclusion: "()"
`)
	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueConclusionMismatch, issues[0].Rule)
	assert.Equal(t, path, issues[0].Filename)
	assert.Equal(t, path, issues[0].Start.Filename)

	_, err = engine.Run(filepath.Join(tempDir, "missing.proof.yaml"))
	assert.Error(t, err)
}

func TestEngineRunSource(t *testing.T) {
	t.Parallel()
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(validProof))
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = engine.RunSource([]byte("steps: []"))
	assert.Error(t, err)
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "source_code_test")
	testFile := writeProof(t, tempDir, "dn.proof.yaml", validProof)

	sourceCode, err := ReadSourceCode(testFile)
	assert.NoError(t, err)
	assert.NotNil(t, sourceCode)
	assert.Len(t, sourceCode.Lines, 10)
	assert.Equal(t, "name: double negation", sourceCode.Lines[0])
}

func BenchmarkReplay(b *testing.B) {
	engine, err := NewEngine(nil)
	require.NoError(b, err)
	s, err := script.Parse([]byte(validProof))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Replay(s)
	}
}
