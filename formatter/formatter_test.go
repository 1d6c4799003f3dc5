package formatter

import (
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/aegraph/internal"
	"github.com/gnoswap-labs/aegraph/internal/graph"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var proofLines = []string{
	`premise: "([A], B)"`,
	`steps:`,
	`  - rule: erasure`,
	`    path: [0, 0]`,
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: proofLines}

	tests := []struct {
		name     string
		issue    tt.Issue
		expected string
	}{
		{
			name: "invalid site",
			issue: tt.Issue{
				Rule:       internal.IssueInvalidSite,
				Filename:   "a.proof.yaml",
				Step:       1,
				Start:      token.Position{Line: 3, Column: 5},
				End:        token.Position{Line: 3, Column: 17},
				Message:    "erasure cannot be applied at [0,0] of ([A], B)",
				Suggestion: "applicable sites: [0] [1]",
			},
			expected: `error: invalid-site (step 1)
 --> a.proof.yaml:3:5
  |
3 | - rule: erasure
  |   ~~~~~~~~~~~~~
  = erasure cannot be applied at [0,0] of ([A], B)
Suggestion: applicable sites: [0] [1]

`,
		},
		{
			name: "no position",
			issue: tt.Issue{
				Rule:    internal.IssueMalformedGraph,
				Start:   token.Position{Column: 1},
				Message: "boom",
			},
			expected: "error: malformed-graph\n --> <source>:0:1\n  = boom\n\n",
		},
		{
			name: "unexpected result",
			issue: tt.Issue{
				Rule:       internal.IssueUnexpectedResult,
				Filename:   "a.proof.yaml",
				Severity:   tt.SeverityWarning,
				Step:       2,
				Start:      token.Position{Line: 3, Column: 5},
				End:        token.Position{Line: 3, Column: 17},
				Message:    "expected (A), got (A, B)",
				Suggestion: `expect: "(A, B)"`,
			},
			expected: `warning: unexpected-result (step 2)
 --> a.proof.yaml:3:5
  |
3 | - rule: erasure
  |   ~~~~~~~~~~~~~
  = expected (A), got (A, B)
Suggestion: replace the expectation with
  expect: "(A, B)"

`,
		},
		{
			name: "conclusion mismatch",
			issue: tt.Issue{
				Rule:     internal.IssueConclusionMismatch,
				Filename: "a.proof.yaml",
				Severity: tt.SeverityInfo,
				Start:    token.Position{Line: 1, Column: 1},
				End:      token.Position{Line: 1, Column: 19},
				Message:  "proof ends with (B), not (A)",
				Note:     "1 of 1 steps replayed",
			},
			expected: `info: conclusion-mismatch
 --> a.proof.yaml:1:1
  |
1 | premise: "([A], B)"
  | ~~~~~~~~~~~~~~~~~~~
  = proof ends with (B), not (A)
Note: 1 of 1 steps replayed

`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := GenerateFormattedIssue([]tt.Issue{tc.issue}, code)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestGenerateFormattedIssue_MultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "    path: [0]"
	}
	lines[9] = "  - rule: deiteration"

	result := GenerateFormattedIssue([]tt.Issue{{
		Rule:     internal.IssueInvalidSite,
		Filename: "long.proof.yaml",
		Start:    token.Position{Line: 10, Column: 5},
		End:      token.Position{Line: 10, Column: 21},
		Message:  "deiteration cannot be applied",
	}}, &internal.SourceCode{Lines: lines})

	assert.Contains(t, result, "  --> long.proof.yaml:10:5\n")
	assert.Contains(t, result, "10 | - rule: deiteration\n")
	assert.Contains(t, result, "   |   ~~~~~~~~~~~~~~~~~\n")
	assert.Contains(t, result, "   = deiteration cannot be applied\n")
}

func TestFormatIssues(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.proof.yaml")
	b := filepath.Join(dir, "b.proof.yaml")
	for _, p := range []string{a, b} {
		require.NoError(t, os.WriteFile(p, []byte(`premise: "([A], B)"`+"\n"), 0o644))
	}

	issue := func(filename, msg string) tt.Issue {
		return tt.Issue{
			Rule:     internal.IssueConclusionMismatch,
			Filename: filename,
			Start:    token.Position{Line: 1, Column: 1},
			End:      token.Position{Line: 1, Column: 19},
			Message:  msg,
		}
	}
	out := FormatIssues([]tt.Issue{issue(b, "second"), issue(a, "first"), issue(filepath.Join(dir, "gone.proof.yaml"), "third")})

	first, second := indexOf(out, "first"), indexOf(out, "second")
	require.NotEqual(t, -1, first)
	assert.Less(t, first, second)
	assert.Contains(t, out, `1 | premise: "([A], B)"`)
	// an unreadable file still gets its message
	assert.Contains(t, out, "  = third\n")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"  - rule: erasure", 5, 4},
		{"\t- rule", 2, 8},
		{"ab\tc", 4, 8},
		{"abc", -1, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, calculateVisualColumn(tc.line, tc.column), "%q col %d", tc.line, tc.column)
	}
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "  ", findCommonIndent([]string{"  - rule: erasure", "    path: [0]", ""}))
	assert.Equal(t, "", findCommonIndent([]string{"premise: x", "  - a"}))
	assert.Equal(t, "", findCommonIndent(nil))
}

func TestFormatTrace(t *testing.T) {
	t.Parallel()
	premise := graph.MustParse("([[A]], B)")
	middle := graph.MustParse("(A, B)")
	result := graph.MustParse("(A)")
	trace := tt.Trace{
		Name:    "dn",
		Premise: premise,
		Steps: []tt.StepResult{
			{Index: 1, Rule: graph.RuleDoubleCut, Path: graph.Path{0}, Before: premise, After: middle},
			{Index: 2, Rule: graph.RuleErasure, Path: graph.Path{1}, Before: middle, After: result},
		},
	}

	expected := `dn
  premise ([[A]], B)
1 double-cut [0] (A, B)
2 erasure [1] (A)
  result (A)
`
	assert.Equal(t, expected, FormatTrace(trace, false))

	withDiff := FormatTrace(trace, true)
	assert.Contains(t, withDiff, "2 erasure [1] (A)\n  (A[-, B-])\n")

	assert.Equal(t, "", FormatTrace(tt.Trace{}, false))
}

func TestDiff(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "(A{+, B+})", Diff("(A)", "(A, B)"))
	assert.Equal(t, "(A[-, B-])", Diff("(A, B)", "(A)"))
	assert.Equal(t, "([A])", Diff("([A])", "([A])"))
}

func TestDot(t *testing.T) {
	t.Parallel()
	expected := `digraph aegraph {
	n0 [label="sheet", shape=box];
	n1 [label="cut", shape=ellipse];
	n0 -> n1;
	n2 [label="B", shape=plaintext];
	n1 -> n2;
	n3 [label="A", shape=plaintext];
	n0 -> n3;
}
`
	assert.Equal(t, expected, Dot(graph.MustParse("(A, [B])")))
	assert.Equal(t, "digraph aegraph {\n\tn0 [label=\"cut\", shape=ellipse];\n}\n", Dot(graph.MustParse("[]")))
}
