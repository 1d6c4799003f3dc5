package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

var (
	deleteStyle = color.New(color.FgRed)
	insertStyle = color.New(color.FgGreen)
	stepStyle   = color.New(color.FgHiBlue, color.Bold)
)

// FormatTrace lists the graphs a proof goes through, one step per line.
// With showDiff, each step also shows what changed from the graph before.
func FormatTrace(trace tt.Trace, showDiff bool) string {
	var b strings.Builder
	if trace.Name != "" {
		b.WriteString(fileStyle.Sprint(trace.Name) + "\n")
	}
	if trace.Premise == nil {
		return b.String()
	}

	width := calculateMaxLineNumWidth(len(trace.Steps))
	fmt.Fprintf(&b, "%s %s %s\n", strings.Repeat(" ", width), lineStyle.Sprint("premise"), trace.Premise)
	for _, st := range trace.Steps {
		fmt.Fprintf(&b, "%s %s [%s] %s\n",
			stepStyle.Sprintf("%*d", width, st.Index),
			ruleStyle.Sprint(st.Rule),
			st.Path,
			st.After,
		)
		if showDiff {
			fmt.Fprintf(&b, "%s %s\n", strings.Repeat(" ", width), Diff(st.Before.String(), st.After.String()))
		}
	}
	fmt.Fprintf(&b, "%s %s %s\n", strings.Repeat(" ", width), suggestionStyle.Sprint("result"), trace.Result())
	return b.String()
}

// Diff renders the character differences between two serializations:
// removed text as [-text-] and inserted text as {+text+}.
func Diff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(deleteStyle.Sprintf("[-%s-]", d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(insertStyle.Sprintf("{+%s+}", d.Text))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
