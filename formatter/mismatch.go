package formatter

// MismatchFormatter formats issues raised when a graph differs from the one
// the script expects. The suggestion holds the graph actually reached, so it
// is shown as a replacement rather than as advice.
type MismatchFormatter struct{}

func (f *MismatchFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .Step .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{- if .Suggestion }}{{suggestion (printf "replace the expectation with\n%s" .Suggestion) .Padding}}{{ end -}}
{{note .Note}}
`
}
