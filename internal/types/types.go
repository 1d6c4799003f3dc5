package types

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gnoswap-labs/aegraph/internal/graph"
	"gopkg.in/yaml.v3"
)

// Issue represents a problem found while checking a proof script.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Severity   Severity
	// Step is the 1-based index of the offending step, 0 when the issue
	// concerns the script as a whole.
	Step  int
	Start token.Position
	End   token.Position
}

// Severity is the level attached to a rule and to the issues it raises.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity accepts the names printed by String, in any case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	case "OFF":
		return SeverityOff, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalYAML writes the severity as its lowercase name.
func (s Severity) MarshalYAML() (any, error) {
	return strings.ToLower(s.String()), nil
}

// UnmarshalYAML reads a severity name.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	v, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConfigRule is the per-rule section of the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// StepResult records one replayed proof step.
type StepResult struct {
	Index  int
	Rule   graph.Rule
	Path   graph.Path
	Before *graph.Graph
	After  *graph.Graph
}

// Trace is the sequence of graphs a proof script goes through.
type Trace struct {
	Name    string
	Premise *graph.Graph
	Steps   []StepResult
}

// Result returns the last graph of the trace.
func (t Trace) Result() *graph.Graph {
	if len(t.Steps) == 0 {
		return t.Premise
	}
	return t.Steps[len(t.Steps)-1].After
}
