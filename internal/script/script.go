// Package script reads proof scripts: a premise graph, the rule applications
// that transform it, and an optional conclusion.
//
//	name: double negation
//	premise: "([[A]], B)"
//	conclusion: "(A)"
//	steps:
//	  - rule: double-cut
//	    path: [0]
//	  - rule: erasure
//	    path: [1]
package script

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gnoswap-labs/aegraph/internal/graph"
	"gopkg.in/yaml.v3"
)

// Script is a decoded proof script.
type Script struct {
	Name       string `yaml:"name,omitempty"`
	Premise    string `yaml:"premise"`
	Conclusion string `yaml:"conclusion,omitempty"`
	Steps      []Step `yaml:"steps"`

	// Source lines of the premise and conclusion keys, 0 when unknown.
	PremiseLine    int `yaml:"-"`
	ConclusionLine int `yaml:"-"`
	// Lines holds the raw text of the script, one entry per line.
	Lines []string `yaml:"-"`
}

// Step is a single rule application.
type Step struct {
	Rule   string `yaml:"rule"`
	Path   []int  `yaml:"path,flow"`
	Expect string `yaml:"expect,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// GraphPath returns the step's path as a graph.Path.
func (s Step) GraphPath() graph.Path {
	return graph.Path(s.Path)
}

// Parse decodes a proof script and records where each part of it sits in
// data.
func Parse(data []byte) (*Script, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("error decoding proof script: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty proof script")
	}

	var s Script
	if err := root.Content[0].Decode(&s); err != nil {
		return nil, fmt.Errorf("error decoding proof script: %w", err)
	}
	if s.Premise == "" {
		return nil, errors.New("proof script has no premise")
	}
	s.Lines = strings.Split(string(data), "\n")
	s.locate(root.Content[0])
	return &s, nil
}

// Load reads and parses the proof script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes s back to YAML.
func (s *Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Problem is a defect Validate found in a script, located in its source.
type Problem struct {
	// Field is one of premise, conclusion, rule, path or expect.
	Field string
	// Step is the 1-based step the problem belongs to, 0 outside steps.
	Step   int
	Line   int
	Column int
	Err    error
}

func (p *Problem) Error() string {
	if p.Step > 0 {
		return fmt.Sprintf("step %d: %s: %v", p.Step, p.Field, p.Err)
	}
	return fmt.Sprintf("%s: %v", p.Field, p.Err)
}

func (p *Problem) Unwrap() error { return p.Err }

// Validate reports every problem that makes the script impossible to replay:
// malformed premise, conclusion or expectations, unknown rule names and
// empty or negative paths. The returned error joins one *Problem per defect.
func (s *Script) Validate() error {
	var errs []error
	if _, err := graph.Parse(s.Premise); err != nil {
		errs = append(errs, &Problem{Field: "premise", Line: s.PremiseLine, Column: 1, Err: err})
	}
	if s.Conclusion != "" {
		if _, err := graph.Parse(s.Conclusion); err != nil {
			errs = append(errs, &Problem{Field: "conclusion", Line: s.ConclusionLine, Column: 1, Err: err})
		}
	}
	for i, st := range s.Steps {
		at := func(field string, err error) *Problem {
			return &Problem{Field: field, Step: i + 1, Line: st.Line, Column: st.Column, Err: err}
		}
		if _, err := graph.ParseRule(st.Rule); err != nil {
			errs = append(errs, at("rule", err))
		}
		switch {
		case len(st.Path) == 0:
			errs = append(errs, at("path", fmt.Errorf("%w: empty path", graph.ErrInvalidPath)))
		case slices.ContainsFunc(st.Path, func(n int) bool { return n < 0 }):
			errs = append(errs, at("path", fmt.Errorf("%w: negative index in %v", graph.ErrInvalidPath, st.Path)))
		}
		if st.Expect != "" {
			if _, err := graph.Parse(st.Expect); err != nil {
				errs = append(errs, at("expect", err))
			}
		}
	}
	return errors.Join(errs...)
}

// Problems returns the problems joined in an error returned by Validate.
func Problems(err error) []*Problem {
	if err == nil {
		return nil
	}
	var joined []error
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		joined = u.Unwrap()
	} else {
		joined = []error{err}
	}
	problems := make([]*Problem, 0, len(joined))
	for _, e := range joined {
		var p *Problem
		if errors.As(e, &p) {
			problems = append(problems, p)
		}
	}
	return problems
}

// locate fills in the line information from the mapping node m.
func (s *Script) locate(m *yaml.Node) {
	if m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		switch key.Value {
		case "premise":
			s.PremiseLine = key.Line
		case "conclusion":
			s.ConclusionLine = key.Line
		case "steps":
			if value.Kind != yaml.SequenceNode {
				continue
			}
			for j, item := range value.Content {
				if j < len(s.Steps) {
					s.Steps[j].Line = item.Line
					s.Steps[j].Column = item.Column
				}
			}
		}
	}
}
