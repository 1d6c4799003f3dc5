package internal

import (
	"github.com/gnoswap-labs/aegraph/internal/graph"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

/*
* Implement each inference rule as a separate struct
 */

// InferenceRule defines the interface for all inference rules a proof may use.
type InferenceRule interface {
	// Sites returns the paths at which the rule applies to g.
	Sites(g *graph.Graph) []graph.Path

	// Apply applies the rule to g at where.
	Apply(g *graph.Graph, where graph.Path) (*graph.Graph, error)

	// Name returns the name of the rule.
	Name() string

	// Severity returns the level of the issues raised against the rule.
	Severity() tt.Severity

	// SetSeverity sets the level of the issues raised against the rule.
	SetSeverity(tt.Severity)
}

type severity struct {
	level tt.Severity
}

func (s *severity) Severity() tt.Severity {
	return s.level
}

func (s *severity) SetSeverity(level tt.Severity) {
	s.level = level
}

type DoubleCutRule struct {
	severity
}

func NewDoubleCutRule() InferenceRule {
	return &DoubleCutRule{severity{tt.SeverityError}}
}

func (r *DoubleCutRule) Sites(g *graph.Graph) []graph.Path {
	return g.PossibleDoubleCuts()
}

func (r *DoubleCutRule) Apply(g *graph.Graph, where graph.Path) (*graph.Graph, error) {
	return g.DoubleCut(where)
}

func (r *DoubleCutRule) Name() string {
	return graph.RuleDoubleCut.String()
}

type ErasureRule struct {
	severity
}

func NewErasureRule() InferenceRule {
	return &ErasureRule{severity{tt.SeverityError}}
}

// Sites treats g as the sheet of assertion, at level 0.
func (r *ErasureRule) Sites(g *graph.Graph) []graph.Path {
	return g.PossibleErasures(0)
}

func (r *ErasureRule) Apply(g *graph.Graph, where graph.Path) (*graph.Graph, error) {
	return g.Erase(where)
}

func (r *ErasureRule) Name() string {
	return graph.RuleErasure.String()
}

type DeiterationRule struct {
	severity
}

func NewDeiterationRule() InferenceRule {
	return &DeiterationRule{severity{tt.SeverityError}}
}

func (r *DeiterationRule) Sites(g *graph.Graph) []graph.Path {
	return g.PossibleDeiterations()
}

func (r *DeiterationRule) Apply(g *graph.Graph, where graph.Path) (*graph.Graph, error) {
	return g.Deiterate(where)
}

func (r *DeiterationRule) Name() string {
	return graph.RuleDeiteration.String()
}

// hasSite reports whether where is one of sites.
func hasSite(sites []graph.Path, where graph.Path) bool {
	for _, s := range sites {
		if s.Equal(where) {
			return true
		}
	}
	return false
}
