package internal

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/aegraph/internal/graph"
	"github.com/gnoswap-labs/aegraph/internal/script"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

// Issue kinds raised while replaying a proof script.
const (
	IssueMalformedGraph     = "malformed-graph"
	IssueUnknownRule        = "unknown-rule"
	IssueRuleDisabled       = "rule-disabled"
	IssueInvalidSite        = "invalid-site"
	IssueUnexpectedResult   = "unexpected-result"
	IssueConclusionMismatch = "conclusion-mismatch"

	proofCategory = "proof"
)

// maxSuggestedSites bounds the list of legal sites printed with an
// invalid-site issue.
const maxSuggestedSites = 8

// Engine replays proof scripts against the configured inference rules.
type Engine struct {
	mu           sync.RWMutex
	ignoredRules map[string]bool
	rules        map[string]InferenceRule

	cache  *Cache
	logger *zap.Logger

	watcher    *fsnotify.Watcher
	isWatching atomic.Bool
	onReport   func(filename string, issues []tt.Issue)
}

// NewEngine creates a new proof engine. Rules missing from the configuration
// keep their default severity; a severity of off disables a rule.
func NewEngine(rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() InferenceRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// allRuleConstructors maps rule names to their constructors.
var allRuleConstructors = ruleMap{
	graph.RuleDoubleCut.String():   NewDoubleCutRule,
	graph.RuleErasure.String():     NewErasureRule,
	graph.RuleDeiteration.String(): NewDeiterationRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]InferenceRule, len(allRuleConstructors))
	for key, newRule := range allRuleConstructors {
		e.rules[key] = newRule()
	}

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			return fmt.Errorf("configuration: %w: %q", graph.ErrUnknownRule, key)
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(r.Name())
		}
		r.SetSeverity(rule.Severity)
	}
	return nil
}

func (e *Engine) findRule(name string) InferenceRule {
	rule, err := graph.ParseRule(name)
	if err != nil {
		return nil
	}
	return e.rules[rule.String()]
}

// SetLogger sets the logger used for cache and watch events.
func (e *Engine) SetLogger(logger *zap.Logger) {
	e.logger = logger
}

// UseCache makes Run consult and fill c.
func (e *Engine) UseCache(c *Cache) {
	e.cache = c
}

func (e *Engine) log() *zap.Logger {
	if e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

// IgnoreRule disables the named rule: steps using it are reported.
func (e *Engine) IgnoreRule(rule string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[strings.TrimSpace(rule)] = true
}

func (e *Engine) isIgnored(rule InferenceRule) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ignoredRules[rule.Name()] || rule.Severity() == tt.SeverityOff
}

// EnabledRules returns the names of the rules proofs may use, sorted.
func (e *Engine) EnabledRules() []string {
	var names []string
	for name, r := range e.rules {
		if !e.isIgnored(r) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RuleState describes every rule with its severity and whether proofs may
// use it, in name order. Two engines with the same rule state report the
// same issues for the same script.
func (e *Engine) RuleState() string {
	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		r := e.rules[name]
		state := "on"
		if e.isIgnored(r) {
			state = "off"
		}
		parts = append(parts, fmt.Sprintf("%s=%s/%s", name, r.Severity(), state))
	}
	return strings.Join(parts, ",")
}

// Run checks the proof script stored in filename and returns its issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error loading proof script: %w", err)
	}

	var ruleState string
	if e.cache != nil {
		ruleState = e.RuleState()
		if issues, ok := e.cache.Get(source, ruleState); ok {
			e.log().Debug("cache hit", zap.String("file", filename))
			return withFilename(issues, filename), nil
		}
	}

	s, err := script.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("error loading proof script: %s: %w", filename, err)
	}
	issues := withFilename(e.Check(s), filename)

	if e.cache != nil {
		if err := e.cache.Set(source, ruleState, issues); err != nil {
			e.log().Warn("failed to cache results", zap.String("file", filename), zap.Error(err))
		}
	}
	return issues, nil
}

func withFilename(issues []tt.Issue, filename string) []tt.Issue {
	for i := range issues {
		issues[i].Filename = filename
		issues[i].Start.Filename = filename
		issues[i].End.Filename = filename
	}
	return issues
}

// RunSource checks an in-memory proof script.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	s, err := script.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}
	return e.Check(s), nil
}

// Check validates s and replays it when it is well formed. A script with
// defects is not replayed: every defect is reported at once instead.
func (e *Engine) Check(s *script.Script) []tt.Issue {
	if problems := script.Problems(s.Validate()); len(problems) > 0 {
		issues := make([]tt.Issue, 0, len(problems))
		for _, p := range problems {
			issues = append(issues, newIssue(s, problemKind(p), p.Step, p.Line, p.Column, tt.SeverityError, p.Error()))
		}
		return issues
	}
	_, issues := e.Replay(s)
	return issues
}

func problemKind(p *script.Problem) string {
	switch {
	case errors.Is(p, graph.ErrUnknownRule):
		return IssueUnknownRule
	case errors.Is(p, graph.ErrInvalidPath):
		return IssueInvalidSite
	default:
		return IssueMalformedGraph
	}
}

// Replay applies the steps of s one after the other. It stops at the first
// step that cannot be carried out and returns the trace up to that point
// along with every issue found.
func (e *Engine) Replay(s *script.Script) (tt.Trace, []tt.Issue) {
	trace := tt.Trace{Name: s.Name}
	var issues []tt.Issue

	premise, err := graph.Parse(s.Premise)
	if err != nil {
		issues = append(issues, newIssue(s, IssueMalformedGraph, 0, s.PremiseLine, 1, tt.SeverityError,
			fmt.Sprintf("premise: %v", err)))
		return trace, issues
	}
	trace.Premise = premise
	current := premise

	for i, st := range s.Steps {
		n := i + 1
		at := func(kind string, level tt.Severity, msg string) tt.Issue {
			return newIssue(s, kind, n, st.Line, st.Column, level, msg)
		}

		rule := e.findRule(st.Rule)
		if rule == nil {
			issues = append(issues, at(IssueUnknownRule, tt.SeverityError,
				fmt.Sprintf("unknown rule %q", st.Rule)))
			return trace, issues
		}
		if e.isIgnored(rule) {
			issue := at(IssueRuleDisabled, tt.SeverityError,
				fmt.Sprintf("rule %s is disabled", rule.Name()))
			issue.Suggestion = "enabled rules: " + strings.Join(e.EnabledRules(), ", ")
			issues = append(issues, issue)
		}

		where := st.GraphPath()
		sites := rule.Sites(current)
		if !hasSite(sites, where) {
			issue := at(IssueInvalidSite, rule.Severity(),
				fmt.Sprintf("%s cannot be applied at [%s] of %s", rule.Name(), where, current))
			issue.Suggestion = describeSites(sites)
			issues = append(issues, issue)
			return trace, issues
		}

		next, err := rule.Apply(current, where)
		if err != nil {
			issues = append(issues, at(IssueInvalidSite, rule.Severity(), err.Error()))
			return trace, issues
		}

		// paths of the next step refer to the canonical form of this result
		next = next.Canonical()
		kind, _ := graph.ParseRule(rule.Name())
		trace.Steps = append(trace.Steps, tt.StepResult{
			Index:  n,
			Rule:   kind,
			Path:   where,
			Before: current,
			After:  next,
		})
		current = next

		if st.Expect == "" {
			continue
		}
		expected, err := graph.Parse(st.Expect)
		if err != nil {
			issues = append(issues, at(IssueMalformedGraph, tt.SeverityError, fmt.Sprintf("expect: %v", err)))
			continue
		}
		if !expected.Equal(current) {
			issue := at(IssueUnexpectedResult, tt.SeverityError,
				fmt.Sprintf("expected %s, got %s", expected.Canonical(), current.Canonical()))
			issue.Suggestion = "expect: \"" + current.Canonical().String() + "\""
			issues = append(issues, issue)
		}
	}

	if s.Conclusion == "" {
		return trace, issues
	}
	conclusion, err := graph.Parse(s.Conclusion)
	if err != nil {
		issues = append(issues, newIssue(s, IssueMalformedGraph, 0, s.ConclusionLine, 1, tt.SeverityError,
			fmt.Sprintf("conclusion: %v", err)))
		return trace, issues
	}
	if !conclusion.Equal(current) {
		issue := newIssue(s, IssueConclusionMismatch, 0, s.ConclusionLine, 1, tt.SeverityError,
			fmt.Sprintf("proof ends with %s, not %s", current.Canonical(), conclusion.Canonical()))
		issue.Note = fmt.Sprintf("%d of %d steps replayed", len(trace.Steps), len(s.Steps))
		issues = append(issues, issue)
	}
	return trace, issues
}

func newIssue(s *script.Script, kind string, step, line, column int, level tt.Severity, msg string) tt.Issue {
	if column < 1 {
		column = 1
	}
	end := column
	if line > 0 && line <= len(s.Lines) {
		end = max(len(s.Lines[line-1]), column)
	}
	return tt.Issue{
		Rule:     kind,
		Category: proofCategory,
		Message:  msg,
		Severity: level,
		Step:     step,
		Start:    token.Position{Line: line, Column: column},
		End:      token.Position{Line: line, Column: end},
	}
}

func describeSites(sites []graph.Path) string {
	if len(sites) == 0 {
		return "the rule has no applicable site here"
	}
	parts := make([]string, 0, min(len(sites), maxSuggestedSites))
	for i, s := range sites {
		if i == maxSuggestedSites {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(sites)-maxSuggestedSites))
			break
		}
		parts = append(parts, "["+s.String()+"]")
	}
	return "applicable sites: " + strings.Join(parts, " ")
}

// SourceCode stores the content of a proof script.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
