// Package internal provides the proof-checking engine behind the aegraph tool.
//
// A proof script names a premise graph and a sequence of rule applications.
// The engine replays the steps against the inference rules it was configured
// with and reports every step that cannot be carried out.
//
// Key components:
//
// Engine: replays proof scripts and reports issues. Rules may be disabled or
// given a severity through the configuration.
//
// InferenceRule: the contract every rule implements: the sites at which it
// applies to a graph and the application itself.
//
// Cache: keeps the issues of unchanged scripts between runs, per rule state.
//
// SourceCode: the content of a script as a collection of lines, used to
// show the offending step.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("double-negation.proof.yaml")
//	if err != nil {
//	    // handle error
//	}
package internal
