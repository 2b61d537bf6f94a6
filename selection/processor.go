// Package selection implements the three-stage Selection Processor
// (spec §4.1): fragment resolution, directive evaluation, and
// finalisation (merge-dedup by response key). Each stage is a pure
// function of its input; Process runs them in order and returns a
// fragment-free, directive-evaluated, deduplicated ProcessedQuery ready
// for planning.
package selection

import (
	"github.com/fraiseql/fraiseql-core/gqlsource"
)

// ResolvedSelection is a field selection after Stage A expands every
// fragment spread/inline fragment into concrete fields.
type ResolvedSelection struct {
	Name       string
	Alias      string
	Arguments  []gqlsource.Argument
	Selections []ResolvedSelection
	Directives []gqlsource.Directive
}

// ResponseKey returns Alias if set, else Name.
func (r ResolvedSelection) ResponseKey() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Name
}

// ProcessedQuery is the Selection Processor's output: a finalised,
// fragment-free selection set ready for planning.
type ProcessedQuery struct {
	OperationType gqlsource.OperationType
	OperationName string
	RootField     string
	Selections    []ResolvedSelection
	SourceText    string
}

// TypeMatcher decides whether an inline fragment's or fragment
// definition's type condition matches the type currently being selected
// against. The default (nil) matcher treats every type condition as
// matching, since the processor by itself has no schema; callers that
// need interface/union-aware dropping (spec §4.1 Stage A: "Type
// conditions that do not match the current type are dropped") should
// supply one backed by the compiled schema.
type TypeMatcher func(typeCondition, currentType string) bool

// Options configures Process.
type Options struct {
	// RootType is the GraphQL type name the top-level selection set is
	// evaluated against (e.g. the query's return type); "" disables type
	// condition filtering.
	RootType string
	// Matches overrides type-condition matching; see TypeMatcher.
	Matches TypeMatcher
}

func (o Options) matches(typeCondition, currentType string) bool {
	if typeCondition == "" || o.RootType == "" || o.Matches == nil {
		return true
	}
	return o.Matches(typeCondition, currentType)
}

// Process runs Stage A (fragment resolution), Stage B (directive
// evaluation), and Stage C (finalisation) over pq, given the request's
// resolved variable map (used for @skip/@include's variable form).
func Process(pq *gqlsource.ParsedQuery, variables map[string]any, opts Options) (*ProcessedQuery, error) {
	expanded, err := expandSelections(pq.Selections, pq.Fragments, opts.RootType, opts, nil)
	if err != nil {
		return nil, err
	}

	kept, err := evaluateDirectives(expanded, variables)
	if err != nil {
		return nil, err
	}

	final, err := finalize(kept)
	if err != nil {
		return nil, err
	}

	return &ProcessedQuery{
		OperationType: pq.OperationType,
		OperationName: pq.OperationName,
		RootField:     pq.RootField,
		Selections:    final,
		SourceText:    pq.SourceText,
	}, nil
}
