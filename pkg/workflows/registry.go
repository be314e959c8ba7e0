package workflows

import "fmt"

// ErrUnknownCaseType is returned by Lookup when no graph is registered for the
// requested case type. It is a configuration error: nothing may be persisted
// on its path.
var ErrUnknownCaseType = fmt.Errorf("workflows: no state graph for case type")

// Registry holds the state graph per case type. Graphs are fixed at
// construction and read-only afterwards, so the registry needs no locking.
type Registry struct {
	graphs map[CaseType]*StateGraph
}

// NewRegistry builds the registry with the built-in graphs. It panics if a
// built-in graph fails closure validation, since that is a programming error
// caught at startup.
func NewRegistry() *Registry {
	r := &Registry{graphs: map[CaseType]*StateGraph{}}
	for _, g := range []*StateGraph{householderGraph(), fullPlanningGraph()} {
		if err := g.Validate(); err != nil {
			panic(err)
		}
		r.graphs[g.CaseType] = g
	}
	return r
}

// Lookup returns the graph for a case type, or ErrUnknownCaseType.
func (r *Registry) Lookup(caseType CaseType) (*StateGraph, error) {
	g, ok := r.graphs[caseType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCaseType, caseType)
	}
	return g, nil
}

// CaseTypes lists the registered case types.
func (r *Registry) CaseTypes() []CaseType {
	types := make([]CaseType, 0, len(r.graphs))
	for ct := range r.graphs {
		types = append(types, ct)
	}
	return types
}
