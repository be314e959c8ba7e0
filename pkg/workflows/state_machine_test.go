package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()

	graph, err := registry.Lookup(CaseTypeHouseholder)
	assert.NoError(t, err)
	assert.Equal(t, StateAssignCaseOfficer, graph.Initial)

	graph, err = registry.Lookup(CaseTypeFullPlanning)
	assert.NoError(t, err)
	assert.Equal(t, StateReadyToStart, graph.Initial)

	_, err = registry.Lookup(CaseType("caravan"))
	assert.ErrorIs(t, err, ErrUnknownCaseType)
}

func TestGraphClosure(t *testing.T) {
	registry := NewRegistry()

	for _, caseType := range registry.CaseTypes() {
		graph, err := registry.Lookup(caseType)
		assert.NoError(t, err)
		assert.NoError(t, graph.Validate())

		for _, state := range graph.States() {
			if graph.IsTerminal(state) {
				assert.Empty(t, graph.AllowedEvents(state),
					"terminal state %s of %s must have no outgoing edges", state, caseType)
			} else {
				assert.NotEmpty(t, graph.AllowedEvents(state),
					"non-terminal state %s of %s must have outgoing edges", state, caseType)
			}
		}
	}
}

func TestNextMatchesEdge(t *testing.T) {
	graph := householderGraph()

	to, ok := graph.Next(StateReadyToStart, EventInvalid)
	assert.True(t, ok)
	assert.Equal(t, StateInvalid, to)
	assert.True(t, graph.IsTerminal(to))

	to, ok = graph.Next(StateValidation, EventValid)
	assert.True(t, ok)
	assert.Equal(t, StateReadyToStart, to)
}

func TestNextUnknownEventIsNoEdge(t *testing.T) {
	graph := householderGraph()

	// Incomplete is deliberately absent from every edge map: the caller
	// treats the missing edge as a self-loop, never an error.
	_, ok := graph.Next(StateLPAQuestionnaireDue, EventIncomplete)
	assert.False(t, ok)

	_, ok = graph.Next(StateComplete, EventComplete)
	assert.False(t, ok)

	_, ok = graph.Next(State("nonexistent"), EventValid)
	assert.False(t, ok)
}

func TestFullPlanningLinearPath(t *testing.T) {
	graph := fullPlanningGraph()

	path := []struct {
		from  State
		event Event
		to    State
	}{
		{StateReadyToStart, EventValid, StateLPAQuestionnaireDue},
		{StateLPAQuestionnaireDue, EventComplete, StateStatementReview},
		{StateStatementReview, EventComplete, StateFinalCommentReview},
		{StateFinalCommentReview, EventComplete, StateIssueDetermination},
		{StateIssueDetermination, EventComplete, StateComplete},
	}
	for _, step := range path {
		to, ok := graph.Next(step.from, step.event)
		assert.True(t, ok, "expected edge %s --%s-->", step.from, step.event)
		assert.Equal(t, step.to, to)
	}
}
