package workflows

import "fmt"

// State is a named casework stage. The string value is the persistence key
// and must stay stable for compatibility with existing status history rows.
type State string

const (
	StateAssignCaseOfficer   State = "assign_case_officer"
	StateValidation          State = "validation"
	StateReadyToStart        State = "ready_to_start"
	StateLPAQuestionnaireDue State = "lpa_questionnaire_due"
	StateStatementReview     State = "statements"
	StateFinalCommentReview  State = "final_comments"
	StateIssueDetermination  State = "issue_determination"
	StateComplete            State = "complete"
	StateInvalid             State = "invalid"
	StateWithdrawn           State = "withdrawn"
	StateClosed              State = "closed"
	StateTransferred         State = "transferred"
)

// Event names a transition trigger. Generic outcomes share a small vocabulary;
// side-branch moves use the target state name as their own event id.
type Event string

const (
	EventValid      Event = "Valid"
	EventInvalid    Event = "Invalid"
	EventIncomplete Event = "Incomplete"
	EventComplete   Event = "Complete"

	EventWithdrawn   Event = Event(StateWithdrawn)
	EventClosed      Event = Event(StateClosed)
	EventTransferred Event = Event(StateTransferred)
)

// CaseType selects which state graph and timetable configuration apply to an appeal.
type CaseType string

const (
	CaseTypeHouseholder  CaseType = "householder"
	CaseTypeFullPlanning CaseType = "full_planning"
)

// StateGraph is a finite transition table for one case type. Terminal
// membership is kept as an explicit set rather than inferred from missing
// edges.
type StateGraph struct {
	CaseType    CaseType
	Initial     State
	transitions map[State]map[Event]State
	terminal    map[State]struct{}
}

// Next resolves the target state for an event. The second return is false when
// the current state has no edge for the event; callers treat that as a no-op,
// not an error.
func (g *StateGraph) Next(from State, event Event) (State, bool) {
	edges, ok := g.transitions[from]
	if !ok {
		return "", false
	}
	to, ok := edges[event]
	return to, ok
}

// IsTerminal reports whether the state has been declared terminal.
func (g *StateGraph) IsTerminal(s State) bool {
	_, ok := g.terminal[s]
	return ok
}

// AllowedEvents returns the events with an outgoing edge from the given state.
func (g *StateGraph) AllowedEvents(from State) []Event {
	edges, ok := g.transitions[from]
	if !ok {
		return nil
	}
	events := make([]Event, 0, len(edges))
	for ev := range edges {
		events = append(events, ev)
	}
	return events
}

// States returns every state mentioned by the graph, as sources, targets or
// terminals.
func (g *StateGraph) States() []State {
	seen := map[State]struct{}{g.Initial: {}}
	for from, edges := range g.transitions {
		seen[from] = struct{}{}
		for _, to := range edges {
			seen[to] = struct{}{}
		}
	}
	for s := range g.terminal {
		seen[s] = struct{}{}
	}
	states := make([]State, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	return states
}

// Validate checks graph closure: terminal states carry no outgoing edges and
// every non-terminal reachable state has at least one.
func (g *StateGraph) Validate() error {
	for s := range g.terminal {
		if len(g.transitions[s]) > 0 {
			return fmt.Errorf("state graph %s: terminal state %s has outgoing edges", g.CaseType, s)
		}
	}
	for _, s := range g.States() {
		if g.IsTerminal(s) {
			continue
		}
		if len(g.transitions[s]) == 0 {
			return fmt.Errorf("state graph %s: non-terminal state %s has no outgoing edges", g.CaseType, s)
		}
	}
	if _, ok := g.transitions[g.Initial]; !ok {
		return fmt.Errorf("state graph %s: initial state %s has no outgoing edges", g.CaseType, g.Initial)
	}
	return nil
}

func householderGraph() *StateGraph {
	return &StateGraph{
		CaseType: CaseTypeHouseholder,
		Initial:  StateAssignCaseOfficer,
		transitions: map[State]map[Event]State{
			StateAssignCaseOfficer: {
				EventComplete:  StateValidation,
				EventWithdrawn: StateWithdrawn,
				EventClosed:    StateClosed,
			},
			StateValidation: {
				EventValid:       StateReadyToStart,
				EventInvalid:     StateInvalid,
				EventWithdrawn:   StateWithdrawn,
				EventTransferred: StateTransferred,
			},
			StateReadyToStart: {
				EventValid:     StateLPAQuestionnaireDue,
				EventInvalid:   StateInvalid,
				EventWithdrawn: StateWithdrawn,
			},
			StateLPAQuestionnaireDue: {
				EventComplete:  StateIssueDetermination,
				EventWithdrawn: StateWithdrawn,
				EventClosed:    StateClosed,
			},
			StateIssueDetermination: {
				EventComplete:  StateComplete,
				EventWithdrawn: StateWithdrawn,
			},
		},
		terminal: map[State]struct{}{
			StateComplete:    {},
			StateInvalid:     {},
			StateWithdrawn:   {},
			StateClosed:      {},
			StateTransferred: {},
		},
	}
}

func fullPlanningGraph() *StateGraph {
	return &StateGraph{
		CaseType: CaseTypeFullPlanning,
		Initial:  StateReadyToStart,
		transitions: map[State]map[Event]State{
			StateReadyToStart: {
				EventValid:   StateLPAQuestionnaireDue,
				EventInvalid: StateInvalid,
			},
			StateLPAQuestionnaireDue: {
				EventComplete: StateStatementReview,
			},
			StateStatementReview: {
				EventComplete: StateFinalCommentReview,
			},
			StateFinalCommentReview: {
				EventComplete: StateIssueDetermination,
			},
			StateIssueDetermination: {
				EventComplete: StateComplete,
			},
		},
		terminal: map[State]struct{}{
			StateComplete: {},
			StateInvalid:  {},
		},
	}
}
