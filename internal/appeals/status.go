package appeals

import (
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

// CurrentStatus derives the active status from an appeal's history: the
// record with Valid=true. If racing writes ever leave more than one valid
// record, the most recent by CreatedAt wins. The second return is false when
// the appeal has no valid record at all.
func CurrentStatus(history []AppealStatus) (AppealStatus, bool) {
	var current AppealStatus
	found := false
	for _, record := range history {
		if !record.Valid {
			continue
		}
		if !found || record.CreatedAt.After(current.CreatedAt) {
			current = record
			found = true
		}
	}
	return current, found
}

// canonicalStatusOrder is the fixed display priority for status names across
// the personal work queue and the national list.
var canonicalStatusOrder = []workflows.State{
	workflows.StateAssignCaseOfficer,
	workflows.StateValidation,
	workflows.StateReadyToStart,
	workflows.StateLPAQuestionnaireDue,
	workflows.StateStatementReview,
	workflows.StateFinalCommentReview,
	workflows.StateIssueDetermination,
	workflows.StateComplete,
	workflows.StateInvalid,
	workflows.StateWithdrawn,
	workflows.StateClosed,
	workflows.StateTransferred,
}

// CanonicalOrder sorts distinct status names by the fixed priority list, then
// appends any unrecognized names in their original relative order. Duplicates
// are removed. The sort is pure, deterministic and idempotent.
func CanonicalOrder(statuses []workflows.State) []workflows.State {
	present := make(map[workflows.State]bool, len(statuses))
	for _, s := range statuses {
		present[s] = true
	}

	ordered := make([]workflows.State, 0, len(present))
	known := make(map[workflows.State]bool, len(canonicalStatusOrder))
	for _, s := range canonicalStatusOrder {
		known[s] = true
		if present[s] {
			ordered = append(ordered, s)
		}
	}

	appended := make(map[workflows.State]bool)
	for _, s := range statuses {
		if known[s] || appended[s] {
			continue
		}
		ordered = append(ordered, s)
		appended[s] = true
	}
	return ordered
}
