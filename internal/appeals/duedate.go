package appeals

import (
	"time"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

// fallbackDueOffsets maps a status to the calendar-day offset from the case
// creation date used when no explicit timetable milestone exists for it.
var fallbackDueOffsets = map[workflows.State]int{
	workflows.StateReadyToStart:        5,
	workflows.StateValidation:          10,
	workflows.StateAssignCaseOfficer:   15,
	workflows.StateLPAQuestionnaireDue: 20,
	workflows.StateStatementReview:     55,
	workflows.StateFinalCommentReview:  60,
	workflows.StateIssueDetermination:  80,
}

// ProjectDueDate derives the approximate "next action due" date shown on list
// and dashboard views.
//
// The second return distinguishes "no due date" from "unknown": (nil, true)
// means the status legitimately has no due date, while (nil, false) means the
// status is unrecognized and no projection applies.
func ProjectDueDate(status workflows.State, appeal *Appeal, timetable *AppealTimetable, hols calendar.HolidaySet) (*time.Time, bool) {
	switch status {
	case workflows.StateLPAQuestionnaireDue:
		if timetable != nil && timetable.LPAQuestionnaireDueDate != nil {
			return timetable.LPAQuestionnaireDueDate, true
		}
		return fallbackDueDate(appeal, status), true

	case workflows.StateStatementReview:
		// Two milestones compete for this stage; the earlier one drives
		// the work queue.
		if due := earlierOf(timetableStatementDates(timetable)); due != nil {
			return due, true
		}
		return fallbackDueDate(appeal, status), true

	case workflows.StateFinalCommentReview:
		if timetable != nil && timetable.FinalCommentsDueDate != nil {
			return timetable.FinalCommentsDueDate, true
		}
		return fallbackDueDate(appeal, status), true

	case workflows.StateAssignCaseOfficer,
		workflows.StateValidation,
		workflows.StateReadyToStart,
		workflows.StateIssueDetermination:
		return fallbackDueDate(appeal, status), true

	case workflows.StateComplete:
		if appeal.CostsDecisionOutstanding && appeal.CompletedAt != nil {
			due := calendar.AddBusinessDays(*appeal.CompletedAt, 5, hols)
			return &due, true
		}
		return nil, true

	case workflows.StateInvalid,
		workflows.StateWithdrawn,
		workflows.StateClosed,
		workflows.StateTransferred:
		return nil, true

	default:
		return nil, false
	}
}

func fallbackDueDate(appeal *Appeal, status workflows.State) *time.Time {
	offset, ok := fallbackDueOffsets[status]
	if !ok {
		return nil
	}
	due := appeal.CreatedAt.AddDate(0, 0, offset)
	return &due
}

func timetableStatementDates(timetable *AppealTimetable) []*time.Time {
	if timetable == nil {
		return nil
	}
	return []*time.Time{timetable.LPAStatementDueDate, timetable.IPCommentsDueDate}
}

func earlierOf(dates []*time.Time) *time.Time {
	var earliest *time.Time
	for _, d := range dates {
		if d == nil {
			continue
		}
		if earliest == nil || d.Before(*earliest) {
			earliest = d
		}
	}
	return earliest
}
