package appeals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

func TestProjectDueDateFallbackForReadyToStart(t *testing.T) {
	appeal := &Appeal{
		CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	due, ok := ProjectDueDate(workflows.StateReadyToStart, appeal, nil, calendar.HolidaySet{})
	assert.True(t, ok)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2023, time.January, 6, 0, 0, 0, 0, time.UTC), *due)
}

func TestProjectDueDateFallbackTable(t *testing.T) {
	created := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	appeal := &Appeal{CreatedAt: created}

	cases := map[workflows.State]int{
		workflows.StateReadyToStart:       5,
		workflows.StateAssignCaseOfficer:  15,
		workflows.StateStatementReview:    55,
		workflows.StateFinalCommentReview: 60,
	}
	for status, offset := range cases {
		due, ok := ProjectDueDate(status, appeal, nil, calendar.HolidaySet{})
		assert.True(t, ok, "status %s", status)
		require.NotNil(t, due, "status %s", status)
		assert.Equal(t, created.AddDate(0, 0, offset), *due, "status %s", status)
	}
}

func TestProjectDueDateStatementsPicksEarlierMilestone(t *testing.T) {
	lpaStatement := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	ipComments := time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC)
	timetable := &AppealTimetable{
		LPAStatementDueDate: &lpaStatement,
		IPCommentsDueDate:   &ipComments,
	}
	appeal := &Appeal{CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)}

	due, ok := ProjectDueDate(workflows.StateStatementReview, appeal, timetable, calendar.HolidaySet{})
	assert.True(t, ok)
	require.NotNil(t, due)
	assert.Equal(t, ipComments, *due)
}

func TestProjectDueDateUsesQuestionnaireMilestone(t *testing.T) {
	questionnaireDue := time.Date(2023, time.June, 12, 23, 59, 0, 0, time.UTC)
	timetable := &AppealTimetable{LPAQuestionnaireDueDate: &questionnaireDue}
	appeal := &Appeal{CreatedAt: time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)}

	due, ok := ProjectDueDate(workflows.StateLPAQuestionnaireDue, appeal, timetable, calendar.HolidaySet{})
	assert.True(t, ok)
	require.NotNil(t, due)
	assert.Equal(t, questionnaireDue, *due)
}

func TestProjectDueDateComplete(t *testing.T) {
	appeal := &Appeal{CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)}

	due, ok := ProjectDueDate(workflows.StateComplete, appeal, nil, calendar.HolidaySet{})
	assert.True(t, ok)
	assert.Nil(t, due)
}

func TestProjectDueDateCompleteWithOutstandingCosts(t *testing.T) {
	completedAt := time.Date(2023, time.June, 9, 0, 0, 0, 0, time.UTC) // Friday
	appeal := &Appeal{
		CreatedAt:                time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		CompletedAt:              &completedAt,
		CostsDecisionOutstanding: true,
	}

	due, ok := ProjectDueDate(workflows.StateComplete, appeal, nil, calendar.HolidaySet{})
	assert.True(t, ok)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2023, time.June, 16, 0, 0, 0, 0, time.UTC), *due)
}

func TestProjectDueDateTerminalStatuses(t *testing.T) {
	appeal := &Appeal{CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)}

	for _, status := range []workflows.State{
		workflows.StateInvalid,
		workflows.StateWithdrawn,
		workflows.StateClosed,
		workflows.StateTransferred,
	} {
		due, ok := ProjectDueDate(status, appeal, nil, calendar.HolidaySet{})
		assert.True(t, ok, "status %s", status)
		assert.Nil(t, due, "status %s", status)
	}
}

func TestProjectDueDateUnknownStatus(t *testing.T) {
	appeal := &Appeal{CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)}

	// Unknown is reported distinctly from "no due date": ok is false.
	due, ok := ProjectDueDate(workflows.State("mystery_status"), appeal, nil, calendar.HolidaySet{})
	assert.False(t, ok)
	assert.Nil(t, due)
}
