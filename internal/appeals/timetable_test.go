package appeals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/holidays"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

type stubHolidayProvider struct {
	set calendar.HolidaySet
	err error
}

func (s stubHolidayProvider) Holidays(ctx context.Context, division holidays.Division) (calendar.HolidaySet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.set, nil
}

func newTestCalculator(set calendar.HolidaySet) *Calculator {
	return NewCalculator(stubHolidayProvider{set: set}, holidays.DivisionEnglandAndWales)
}

func london(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	return loc
}

func TestCalculateHouseholderFromMonday(t *testing.T) {
	calc := newTestCalculator(calendar.HolidaySet{})
	monday := time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC)

	timetable, err := calc.Calculate(context.Background(), workflows.CaseTypeHouseholder, monday, ProcedureWritten)
	require.NoError(t, err)
	require.NotNil(t, timetable.LPAQuestionnaireDueDate)

	// Start + 5 calendar days lands on Saturday; shifting to the next
	// business day makes it start + 5 business days.
	expected := time.Date(2023, time.June, 12, 23, 59, 0, 0, london(t))
	assert.True(t, timetable.LPAQuestionnaireDueDate.Equal(expected),
		"got %s, want %s", timetable.LPAQuestionnaireDueDate, expected)

	// Householder appeals have no statement stages.
	assert.Nil(t, timetable.LPAStatementDueDate)
	assert.Nil(t, timetable.IPCommentsDueDate)
	assert.Nil(t, timetable.FinalCommentsDueDate)
}

func TestCalculateSnapsStartToBusinessDay(t *testing.T) {
	calc := newTestCalculator(calendar.HolidaySet{})
	saturday := time.Date(2023, time.June, 3, 0, 0, 0, 0, time.UTC)

	timetable, err := calc.Calculate(context.Background(), workflows.CaseTypeHouseholder, saturday, ProcedureWritten)
	require.NoError(t, err)
	require.NotNil(t, timetable.LPAQuestionnaireDueDate)

	// Saturday start resolves to Monday the 5th, so the questionnaire is
	// due the same day as a Monday start.
	expected := time.Date(2023, time.June, 12, 23, 59, 0, 0, london(t))
	assert.True(t, timetable.LPAQuestionnaireDueDate.Equal(expected))
}

func TestCalculateFullPlanningMilestonesByProcedure(t *testing.T) {
	calc := newTestCalculator(calendar.HolidaySet{})
	start := time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	written, err := calc.Calculate(ctx, workflows.CaseTypeFullPlanning, start, ProcedureWritten)
	require.NoError(t, err)
	assert.NotNil(t, written.LPAQuestionnaireDueDate)
	assert.NotNil(t, written.LPAStatementDueDate)
	assert.NotNil(t, written.IPCommentsDueDate)
	assert.NotNil(t, written.FinalCommentsDueDate)
	assert.Nil(t, written.StatementOfCommonGroundDueDate)
	assert.Nil(t, written.PlanningObligationDueDate)
	assert.Nil(t, written.ProofOfEvidenceDueDate)

	hearing, err := calc.Calculate(ctx, workflows.CaseTypeFullPlanning, start, ProcedureHearing)
	require.NoError(t, err)
	assert.NotNil(t, hearing.StatementOfCommonGroundDueDate)
	assert.NotNil(t, hearing.PlanningObligationDueDate)
	assert.Nil(t, hearing.ProofOfEvidenceDueDate)

	inquiry, err := calc.Calculate(ctx, workflows.CaseTypeFullPlanning, start, ProcedureInquiry)
	require.NoError(t, err)
	assert.NotNil(t, inquiry.StatementOfCommonGroundDueDate)
	assert.NotNil(t, inquiry.ProofOfEvidenceDueDate)
	assert.Nil(t, inquiry.PlanningObligationDueDate)
}

func TestCalculateMilestonesAreBusinessDays(t *testing.T) {
	// Early May bank holiday plus coronation holiday.
	set := calendar.NewHolidaySet(
		time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.May, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.May, 29, 0, 0, 0, 0, time.UTC),
	)
	calc := newTestCalculator(set)
	start := time.Date(2023, time.April, 28, 0, 0, 0, 0, time.UTC)

	timetable, err := calc.Calculate(context.Background(), workflows.CaseTypeFullPlanning, start, ProcedureHearing)
	require.NoError(t, err)

	for name, due := range map[string]*time.Time{
		"lpa_questionnaire":          timetable.LPAQuestionnaireDueDate,
		"lpa_statement":              timetable.LPAStatementDueDate,
		"ip_comments":                timetable.IPCommentsDueDate,
		"final_comments":             timetable.FinalCommentsDueDate,
		"statement_of_common_ground": timetable.StatementOfCommonGroundDueDate,
		"planning_obligation":        timetable.PlanningObligationDueDate,
	} {
		require.NotNil(t, due, name)
		assert.True(t, calendar.IsBusinessDay(*due, set), "%s due date %s is not a business day", name, due)
	}
}

func TestCalculateUnknownCaseType(t *testing.T) {
	calc := newTestCalculator(calendar.HolidaySet{})

	_, err := calc.Calculate(context.Background(), workflows.CaseType("caravan"),
		time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC), ProcedureWritten)
	assert.ErrorIs(t, err, ErrNoTimetableConfig)
}

func TestCalculateRejectsZeroStartDate(t *testing.T) {
	calc := newTestCalculator(calendar.HolidaySet{})

	_, err := calc.Calculate(context.Background(), workflows.CaseTypeHouseholder, time.Time{}, ProcedureWritten)
	assert.Error(t, err)
}

func TestIssueDecisionDeadlineTwoPassCorrection(t *testing.T) {
	set := calendar.NewHolidaySet(
		time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.December, 26, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	)
	calc := newTestCalculator(set)
	eventDate := time.Date(2023, time.December, 18, 0, 0, 0, 0, time.UTC)

	deadline, err := calc.IssueDecisionDeadline(context.Background(), eventDate, 10)
	require.NoError(t, err)

	// First pass: 10 business days from 18 Dec lands on 4 Jan. Three
	// holidays fall inside that window, so the second pass adds three more
	// business days, landing on 9 Jan.
	expected := time.Date(2024, time.January, 9, 23, 59, 0, 0, london(t))
	assert.True(t, deadline.Equal(expected), "got %s, want %s", deadline, expected)
}

func TestIssueDecisionDeadlineDeterministic(t *testing.T) {
	set := calendar.NewHolidaySet(time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC))
	calc := newTestCalculator(set)
	eventDate := time.Date(2023, time.April, 24, 0, 0, 0, 0, time.UTC)

	first, err := calc.IssueDecisionDeadline(context.Background(), eventDate, 7)
	require.NoError(t, err)
	second, err := calc.IssueDecisionDeadline(context.Background(), eventDate, 7)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}
