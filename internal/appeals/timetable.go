package appeals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/internal/holidays"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

// ErrNoTimetableConfig is returned when a case type has no milestone
// configuration. Nothing is persisted on this path.
var ErrNoTimetableConfig = errors.New("appeals: no timetable configuration for case type")

// Deadlines expire at 23:59 London time regardless of the date arithmetic
// that produced them.
const (
	deadlineHour   = 23
	deadlineMinute = 59
)

var londonLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// milestone is one configured deadline: a whole-day offset from the start
// date, restricted to the listed procedures (nil means every procedure).
type milestone struct {
	offsetDays int
	procedures []ProcedureType
	assign     func(*AppealTimetable, time.Time)
}

func (m milestone) appliesTo(procedure ProcedureType) bool {
	if len(m.procedures) == 0 {
		return true
	}
	for _, p := range m.procedures {
		if p == procedure {
			return true
		}
	}
	return false
}

var timetableConfig = map[workflows.CaseType][]milestone{
	workflows.CaseTypeHouseholder: {
		{offsetDays: 5, assign: func(t *AppealTimetable, d time.Time) { t.LPAQuestionnaireDueDate = &d }},
	},
	workflows.CaseTypeFullPlanning: {
		{offsetDays: 5, assign: func(t *AppealTimetable, d time.Time) { t.LPAQuestionnaireDueDate = &d }},
		{offsetDays: 25, assign: func(t *AppealTimetable, d time.Time) { t.LPAStatementDueDate = &d }},
		{offsetDays: 25, assign: func(t *AppealTimetable, d time.Time) { t.IPCommentsDueDate = &d }},
		{offsetDays: 35, assign: func(t *AppealTimetable, d time.Time) { t.FinalCommentsDueDate = &d }},
		{
			offsetDays: 50,
			procedures: []ProcedureType{ProcedureHearing, ProcedureInquiry},
			assign:     func(t *AppealTimetable, d time.Time) { t.StatementOfCommonGroundDueDate = &d },
		},
		{
			offsetDays: 50,
			procedures: []ProcedureType{ProcedureHearing},
			assign:     func(t *AppealTimetable, d time.Time) { t.PlanningObligationDueDate = &d },
		},
		{
			offsetDays: 50,
			procedures: []ProcedureType{ProcedureInquiry},
			assign:     func(t *AppealTimetable, d time.Time) { t.ProofOfEvidenceDueDate = &d },
		},
	},
}

// HolidayProvider supplies the holiday set used for business-day arithmetic.
// *holidays.Source satisfies it.
type HolidayProvider interface {
	Holidays(ctx context.Context, division holidays.Division) (calendar.HolidaySet, error)
}

// Calculator computes appeal timetables and decision deadlines.
type Calculator struct {
	provider HolidayProvider
	division holidays.Division
}

// NewCalculator creates a calculator bound to one calendar division.
func NewCalculator(provider HolidayProvider, division holidays.Division) *Calculator {
	return &Calculator{provider: provider, division: division}
}

// Calculate computes the milestone deadlines for a case started on startDate.
// The start date is first snapped forward to a business day. Each milestone is
// start + offset calendar days, shifted to the next business day, with the
// deadline wall clock applied. Unknown case types fail with
// ErrNoTimetableConfig and produce no timetable.
func (c *Calculator) Calculate(ctx context.Context, caseType workflows.CaseType, startDate time.Time, procedure ProcedureType) (*AppealTimetable, error) {
	if startDate.IsZero() {
		return nil, errors.New("appeals: start date is required")
	}
	milestones, ok := timetableConfig[caseType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTimetableConfig, caseType)
	}

	hols, err := c.provider.Holidays(ctx, c.division)
	if err != nil {
		return nil, fmt.Errorf("timetable calculation: %w", err)
	}

	start := calendar.NextBusinessDay(dateOnly(startDate), hols)

	timetable := &AppealTimetable{}
	for _, m := range milestones {
		if !m.appliesTo(procedure) {
			continue
		}
		due := start.AddDate(0, 0, m.offsetDays)
		due = calendar.NextBusinessDay(due, hols)
		due = atDeadlineTime(due)
		m.assign(timetable, due)
	}
	return timetable, nil
}

// HolidaySet exposes the calculator's holiday set for callers doing their own
// business-day arithmetic.
func (c *Calculator) HolidaySet(ctx context.Context) (calendar.HolidaySet, error) {
	return c.provider.Holidays(ctx, c.division)
}

// StartDate returns the business day a case actually starts on for the given
// nominal date.
func (c *Calculator) StartDate(ctx context.Context, startDate time.Time) (time.Time, error) {
	hols, err := c.provider.Holidays(ctx, c.division)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve start date: %w", err)
	}
	return calendar.NextBusinessDay(dateOnly(startDate), hols), nil
}

// IssueDecisionDeadline computes the decision deadline as an anchor event
// date plus n business days, then compensates once for holidays encountered
// in that first pass. The correction window is deliberately not re-checked
// for holidays of its own; recomputing on the output may differ.
func (c *Calculator) IssueDecisionDeadline(ctx context.Context, eventDate time.Time, n int) (time.Time, error) {
	if eventDate.IsZero() {
		return time.Time{}, errors.New("appeals: event date is required")
	}
	hols, err := c.provider.Holidays(ctx, c.division)
	if err != nil {
		return time.Time{}, fmt.Errorf("issue decision deadline: %w", err)
	}

	anchor := dateOnly(eventDate)
	deadline := calendar.AddBusinessDays(anchor, n, hols)
	extra := calendar.CountHolidaysBetween(anchor, deadline, hols)
	deadline = calendar.AddBusinessDays(deadline, extra, hols)
	return atDeadlineTime(deadline), nil
}

func dateOnly(t time.Time) time.Time {
	in := t.In(londonLocation)
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, londonLocation)
}

func atDeadlineTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), deadlineHour, deadlineMinute, 0, 0, londonLocation)
}
