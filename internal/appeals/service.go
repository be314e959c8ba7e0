package appeals

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

// ErrAlreadyStarted is returned when a start is requested for an appeal that
// already has a timetable.
var ErrAlreadyStarted = errors.New("appeals: case already started")

// AuditTrail receives transition audit entries. Fire-and-forget.
type AuditTrail interface {
	Append(ctx context.Context, appealID uuid.UUID, actorID, message string) error
}

// BroadcastPublisher emits case-updated integration events. Fire-and-forget.
type BroadcastPublisher interface {
	PublishCaseUpdated(ctx context.Context, appealID uuid.UUID) error
}

// NotificationDispatcher sends templated notifications. Fire-and-forget;
// failures are logged, not retried.
type NotificationDispatcher interface {
	Send(ctx context.Context, templateName, recipient string, personalization map[string]string) error
}

// TransitionResult reports what a transition request did. Applied is false
// for the silent no-op taken when the event has no edge from the current
// state; the caller still sees success.
type TransitionResult struct {
	Applied bool            `json:"applied"`
	From    workflows.State `json:"from"`
	To      workflows.State `json:"to"`
}

// Service orchestrates case lifecycle transitions and timetable changes.
//
// Known gap: nothing guards two concurrent transition requests for the same
// appeal; both can read the same current status and append competing records.
// Current status is then resolved by CreatedAt recency. Whether that should
// become a compare-and-swap is an open question for the service owners.
type Service struct {
	repo       Repository
	registry   *workflows.Registry
	calculator *Calculator
	audit      AuditTrail
	broadcast  BroadcastPublisher
	notify     NotificationDispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the orchestrator.
func NewService(
	repo Repository,
	registry *workflows.Registry,
	calculator *Calculator,
	audit AuditTrail,
	broadcast BroadcastPublisher,
	notify NotificationDispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		registry:   registry,
		calculator: calculator,
		audit:      audit,
		broadcast:  broadcast,
		notify:     notify,
		logger:     logger,
		now:        time.Now,
	}
}

// ApplyTransition validates and applies a status transition.
//
// An event with no edge from the current state is a silent no-op returned as
// success with Applied=false. A matched event appends a new valid status
// record; earlier records keep their historical meaning through CreatedAt
// ordering and are never retro-invalidated. Side effects are fanned out
// concurrently, awaited, and isolated: once the record is appended the
// transition is committed regardless of their outcome.
func (s *Service) ApplyTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	appeal, err := s.repo.GetAppeal(ctx, req.AppealID)
	if err != nil {
		return nil, err
	}

	graph, err := s.registry.Lookup(appeal.CaseType)
	if err != nil {
		return nil, err
	}

	current, err := s.currentState(ctx, appeal, graph)
	if err != nil {
		return nil, err
	}

	target, ok := graph.Next(current, req.Event)
	if !ok {
		return &TransitionResult{Applied: false, From: current, To: current}, nil
	}

	record := &AppealStatus{
		AppealID:  appeal.ID,
		Status:    target,
		Valid:     true,
		CreatedAt: s.now(),
	}
	if err := s.repo.AppendStatus(ctx, record); err != nil {
		return nil, err
	}

	if target == workflows.StateComplete {
		completedAt := s.now()
		appeal.CompletedAt = &completedAt
		if err := s.repo.UpdateAppeal(ctx, appeal); err != nil {
			s.logger.Warn("failed to stamp completion date",
				zap.String("appeal_id", appeal.ID.String()),
				zap.Error(err))
		}
	}

	s.fanOutSideEffects(ctx, appeal, req.ActorID, current, target)
	s.cascadeToChildren(ctx, appeal, req)

	return &TransitionResult{Applied: true, From: current, To: target}, nil
}

// currentState resolves the active state from the status history, defaulting
// to the graph's entry stage for an appeal with no valid record yet.
func (s *Service) currentState(ctx context.Context, appeal *Appeal, graph *workflows.StateGraph) (workflows.State, error) {
	history, err := s.repo.GetStatusHistory(ctx, appeal.ID)
	if err != nil {
		return "", err
	}
	if current, ok := CurrentStatus(history); ok {
		return current.Status, nil
	}
	return graph.Initial, nil
}

// fanOutSideEffects runs the best-effort side effects as an unordered group,
// waiting for all of them. An individual failure is logged and never fails
// or cancels the others.
func (s *Service) fanOutSideEffects(ctx context.Context, appeal *Appeal, actorID string, from, to workflows.State) {
	var wg sync.WaitGroup

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.Error("transition side effect failed",
					zap.String("side_effect", name),
					zap.String("appeal_id", appeal.ID.String()),
					zap.Error(err))
			}
		}()
	}

	run("audit", func() error {
		message := fmt.Sprintf("status changed from %s to %s", from, to)
		return s.audit.Append(ctx, appeal.ID, actorID, message)
	})
	run("broadcast", func() error {
		return s.broadcast.PublishCaseUpdated(ctx, appeal.ID)
	})
	if !appeal.IsLinkedChild() {
		run("notify", func() error {
			return s.notify.Send(ctx, "status-changed", appeal.AppellantEmail, map[string]string{
				"reference": appeal.Reference,
				"status":    string(to),
			})
		})
	}

	wg.Wait()
}

// cascadeToChildren replays the transition on each linked child case. The
// child's own graph decides whether the derived event applies; failures are
// logged and do not affect the lead case's committed transition.
func (s *Service) cascadeToChildren(ctx context.Context, appeal *Appeal, req TransitionRequest) {
	children, err := s.repo.ListChildAppeals(ctx, appeal.ID)
	if err != nil {
		s.logger.Error("failed to list child appeals for cascade",
			zap.String("appeal_id", appeal.ID.String()),
			zap.Error(err))
		return
	}

	for _, child := range children {
		childReq := TransitionRequest{
			AppealID:   child.ID,
			ActorID:    req.ActorID,
			Event:      req.Event,
			OccurredAt: req.OccurredAt,
		}
		if _, err := s.ApplyTransition(ctx, childReq); err != nil {
			s.logger.Error("cascade transition failed",
				zap.String("appeal_id", appeal.ID.String()),
				zap.String("child_id", child.ID.String()),
				zap.Error(err))
		}
	}
}

// StartCase starts an appeal: calculates its timetable from the start date,
// persists it, stamps the resolved start date and applies the start
// transition. A calculator failure persists nothing.
func (s *Service) StartCase(ctx context.Context, appealID uuid.UUID, startDate time.Time, actorID string) (*AppealTimetable, *TransitionResult, error) {
	appeal, err := s.repo.GetAppeal(ctx, appealID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.repo.GetTimetable(ctx, appealID); err == nil {
		return nil, nil, fmt.Errorf("appeal %s: %w", appealID, ErrAlreadyStarted)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	timetable, err := s.calculator.Calculate(ctx, appeal.CaseType, startDate, appeal.ProcedureType)
	if err != nil {
		return nil, nil, err
	}
	resolvedStart, err := s.calculator.StartDate(ctx, startDate)
	if err != nil {
		return nil, nil, err
	}

	timetable.AppealID = appeal.ID
	if err := s.repo.CreateTimetable(ctx, timetable); err != nil {
		return nil, nil, err
	}

	appeal.StartedAt = &resolvedStart
	if err := s.repo.UpdateAppeal(ctx, appeal); err != nil {
		return nil, nil, err
	}

	result, err := s.ApplyTransition(ctx, TransitionRequest{
		AppealID:   appeal.ID,
		ActorID:    actorID,
		Event:      workflows.EventValid,
		OccurredAt: s.now(),
	})
	if err != nil {
		return nil, nil, err
	}

	if !appeal.IsLinkedChild() {
		personalization := map[string]string{
			"reference":  appeal.Reference,
			"start_date": resolvedStart.Format("2 January 2006"),
		}
		if timetable.LPAQuestionnaireDueDate != nil {
			personalization["questionnaire_due"] = timetable.LPAQuestionnaireDueDate.Format("2 January 2006")
		}
		if err := s.notify.Send(ctx, "case-started", appeal.AppellantEmail, personalization); err != nil {
			s.logger.Error("case-started notification failed",
				zap.String("appeal_id", appeal.ID.String()),
				zap.Error(err))
		}
	}

	return timetable, result, nil
}

// PatchTimetable applies a field-by-field timetable update. Every populated
// date is normalized onto a business day with the deadline wall clock before
// it is stored, so hand-entered dates land on business days too.
func (s *Service) PatchTimetable(ctx context.Context, appealID uuid.UUID, patch TimetablePatch, actorID string) (*AppealTimetable, error) {
	appeal, err := s.repo.GetAppeal(ctx, appealID)
	if err != nil {
		return nil, err
	}

	hols, err := s.calculator.HolidaySet(ctx)
	if err != nil {
		return nil, err
	}
	normalizePatch(&patch, hols)

	timetable, err := s.repo.PatchTimetable(ctx, appealID, patch)
	if err != nil {
		return nil, err
	}

	s.fanOutTimetableSideEffects(ctx, appeal, actorID)
	return timetable, nil
}

func (s *Service) fanOutTimetableSideEffects(ctx context.Context, appeal *Appeal, actorID string) {
	var wg sync.WaitGroup

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.Error("timetable side effect failed",
					zap.String("side_effect", name),
					zap.String("appeal_id", appeal.ID.String()),
					zap.Error(err))
			}
		}()
	}

	run("audit", func() error {
		return s.audit.Append(ctx, appeal.ID, actorID, "timetable updated")
	})
	run("broadcast", func() error {
		return s.broadcast.PublishCaseUpdated(ctx, appeal.ID)
	})
	if !appeal.IsLinkedChild() {
		run("notify", func() error {
			return s.notify.Send(ctx, "timetable-updated", appeal.AppellantEmail, map[string]string{
				"reference": appeal.Reference,
			})
		})
	}

	wg.Wait()
}

// CalculateTimetable computes a timetable preview without persisting it.
func (s *Service) CalculateTimetable(ctx context.Context, appealID uuid.UUID, startDate time.Time, procedure ProcedureType) (*AppealTimetable, error) {
	appeal, err := s.repo.GetAppeal(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if procedure == "" {
		procedure = appeal.ProcedureType
	}
	return s.calculator.Calculate(ctx, appeal.CaseType, startDate, procedure)
}

// ProjectedDueDate derives the display due date for an appeal's current
// status. The second return mirrors the projector's unknown-status signal.
func (s *Service) ProjectedDueDate(ctx context.Context, appealID uuid.UUID) (*time.Time, bool, error) {
	appeal, err := s.repo.GetAppeal(ctx, appealID)
	if err != nil {
		return nil, false, err
	}
	graph, err := s.registry.Lookup(appeal.CaseType)
	if err != nil {
		return nil, false, err
	}
	current, err := s.currentState(ctx, appeal, graph)
	if err != nil {
		return nil, false, err
	}

	timetable, err := s.repo.GetTimetable(ctx, appealID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	hols, err := s.calculator.HolidaySet(ctx)
	if err != nil {
		return nil, false, err
	}

	due, ok := ProjectDueDate(current, appeal, timetable, hols)
	return due, ok, nil
}

// StatusHistory returns the recorded history plus the derived current state.
func (s *Service) StatusHistory(ctx context.Context, appealID uuid.UUID) ([]AppealStatus, workflows.State, error) {
	appeal, err := s.repo.GetAppeal(ctx, appealID)
	if err != nil {
		return nil, "", err
	}
	graph, err := s.registry.Lookup(appeal.CaseType)
	if err != nil {
		return nil, "", err
	}
	history, err := s.repo.GetStatusHistory(ctx, appealID)
	if err != nil {
		return nil, "", err
	}
	if current, ok := CurrentStatus(history); ok {
		return history, current.Status, nil
	}
	return history, graph.Initial, nil
}

func normalizePatch(patch *TimetablePatch, hols calendar.HolidaySet) {
	for _, field := range []**time.Time{
		&patch.LPAQuestionnaireDueDate,
		&patch.LPAStatementDueDate,
		&patch.IPCommentsDueDate,
		&patch.FinalCommentsDueDate,
		&patch.StatementOfCommonGroundDueDate,
		&patch.PlanningObligationDueDate,
		&patch.ProofOfEvidenceDueDate,
	} {
		if *field == nil {
			continue
		}
		normalized := atDeadlineTime(calendar.NextBusinessDay(dateOnly(**field), hols))
		*field = &normalized
	}
}
