package appeals

import (
	"time"

	"github.com/google/uuid"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/workflows"
)

// ProcedureType is the hearing format for an appeal. It filters which
// timetable milestones apply.
type ProcedureType string

const (
	ProcedureWritten ProcedureType = "written"
	ProcedureHearing ProcedureType = "hearing"
	ProcedureInquiry ProcedureType = "inquiry"
)

// Appeal is a single planning appeal case.
type Appeal struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Reference     string                 `gorm:"not null;uniqueIndex" json:"reference"`
	CaseType      workflows.CaseType     `gorm:"not null" json:"case_type"`
	ProcedureType ProcedureType          `gorm:"not null;default:'written'" json:"procedure_type"`

	AppellantEmail string `json:"appellant_email"`
	LPAEmail       string `json:"lpa_email"`

	// ParentID links a child appeal to its lead case. Children follow the
	// lead case's transitions and are suppressed from notifications.
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	// CostsDecisionOutstanding marks a completed appeal that still owes a
	// costs decision.
	CostsDecisionOutstanding bool `gorm:"not null;default:false" json:"costs_decision_outstanding"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsLinkedChild reports whether the appeal is a child of a lead case.
func (a *Appeal) IsLinkedChild() bool {
	return a.ParentID != nil
}

// AppealStatus is one entry in an appeal's append-only status history. At
// most one row per appeal carries Valid=true; that row is the current status.
// Rows are never mutated or deleted after creation.
type AppealStatus struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppealID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"appeal_id"`
	Status        workflows.State `gorm:"not null" json:"status"`
	Valid         bool            `gorm:"not null;default:false" json:"valid"`
	SubStateMachine *string       `json:"sub_state_machine,omitempty"`
	CompoundState   *string       `json:"compound_state,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	Appeal        Appeal          `gorm:"foreignKey:AppealID" json:"-"`
}

// AppealTimetable holds the milestone deadlines for one appeal. Created on
// the first successful start transition, then patched field by field. Every
// populated date is a business day with the deadline wall clock applied.
type AppealTimetable struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppealID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"appeal_id"`

	LPAQuestionnaireDueDate        *time.Time `json:"lpa_questionnaire_due_date,omitempty"`
	LPAStatementDueDate            *time.Time `json:"lpa_statement_due_date,omitempty"`
	IPCommentsDueDate              *time.Time `json:"ip_comments_due_date,omitempty"`
	FinalCommentsDueDate           *time.Time `json:"final_comments_due_date,omitempty"`
	StatementOfCommonGroundDueDate *time.Time `json:"statement_of_common_ground_due_date,omitempty"`
	PlanningObligationDueDate      *time.Time `json:"planning_obligation_due_date,omitempty"`
	ProofOfEvidenceDueDate         *time.Time `json:"proof_of_evidence_due_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Appeal    Appeal    `gorm:"foreignKey:AppealID" json:"-"`
}

// TimetablePatch carries field-by-field timetable updates. Nil fields are
// left untouched.
type TimetablePatch struct {
	LPAQuestionnaireDueDate        *time.Time `json:"lpa_questionnaire_due_date,omitempty"`
	LPAStatementDueDate            *time.Time `json:"lpa_statement_due_date,omitempty"`
	IPCommentsDueDate              *time.Time `json:"ip_comments_due_date,omitempty"`
	FinalCommentsDueDate           *time.Time `json:"final_comments_due_date,omitempty"`
	StatementOfCommonGroundDueDate *time.Time `json:"statement_of_common_ground_due_date,omitempty"`
	PlanningObligationDueDate      *time.Time `json:"planning_obligation_due_date,omitempty"`
	ProofOfEvidenceDueDate         *time.Time `json:"proof_of_evidence_due_date,omitempty"`
}

// TransitionRequest is the orchestrator input. Only its effect, the appended
// AppealStatus row, is persisted.
type TransitionRequest struct {
	AppealID   uuid.UUID       `json:"appeal_id"`
	ActorID    string          `json:"actor_id"`
	Event      workflows.Event `json:"event"`
	OccurredAt time.Time       `json:"occurred_at"`
}
