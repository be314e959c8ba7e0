package appeals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("appeals: not found")

// Repository is the persistence contract for appeals, their status history
// and timetables. Writes are single-row and atomic; no cross-row transaction
// is assumed.
type Repository interface {
	CreateAppeal(ctx context.Context, appeal *Appeal) error
	GetAppeal(ctx context.Context, id uuid.UUID) (*Appeal, error)
	UpdateAppeal(ctx context.Context, appeal *Appeal) error
	ListChildAppeals(ctx context.Context, parentID uuid.UUID) ([]Appeal, error)

	GetStatusHistory(ctx context.Context, appealID uuid.UUID) ([]AppealStatus, error)
	AppendStatus(ctx context.Context, record *AppealStatus) error

	GetTimetable(ctx context.Context, appealID uuid.UUID) (*AppealTimetable, error)
	CreateTimetable(ctx context.Context, timetable *AppealTimetable) error
	PatchTimetable(ctx context.Context, appealID uuid.UUID, patch TimetablePatch) (*AppealTimetable, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates the gorm-backed repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateAppeal(ctx context.Context, appeal *Appeal) error {
	if err := r.db.WithContext(ctx).Create(appeal).Error; err != nil {
		return fmt.Errorf("create appeal: %w", err)
	}
	return nil
}

func (r *gormRepository) GetAppeal(ctx context.Context, id uuid.UUID) (*Appeal, error) {
	var appeal Appeal
	err := r.db.WithContext(ctx).First(&appeal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("appeal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get appeal: %w", err)
	}
	return &appeal, nil
}

func (r *gormRepository) UpdateAppeal(ctx context.Context, appeal *Appeal) error {
	if err := r.db.WithContext(ctx).Save(appeal).Error; err != nil {
		return fmt.Errorf("update appeal: %w", err)
	}
	return nil
}

func (r *gormRepository) ListChildAppeals(ctx context.Context, parentID uuid.UUID) ([]Appeal, error) {
	var children []Appeal
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&children).Error; err != nil {
		return nil, fmt.Errorf("list child appeals: %w", err)
	}
	return children, nil
}

func (r *gormRepository) GetStatusHistory(ctx context.Context, appealID uuid.UUID) ([]AppealStatus, error) {
	var history []AppealStatus
	if err := r.db.WithContext(ctx).
		Where("appeal_id = ?", appealID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("get status history: %w", err)
	}
	return history, nil
}

func (r *gormRepository) AppendStatus(ctx context.Context, record *AppealStatus) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("append status record: %w", err)
	}
	return nil
}

func (r *gormRepository) GetTimetable(ctx context.Context, appealID uuid.UUID) (*AppealTimetable, error) {
	var timetable AppealTimetable
	err := r.db.WithContext(ctx).First(&timetable, "appeal_id = ?", appealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("timetable for appeal %s: %w", appealID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get timetable: %w", err)
	}
	return &timetable, nil
}

func (r *gormRepository) CreateTimetable(ctx context.Context, timetable *AppealTimetable) error {
	if err := r.db.WithContext(ctx).Create(timetable).Error; err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

func (r *gormRepository) PatchTimetable(ctx context.Context, appealID uuid.UUID, patch TimetablePatch) (*AppealTimetable, error) {
	timetable, err := r.GetTimetable(ctx, appealID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.LPAQuestionnaireDueDate != nil {
		updates["lpa_questionnaire_due_date"] = *patch.LPAQuestionnaireDueDate
	}
	if patch.LPAStatementDueDate != nil {
		updates["lpa_statement_due_date"] = *patch.LPAStatementDueDate
	}
	if patch.IPCommentsDueDate != nil {
		updates["ip_comments_due_date"] = *patch.IPCommentsDueDate
	}
	if patch.FinalCommentsDueDate != nil {
		updates["final_comments_due_date"] = *patch.FinalCommentsDueDate
	}
	if patch.StatementOfCommonGroundDueDate != nil {
		updates["statement_of_common_ground_due_date"] = *patch.StatementOfCommonGroundDueDate
	}
	if patch.PlanningObligationDueDate != nil {
		updates["planning_obligation_due_date"] = *patch.PlanningObligationDueDate
	}
	if patch.ProofOfEvidenceDueDate != nil {
		updates["proof_of_evidence_due_date"] = *patch.ProofOfEvidenceDueDate
	}
	if len(updates) == 0 {
		return timetable, nil
	}

	if err := r.db.WithContext(ctx).
		Model(timetable).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("patch timetable: %w", err)
	}
	return timetable, nil
}
