package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is one audit trail row. Entries are append-only.
type Entry struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppealID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"appeal_id"`
	ActorID   string         `gorm:"not null" json:"actor_id"`
	Message   string         `gorm:"not null" json:"message"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Trail appends audit entries. Callers treat it as fire-and-forget: a failed
// append is logged by the caller, never propagated.
type Trail struct {
	db *gorm.DB
}

// NewTrail creates the gorm-backed audit trail.
func NewTrail(db *gorm.DB) *Trail {
	return &Trail{db: db}
}

// Append records an audit entry for an appeal.
func (t *Trail) Append(ctx context.Context, appealID uuid.UUID, actorID, message string) error {
	return t.AppendWithDetails(ctx, appealID, actorID, message, nil)
}

// AppendWithDetails records an audit entry carrying a structured payload,
// such as the from/to states of a transition.
func (t *Trail) AppendWithDetails(ctx context.Context, appealID uuid.UUID, actorID, message string, details map[string]string) error {
	entry := &Entry{
		AppealID: appealID,
		ActorID:  actorID,
		Message:  message,
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		entry.Details = datatypes.JSON(raw)
	}
	if err := t.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListForAppeal returns the audit entries for an appeal, newest first.
func (t *Trail) ListForAppeal(ctx context.Context, appealID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	if err := t.db.WithContext(ctx).
		Where("appeal_id = ?", appealID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
