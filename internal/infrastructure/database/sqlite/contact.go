package sqlite

import (
	"context"
	"fmt"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

// Activate upserts a contact and marks it active.
func (r *contactRepository) Activate(ctx context.Context, id entity.RecipientID) error {
	contact := &entity.Contact{
		ID:     id.String(),
		Kind:   id.Kind().Int(),
		Active: true,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "line_id"}},
			DoUpdates: clause.Assignments(map[string]any{"active": true}),
		}).
		Create(contact).Error
	if err != nil {
		return fmt.Errorf("failed to activate contact %s: %w", id, err)
	}
	return nil
}

// Deactivate marks a contact inactive. Missing rows are ignored.
func (r *contactRepository) Deactivate(ctx context.Context, id entity.RecipientID) error {
	err := r.db.WithContext(ctx).
		Model(&entity.Contact{}).
		Where("line_id = ?", id.String()).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate contact %s: %w", id, err)
	}
	return nil
}

// ListActiveIDs returns the raw identifiers of all active contacts of the given kind.
func (r *contactRepository) ListActiveIDs(ctx context.Context, kind entity.RecipientKind) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.Contact{}).
		Where("kind = ? AND active = ?", kind.Int(), true).
		Pluck("line_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active %s contacts: %w", kind, err)
	}
	return ids, nil
}
