package repository

import (
	"context"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
)

// ContactRepository defines the interface for recipient tracking.
type ContactRepository interface {
	// Activate upserts a contact and marks it active.
	Activate(ctx context.Context, id entity.RecipientID) error
	// Deactivate marks a contact inactive. Missing rows are ignored.
	Deactivate(ctx context.Context, id entity.RecipientID) error
	// ListActiveIDs returns the raw identifiers of all active contacts of
	// the given kind.
	ListActiveIDs(ctx context.Context, kind entity.RecipientKind) ([]string, error)
}
