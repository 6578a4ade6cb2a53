package repository

import (
	"context"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/constant"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
)

// InterviewRepository defines the interface for interview data operations.
type InterviewRepository interface {
	// Create inserts a new interview. Returns the ID of the created row.
	Create(ctx context.Context, interview *entity.Interview) (uint, error)
	// FindByID retrieves an interview by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Interview, error)
	// FindByOwner retrieves all interviews created by ownerID, ordered by
	// date then time.
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.Interview, error)
	// FindUpcoming retrieves all interviews dated fromDate (YYYY-MM-DD)
	// or later, ordered by date then time.
	FindUpcoming(ctx context.Context, fromDate string) ([]*entity.Interview, error)
	// FindPendingReminders retrieves interviews with at least one unsent
	// reminder flag and date >= fromDate.
	FindPendingReminders(ctx context.Context, fromDate string) ([]*entity.Interview, error)
	// UpdateFields applies a partial update to an interview owned by
	// ownerID. Returns the updated row, or not-found when the row does
	// not exist or belongs to someone else.
	UpdateFields(ctx context.Context, ownerID string, id uint, fields map[string]any) (*entity.Interview, error)
	// MarkReminderSent durably sets the flag for one reminder kind on one
	// interview. Setting an already-true flag is a no-op; flags are never
	// cleared.
	MarkReminderSent(ctx context.Context, id uint, kind constant.ReminderKind) error
	// Delete removes an interview owned by ownerID. Returns not-found
	// when the row does not exist or belongs to someone else.
	Delete(ctx context.Context, ownerID string, id uint) error
}
