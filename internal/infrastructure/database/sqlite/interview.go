package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/constant"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/repository"

	"gorm.io/gorm"
)

type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new instance of InterviewRepository.
func NewInterviewRepository(db *gorm.DB) repository.InterviewRepository {
	return &interviewRepository{db: db}
}

// Create inserts a new interview. Returns the ID of the created row.
func (r *interviewRepository) Create(ctx context.Context, interview *entity.Interview) (uint, error) {
	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		return 0, fmt.Errorf("failed to create interview for owner %s: %w", interview.OwnerID, err)
	}
	return interview.ID, nil
}

// FindByID retrieves an interview by its ID.
func (r *interviewRepository) FindByID(ctx context.Context, id uint) (*entity.Interview, error) {
	var interview entity.Interview
	if err := r.db.WithContext(ctx).First(&interview, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find interview %d: %w", id, err)
	}
	return &interview, nil
}

// FindByOwner retrieves all interviews created by ownerID, ordered by date then time.
func (r *interviewRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Interview, error) {
	var interviews []*entity.Interview
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("interview_date asc, interview_time asc").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interviews for owner %s: %w", ownerID, err)
	}
	return interviews, nil
}

// FindUpcoming retrieves all interviews dated fromDate or later.
func (r *interviewRepository) FindUpcoming(ctx context.Context, fromDate string) ([]*entity.Interview, error) {
	var interviews []*entity.Interview
	err := r.db.WithContext(ctx).
		Where("interview_date >= ?", fromDate).
		Order("interview_date asc, interview_time asc").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming interviews from %s: %w", fromDate, err)
	}
	return interviews, nil
}

// FindPendingReminders retrieves interviews with at least one unsent
// reminder flag and date >= fromDate.
func (r *interviewRepository) FindPendingReminders(ctx context.Context, fromDate string) ([]*entity.Interview, error) {
	var interviews []*entity.Interview
	err := r.db.WithContext(ctx).
		Where("interview_date >= ? AND (reminder_24h_sent = ? OR reminder_3h_sent = ?)", fromDate, false, false).
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending reminder interviews from %s: %w", fromDate, err)
	}
	return interviews, nil
}

// UpdateFields applies a partial update to an interview owned by ownerID.
func (r *interviewRepository) UpdateFields(ctx context.Context, ownerID string, id uint, fields map[string]any) (*entity.Interview, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Interview{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update interview %d for owner %s: %w", id, ownerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("interview %d not found for owner %s: %w", id, ownerID, gorm.ErrRecordNotFound)
	}
	return r.FindByID(ctx, id)
}

// MarkReminderSent durably sets the flag for one reminder kind on one
// interview. The write touches a single column of a single row, so
// repeated or concurrent marks are harmless.
func (r *interviewRepository) MarkReminderSent(ctx context.Context, id uint, kind constant.ReminderKind) error {
	column := "reminder_24h_sent"
	if kind == constant.Reminder3Hour {
		column = "reminder_3h_sent"
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Interview{}).
		Where("id = ?", id).
		Update(column, true).Error
	if err != nil {
		return fmt.Errorf("failed to mark %s reminder sent for interview %d: %w", kind.Label(), id, err)
	}
	return nil
}

// Delete removes an interview owned by ownerID.
func (r *interviewRepository) Delete(ctx context.Context, ownerID string, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&entity.Interview{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete interview %d for owner %s: %w", id, ownerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview %d not found for owner %s: %w", id, ownerID, gorm.ErrRecordNotFound)
	}
	return nil
}
