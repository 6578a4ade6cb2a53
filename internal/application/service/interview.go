package service

import (
	"context"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/dto"
)

// InterviewService defines the interface for interview-related business logic.
type InterviewService interface {
	// CreateInterview validates, sanitizes and persists a new interview.
	// Reminder flags whose window has already passed at creation time are
	// pre-marked so the row never sits in an unsatisfiable unsent state.
	CreateInterview(ctx context.Context, req dto.CreateInterviewRequest) (*dto.InterviewResponse, error)
	// ListInterviews retrieves the owner's interviews ordered by date
	// then time.
	ListInterviews(ctx context.Context, ownerID string) ([]dto.InterviewResponse, error)
	// UpdateInterview applies a partial update restricted to the owner.
	UpdateInterview(ctx context.Context, req dto.UpdateInterviewRequest) (*dto.InterviewResponse, error)
	// DeleteInterview removes an interview restricted to the owner.
	DeleteInterview(ctx context.Context, ownerID string, id uint) error
}
