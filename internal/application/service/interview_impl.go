package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/dto"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/repository"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/clock"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"

	"gorm.io/gorm"
)

const maxNameLength = 100

type interviewService struct {
	interviewRepo repository.InterviewRepository
	clk           clock.Clock
	log           logger.Logger
}

// NewInterviewService creates a new instance of InterviewService implementation.
func NewInterviewService(
	interviewRepo repository.InterviewRepository,
	clk clock.Clock,
	log logger.Logger,
) InterviewService {
	return &interviewService{
		interviewRepo: interviewRepo,
		clk:           clk,
		log:           log,
	}
}

// sanitizeText trims the input and strips control characters.
func sanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// sanitizeName sanitizes a name field and clamps it to maxNameLength
// runes. Free-text fields keep their full length.
func sanitizeName(s string) string {
	s = sanitizeText(s)
	runes := []rune(s)
	if len(runes) > maxNameLength {
		s = string(runes[:maxNameLength])
	}
	return s
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeTime(s string) (string, error) {
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format(entity.TimeLayout), nil
	}
	if t, err := time.Parse(entity.TimeLayout, s); err == nil {
		return t.Format(entity.TimeLayout), nil
	}
	return "", appErrors.ErrInvalidDateTime
}

// normalizeDate validates a YYYY-MM-DD calendar date.
func normalizeDate(s string) (string, error) {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return "", appErrors.ErrInvalidDateTime
	}
	return t.Format(entity.DateLayout), nil
}

// CreateInterview validates, sanitizes and persists a new interview,
// applying the late-creation guard before the insert.
func (s *interviewService) CreateInterview(ctx context.Context, req dto.CreateInterviewRequest) (*dto.InterviewResponse, error) {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}
	t, err := normalizeTime(req.Time)
	if err != nil {
		return nil, err
	}

	interview := &entity.Interview{
		OwnerID:     req.OwnerID,
		Interviewee: sanitizeName(req.Interviewee),
		Interviewer: sanitizeName(req.Interviewer),
		Date:        date,
		Time:        t,
		Reason:      sanitizeText(req.Reason),
	}
	if interview.Interviewee == "" || interview.Interviewer == "" {
		return nil, appErrors.ErrInvalidField
	}

	now := s.clk.Now()
	start, err := interview.StartAt(s.clk.Location())
	if err != nil {
		return nil, appErrors.ErrInvalidDateTime
	}
	if start.Before(now) {
		return nil, appErrors.ErrPastDateTime
	}

	// Late-creation guard: a reminder window that can no longer be
	// satisfied is pre-marked sent, otherwise its flag would sit false
	// forever.
	mark24, mark3 := lateCreationFlags(start.Sub(now).Hours())
	interview.Reminder24hSent = mark24
	interview.Reminder3hSent = mark3

	id, err := s.interviewRepo.Create(ctx, interview)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create interview for owner %s", req.OwnerID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Created interview %d for owner %s (24h pre-marked: %t, 3h pre-marked: %t)", id, req.OwnerID, mark24, mark3))
	resp := dto.ToInterviewResponse(interview)
	return &resp, nil
}

// ListInterviews retrieves the owner's interviews ordered by date then time.
func (s *interviewService) ListInterviews(ctx context.Context, ownerID string) ([]dto.InterviewResponse, error) {
	interviews, err := s.interviewRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list interviews for owner %s", ownerID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return dto.ToInterviewResponseList(interviews), nil
}

// UpdateInterview applies a partial update restricted to the owner.
func (s *interviewService) UpdateInterview(ctx context.Context, req dto.UpdateInterviewRequest) (*dto.InterviewResponse, error) {
	fields := map[string]any{}
	if req.Interviewee != nil {
		v := sanitizeName(*req.Interviewee)
		if v == "" {
			return nil, appErrors.ErrInvalidField
		}
		fields["interviewee"] = v
	}
	if req.Interviewer != nil {
		v := sanitizeName(*req.Interviewer)
		if v == "" {
			return nil, appErrors.ErrInvalidField
		}
		fields["interviewer"] = v
	}
	if req.Date != nil {
		v, err := normalizeDate(*req.Date)
		if err != nil {
			return nil, err
		}
		fields["interview_date"] = v
	}
	if req.Time != nil {
		v, err := normalizeTime(*req.Time)
		if err != nil {
			return nil, err
		}
		fields["interview_time"] = v
	}
	if req.Reason != nil {
		fields["reason"] = sanitizeText(*req.Reason)
	}
	if len(fields) == 0 {
		return nil, appErrors.ErrInvalidField
	}

	// Rescheduling gets the same treatment as creation: past starts are
	// rejected, and a start moved inside a reminder window pre-marks that
	// window. Flags are never cleared when the start moves back out.
	if req.Date != nil || req.Time != nil {
		current, err := s.interviewRepo.FindByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, appErrors.ErrInterviewNotFound
			}
			s.log.Error(fmt.Sprintf("Failed to load interview %d for reschedule", req.ID), err)
			return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		if current.OwnerID != req.OwnerID {
			return nil, appErrors.ErrInterviewNotFound
		}

		next := *current
		if v, ok := fields["interview_date"]; ok {
			next.Date = v.(string)
		}
		if v, ok := fields["interview_time"]; ok {
			next.Time = v.(string)
		}

		now := s.clk.Now()
		start, err := next.StartAt(s.clk.Location())
		if err != nil {
			return nil, appErrors.ErrInvalidDateTime
		}
		if start.Before(now) {
			return nil, appErrors.ErrPastDateTime
		}

		mark24, mark3 := lateCreationFlags(start.Sub(now).Hours())
		if mark24 {
			fields["reminder_24h_sent"] = true
		}
		if mark3 {
			fields["reminder_3h_sent"] = true
		}
	}

	updated, err := s.interviewRepo.UpdateFields(ctx, req.OwnerID, req.ID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrInterviewNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to update interview %d for owner %s", req.ID, req.OwnerID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Updated interview %d for owner %s", req.ID, req.OwnerID))
	resp := dto.ToInterviewResponse(updated)
	return &resp, nil
}

// DeleteInterview removes an interview restricted to the owner.
func (s *interviewService) DeleteInterview(ctx context.Context, ownerID string, id uint) error {
	if err := s.interviewRepo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrInterviewNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to delete interview %d for owner %s", id, ownerID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Deleted interview %d for owner %s", id, ownerID))
	return nil
}
