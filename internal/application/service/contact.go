package service

import (
	"context"
	"fmt"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/repository"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"
)

// ContactService defines the interface for recipient opt-in tracking.
// Subscriptions are mutated only by webhook events (follow/join and
// unfollow/leave); the reminder cycle reads the snapshot through the
// broadcast resolver.
type ContactService interface {
	// Subscribe activates a recipient after a follow or join event.
	Subscribe(ctx context.Context, rawID string) error
	// Unsubscribe deactivates a recipient after an unfollow or leave event.
	Unsubscribe(ctx context.Context, rawID string) error
}

type contactService struct {
	contactRepo repository.ContactRepository
	log         logger.Logger
}

// NewContactService creates a new instance of ContactService implementation.
func NewContactService(contactRepo repository.ContactRepository, log logger.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		log:         log,
	}
}

// Subscribe activates a recipient after a follow or join event.
func (s *contactService) Subscribe(ctx context.Context, rawID string) error {
	id, err := entity.ParseRecipientID(rawID)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Ignoring subscribe for malformed identifier: %v", err))
		return fmt.Errorf("%w: %v", appErrors.ErrInvalidRecipient, err)
	}
	if err := s.contactRepo.Activate(ctx, id); err != nil {
		s.log.Error(fmt.Sprintf("Failed to activate contact %s", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Subscribed %s %s", id.Kind(), id))
	return nil
}

// Unsubscribe deactivates a recipient after an unfollow or leave event.
func (s *contactService) Unsubscribe(ctx context.Context, rawID string) error {
	id, err := entity.ParseRecipientID(rawID)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Ignoring unsubscribe for malformed identifier: %v", err))
		return fmt.Errorf("%w: %v", appErrors.ErrInvalidRecipient, err)
	}
	if err := s.contactRepo.Deactivate(ctx, id); err != nil {
		s.log.Error(fmt.Sprintf("Failed to deactivate contact %s", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Unsubscribed %s %s", id.Kind(), id))
	return nil
}
