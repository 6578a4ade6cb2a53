package service

import (
	"context"
	"fmt"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/dto"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/repository"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"
)

// recipientSetBuilder accumulates raw identifiers, validating and
// deduplicating them. Malformed identifiers are collected as validation
// error strings instead of being passed along.
type recipientSetBuilder struct {
	seen    map[string]struct{}
	ids     []entity.RecipientID
	invalid []string
}

func newRecipientSetBuilder() *recipientSetBuilder {
	return &recipientSetBuilder{seen: make(map[string]struct{})}
}

func (b *recipientSetBuilder) add(raw string) {
	if raw == "" {
		return
	}
	if _, ok := b.seen[raw]; ok {
		return
	}
	b.seen[raw] = struct{}{}

	id, err := entity.ParseRecipientID(raw)
	if err != nil {
		b.invalid = append(b.invalid, fmt.Sprintf("%s: %v", appErrors.ErrInvalidRecipient, err))
		return
	}
	b.ids = append(b.ids, id)
}

func (b *recipientSetBuilder) build() *dto.RecipientSet {
	return &dto.RecipientSet{IDs: b.ids, Invalid: b.invalid}
}

type broadcastResolver struct {
	contactRepo repository.ContactRepository
	fallbacks   []string
	log         logger.Logger
}

// NewBroadcastResolver creates the broadcast recipient policy: every
// active tracked user, every active tracked group, plus the statically
// configured fallback identifiers, deduplicated. The set is independent
// of the interview, so it is cycle-scoped.
func NewBroadcastResolver(contactRepo repository.ContactRepository, fallbacks []string, log logger.Logger) RecipientResolver {
	return &broadcastResolver{
		contactRepo: contactRepo,
		fallbacks:   fallbacks,
		log:         log,
	}
}

func (r *broadcastResolver) CycleScoped() bool {
	return true
}

func (r *broadcastResolver) Resolve(ctx context.Context, _ *entity.Interview) (*dto.RecipientSet, error) {
	users, err := r.contactRepo.ListActiveIDs(ctx, entity.RecipientUser)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	groups, err := r.contactRepo.ListActiveIDs(ctx, entity.RecipientGroup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	b := newRecipientSetBuilder()
	for _, raw := range users {
		b.add(raw)
	}
	for _, raw := range groups {
		b.add(raw)
	}
	for _, raw := range r.fallbacks {
		b.add(raw)
	}

	set := b.build()
	r.log.Debug(fmt.Sprintf("Resolved broadcast recipient set: %d valid, %d invalid", len(set.IDs), len(set.Invalid)))
	return set, nil
}

type legacyResolver struct {
	groupID     string
	presidentID string
}

// NewLegacyResolver creates the legacy targeted recipient policy: the
// interview's creator (when it is a valid user identifier), one fixed
// group, and the president's identifier, deduplicated. It exists for
// deployments without dynamic recipient tracking.
func NewLegacyResolver(groupID, presidentID string) RecipientResolver {
	return &legacyResolver{
		groupID:     groupID,
		presidentID: presidentID,
	}
}

func (r *legacyResolver) CycleScoped() bool {
	return false
}

func (r *legacyResolver) Resolve(_ context.Context, interview *entity.Interview) (*dto.RecipientSet, error) {
	b := newRecipientSetBuilder()
	if interview != nil {
		b.add(interview.OwnerID)
	}
	b.add(r.groupID)
	b.add(r.presidentID)
	return b.build(), nil
}
