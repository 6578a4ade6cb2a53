package service

import (
	"context"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/dto"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
)

// Notifier delivers one message to one validated recipient. One attempt
// per call, no internal retry; the next reminder cycle retries naturally
// because flags are only persisted after at least one success.
type Notifier interface {
	Push(ctx context.Context, to entity.RecipientID, text string) error
}

// RecipientResolver computes the recipient population for an interview's
// reminder. The broadcast and legacy-targeted policies are alternative
// implementations of this interface.
type RecipientResolver interface {
	// Resolve returns the recipient set for the given interview. A
	// cycle-scoped resolver ignores the interview and may be called with
	// nil.
	Resolve(ctx context.Context, interview *entity.Interview) (*dto.RecipientSet, error)
	// CycleScoped reports whether the set is interview-independent, in
	// which case the orchestrator resolves it once per cycle.
	CycleScoped() bool
}

// ReminderService defines the interface for the reminder processing cycle.
type ReminderService interface {
	// ProcessDueReminders runs one evaluation cycle: fetch candidates,
	// classify them into the 24h/3h windows, fan out notifications, and
	// persist flags for interviews with at least one successful delivery.
	// The returned report carries per-recipient failures as data; the
	// error is non-nil only when the candidate fetch itself fails.
	ProcessDueReminders(ctx context.Context) (*dto.ReminderReport, error)
	// BroadcastSchedule pushes the formatted upcoming-interview list to
	// the resolved recipient set without touching reminder flags.
	BroadcastSchedule(ctx context.Context) (*dto.ReminderReport, error)
}
