package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/dto"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/constant"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/repository"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/clock"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"
)

type reminderService struct {
	interviewRepo repository.InterviewRepository
	resolver      RecipientResolver
	notifier      Notifier
	clk           clock.Clock
	log           logger.Logger
}

// NewReminderService creates a new instance of ReminderService implementation.
func NewReminderService(
	interviewRepo repository.InterviewRepository,
	resolver RecipientResolver,
	notifier Notifier,
	clk clock.Clock,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		interviewRepo: interviewRepo,
		resolver:      resolver,
		notifier:      notifier,
		clk:           clk,
		log:           log,
	}
}

// ProcessDueReminders runs one reminder evaluation cycle. The cycle keeps
// no state of its own: classification re-reads the persisted flags every
// run, so a re-triggered or overlapping cycle only re-attempts interviews
// whose flags were never persisted.
func (s *reminderService) ProcessDueReminders(ctx context.Context) (*dto.ReminderReport, error) {
	now := s.clk.Now()
	report := &dto.ReminderReport{Errors: []string{}, Timestamp: now}

	candidates, err := s.interviewRepo.FindPendingReminders(ctx, now.Format(entity.DateLayout))
	if err != nil {
		s.log.Error("Failed to fetch reminder candidates, aborting cycle", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	due24, due3 := classifyReminderWindows(now, s.clk.Location(), candidates, s.log)
	s.log.Info(fmt.Sprintf("Reminder cycle: %d candidates, %d due for 24h, %d due for 3h", len(candidates), len(due24), len(due3)))
	if len(due24) == 0 && len(due3) == 0 {
		return report, nil
	}

	// The broadcast policy notifies the same population for every
	// interview, so its set is resolved once per cycle.
	var shared *dto.RecipientSet
	if s.resolver.CycleScoped() {
		shared, err = s.resolver.Resolve(ctx, nil)
		if err != nil {
			s.log.Error("Failed to resolve recipient set", err)
			report.Errors = append(report.Errors, fmt.Sprintf("recipient resolution failed: %v", err))
			return report, nil
		}
		// The set's validation failures belong to the cycle, not to any
		// one interview; report them once, not once per dispatch.
		for _, msg := range shared.Invalid {
			report.Errors = append(report.Errors, "recipient set: "+msg)
		}
		shared = &dto.RecipientSet{IDs: shared.IDs}
	}

	batches := []struct {
		kind constant.ReminderKind
		list []*entity.Interview
	}{
		{constant.Reminder24Hour, due24},
		{constant.Reminder3Hour, due3},
	}
	for _, batch := range batches {
		for _, iv := range batch.list {
			set := shared
			if set == nil {
				set, err = s.resolver.Resolve(ctx, iv)
				if err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("interview %d (%s): recipient resolution failed: %v", iv.ID, batch.kind.Label(), err))
					continue
				}
			}

			sent, errs := s.dispatch(ctx, set, formatReminderMessage(iv, batch.kind), iv.ID, batch.kind.Label())
			report.TotalSent += sent
			report.Errors = append(report.Errors, errs...)

			if sent == 0 {
				// Flag stays false; the interview remains a candidate
				// for the next cycle.
				s.log.Warn(fmt.Sprintf("No recipient reached for interview %d (%s reminder), will retry next cycle", iv.ID, batch.kind.Label()))
				continue
			}
			if err := s.interviewRepo.MarkReminderSent(ctx, iv.ID, batch.kind); err != nil {
				// A failed persist after a successful send yields a
				// duplicate reminder next cycle, never a missed one.
				s.log.Error(fmt.Sprintf("Failed to persist %s flag for interview %d", batch.kind.Label(), iv.ID), err)
				report.Errors = append(report.Errors, fmt.Sprintf("interview %d (%s): failed to persist sent flag: %v", iv.ID, batch.kind.Label(), err))
			}
		}
	}

	s.log.Info(fmt.Sprintf("Reminder cycle complete: %d sent, %d errors", report.TotalSent, len(report.Errors)))
	return report, nil
}

// BroadcastSchedule pushes the upcoming-interview list to the resolved
// recipient set. Reminder flags are not touched.
func (s *reminderService) BroadcastSchedule(ctx context.Context) (*dto.ReminderReport, error) {
	now := s.clk.Now()
	report := &dto.ReminderReport{Errors: []string{}, Timestamp: now}

	interviews, err := s.interviewRepo.FindUpcoming(ctx, now.Format(entity.DateLayout))
	if err != nil {
		s.log.Error("Failed to fetch upcoming interviews for broadcast", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	set, err := s.resolver.Resolve(ctx, nil)
	if err != nil {
		s.log.Error("Failed to resolve recipient set for broadcast", err)
		report.Errors = append(report.Errors, fmt.Sprintf("recipient resolution failed: %v", err))
		return report, nil
	}

	sent, errs := s.dispatch(ctx, set, formatScheduleMessage(interviews), 0, "list")
	report.TotalSent += sent
	report.Errors = append(report.Errors, errs...)
	s.log.Info(fmt.Sprintf("Schedule broadcast complete: %d sent, %d errors", report.TotalSent, len(report.Errors)))
	return report, nil
}

// dispatch fans the message out to every recipient concurrently and
// reports the success count plus per-recipient failure strings. Delivery
// attempts are independent; one failure never stops the others.
func (s *reminderService) dispatch(ctx context.Context, set *dto.RecipientSet, text string, interviewID uint, label string) (int, []string) {
	scope := fmt.Sprintf("interview %d (%s)", interviewID, label)
	if interviewID == 0 {
		scope = label
	}

	errs := make([]string, 0, len(set.Invalid))
	for _, msg := range set.Invalid {
		errs = append(errs, fmt.Sprintf("%s: %s", scope, msg))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)
	for _, to := range set.IDs {
		wg.Add(1)
		go func(to entity.RecipientID) {
			defer wg.Done()
			if err := s.notifier.Push(ctx, to, text); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("%s: push to %s failed: %v", scope, to, err))
				mu.Unlock()
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}(to)
	}
	wg.Wait()

	return sent, errs
}

// formatReminderMessage renders the push text for one interview reminder.
func formatReminderMessage(iv *entity.Interview, kind constant.ReminderKind) string {
	lead := "24 小時"
	if kind == constant.Reminder3Hour {
		lead = "3 小時"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⏰ 面試提醒(%s後開始)\n", lead)
	fmt.Fprintf(&b, "日期:%s\n時間:%s\n應試者:%s\n面試官:%s", iv.Date, iv.Time, iv.Interviewee, iv.Interviewer)
	if iv.Reason != "" {
		fmt.Fprintf(&b, "\n事由:%s", iv.Reason)
	}
	return b.String()
}

// formatScheduleMessage renders the full upcoming-interview list.
func formatScheduleMessage(interviews []*entity.Interview) string {
	if len(interviews) == 0 {
		return "📋 目前沒有即將舉行的面試。"
	}

	var b strings.Builder
	b.WriteString("📋 近期面試清單")
	for _, iv := range interviews {
		fmt.Fprintf(&b, "\n#%d %s %s %s/%s", iv.ID, iv.Date, iv.Time, iv.Interviewee, iv.Interviewer)
	}
	return b.String()
}
