package service

import (
	"fmt"
	"time"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/constant"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"
)

// classifyReminderWindows splits the candidate interviews into the two due
// lists. An interview is due for a kind iff its flag for that kind is
// still false and the fractional hours until its start lie inside the
// closed window for that kind. The same interview may appear in both
// lists in one pass; both are then processed independently.
//
// Interviews already in the past with unsent flags are never classified:
// a reminder for a past interview has no value, so there is no backlog
// delivery. Interviews whose stored date/time fail to parse are skipped
// and logged.
func classifyReminderWindows(now time.Time, loc *time.Location, interviews []*entity.Interview, log logger.Logger) (due24, due3 []*entity.Interview) {
	for _, iv := range interviews {
		start, err := iv.StartAt(loc)
		if err != nil {
			log.Warn(fmt.Sprintf("Skipping interview %d with unparseable datetime: %v", iv.ID, err))
			continue
		}

		hours := start.Sub(now).Hours()
		if !iv.Reminder24hSent && hours >= constant.Window24LowerHours && hours <= constant.Window24UpperHours {
			due24 = append(due24, iv)
		}
		if !iv.Reminder3hSent && hours >= constant.Window3LowerHours && hours <= constant.Window3UpperHours {
			due3 = append(due3, iv)
		}
	}
	return due24, due3
}

// lateCreationFlags decides which reminder flags to pre-mark for an
// interview created hoursUntil hours before its start. An interview
// created inside or past a window's reach would otherwise sit with a
// false flag forever, indistinguishable from a missed send.
func lateCreationFlags(hoursUntil float64) (mark24, mark3 bool) {
	if hoursUntil < constant.Suppress24HourBelow {
		mark24 = true
	}
	if hoursUntil < constant.Suppress3HourBelow {
		mark3 = true
	}
	return mark24, mark3
}
