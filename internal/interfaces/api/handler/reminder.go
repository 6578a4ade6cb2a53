package handler

import (
	"net/http"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/service"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Trigger modes accepted by the reminder entry point.
const (
	ModeProcessDueReminders = "process-due-reminders"
	ModeBroadcastFullList   = "broadcast-full-list"
)

// ReminderHandler exposes the reminder cycle to the external scheduler.
type ReminderHandler struct {
	reminderService service.ReminderService
	cronSecret      string
	log             logger.Logger
}

// NewReminderHandler creates a new ReminderHandler. reminderService may be
// nil when the messaging channel is unconfigured; the handler then rejects
// every invocation with a configuration failure.
func NewReminderHandler(reminderService service.ReminderService, cronSecret string, log logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		cronSecret:      cronSecret,
		log:             log,
	}
}

// HandleTrigger runs one reminder cycle on behalf of the external
// scheduler. Authorization and configuration failures are rejected with
// distinct statuses before any store access; an empty cycle is a normal
// 200 with a zero-sent report.
func (h *ReminderHandler) HandleTrigger(c echo.Context) error {
	// The key is checked before anything else so an unauthenticated
	// caller learns nothing about the deployment.
	if h.cronSecret != "" && c.QueryParam("key") != h.cronSecret {
		h.log.Warn("Reminder trigger invoked with a bad or missing key")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": appErrors.ErrUnauthorized.Error()})
	}

	if h.reminderService == nil {
		h.log.Warn("Reminder trigger invoked while the service is unconfigured")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": appErrors.ErrNotConfigured.Error()})
	}

	ctx := c.Request().Context()
	mode := c.QueryParam("mode")
	if mode == "" {
		mode = ModeProcessDueReminders
	}

	switch mode {
	case ModeProcessDueReminders:
		report, err := h.reminderService.ProcessDueReminders(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, report)
	case ModeBroadcastFullList:
		report, err := h.reminderService.BroadcastSchedule(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, report)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mode: " + mode})
	}
}
