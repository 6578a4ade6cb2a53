package router

import (
	"fmt"
	"net/http"

	"github.com/MarkTaylorTsai/line-bot-president/internal/interfaces/api/handler"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	// LineHandler may be nil when the messaging channel is unconfigured;
	// the webhook route is then not registered.
	LineHandler     *handler.LineHandler
	ReminderHandler *handler.ReminderHandler
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Line-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	if cfg.LineHandler != nil {
		// LINE Platform requires POST for webhook
		e.POST("/callback", cfg.LineHandler.HandleWebhook)
	}

	// External scheduler trigger. Some cron services only issue GETs.
	e.GET("/api/reminders/run", cfg.ReminderHandler.HandleTrigger)
	e.POST("/api/reminders/run", cfg.ReminderHandler.HandleTrigger)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
