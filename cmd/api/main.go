package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "github.com/MarkTaylorTsai/line-bot-president/internal/application/service"

	// Infrastructure Layer
	"github.com/MarkTaylorTsai/line-bot-president/internal/infrastructure/database/sqlite"
	lineClient "github.com/MarkTaylorTsai/line-bot-president/internal/infrastructure/line"
	"github.com/MarkTaylorTsai/line-bot-president/internal/infrastructure/scheduler"

	// Interfaces Layer
	"github.com/MarkTaylorTsai/line-bot-president/internal/interfaces/api/handler"
	"github.com/MarkTaylorTsai/line-bot-president/internal/interfaces/api/router"

	// Packages
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/clock"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/config"
	appLogger "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, sched *scheduler.Scheduler, db *gorm.DB, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	log.Println("Stopping scheduler...")
	sched.Stop()
	log.Println("Scheduler stopped.")

	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(db); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	// --- Initialization ---
	appLog := appLogger.New()
	appLog.Info("Logger initialized.")

	cfg, err := config.Load()
	if err != nil {
		appLog.Error("Failed to load configuration", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("Failed to resolve organizational timezone", err)
		os.Exit(1)
	}
	orgClock := clock.New(loc)

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Error("Failed to initialize database", err)
		os.Exit(1)
	}
	interviewRepo := sqlite.NewInterviewRepository(db)
	contactRepo := sqlite.NewContactRepository(db)
	appLog.Info("Database and repositories initialized.")

	cronScheduler := scheduler.NewScheduler(appLog)

	// The messaging channel is optional at startup: without credentials
	// the bot serves only the health check and a trigger endpoint that
	// reports a configuration failure.
	var reminderSvc appService.ReminderService
	var lineHandler *handler.LineHandler
	line, err := lineClient.NewClient(cfg.ChannelSecret, cfg.ChannelAccessToken, appLog)
	if err != nil {
		appLog.Warn(fmt.Sprintf("LINE channel unconfigured, reminder delivery disabled: %v", err))
	} else {
		appLog.Info("Successfully created LINE Bot client.")

		// --- Application Services ---
		var resolver appService.RecipientResolver
		if cfg.RecipientTracking {
			resolver = appService.NewBroadcastResolver(contactRepo, cfg.FallbackRecipients, appLog)
			appLog.Info("Using broadcast recipient policy.")
		} else {
			resolver = appService.NewLegacyResolver(cfg.LegacyGroupID, cfg.PresidentID)
			appLog.Info("Recipient tracking disabled, using legacy targeted policy.")
		}
		notifier := appService.NewLineNotifier(line)
		reminderSvc = appService.NewReminderService(interviewRepo, resolver, notifier, orgClock, appLog)
		interviewSvc := appService.NewInterviewService(interviewRepo, orgClock, appLog)
		contactSvc := appService.NewContactService(contactRepo, appLog)
		appLog.Info("Application services initialized.")

		lineHandler = handler.NewLineHandler(line, interviewSvc, contactSvc, appLog)

		// --- Internal Cadence ---
		// Runs the due-reminder cycle on the configured spec; the HTTP
		// trigger can invoke the same cycle at any time, the flag-based
		// idempotence makes overlapping invocations safe.
		if _, err := cronScheduler.AddJob(cfg.ReminderCronSpec, func() {
			report, err := reminderSvc.ProcessDueReminders(context.Background())
			if err != nil {
				appLog.Error("Scheduled reminder cycle failed", err)
				return
			}
			appLog.Info(fmt.Sprintf("Scheduled reminder cycle: sent=%d errors=%d", report.TotalSent, len(report.Errors)))
		}); err != nil {
			appLog.Error("Failed to register reminder cadence", err)
			os.Exit(1)
		}
	}

	// --- API Handlers & Router ---
	reminderHandler := handler.NewReminderHandler(reminderSvc, cfg.CronSecret, appLog)
	echoRouter := router.NewRouter(&router.Config{
		LineHandler:     lineHandler,
		ReminderHandler: reminderHandler,
		Logger:          appLog,
	})

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, cronScheduler, db, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
