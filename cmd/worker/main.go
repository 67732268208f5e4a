package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/civictech-tw/casework/config"
	"github.com/civictech-tw/casework/db"
	"github.com/civictech-tw/casework/files"
	"github.com/civictech-tw/casework/logger"
	"github.com/civictech-tw/casework/notify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	zl, err := logger.New(config.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	db.Init()
	files.InitMinio()

	templates, err := notify.LoadTemplates(config.MailTemplateFile)
	if err != nil {
		log.Fatal("Failed to load mail templates:", err)
	}

	mailer := notify.NewSendGridMailer(
		config.SendGridAPIKey,
		config.MailFromName,
		config.MailFromAddress,
		templates,
		zl,
	)
	slack := notify.NewSlackNotifier(config.SlackWebhookURL, config.AdminBaseURL, zl)
	dispatcher := notify.NewDispatcher(notify.NewGateway(mailer, slack), zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodic poke picks up rows whose retries were exhausted earlier. The
	// drain itself always runs inside the dispatcher loop.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(config.DispatchSpec, dispatcher.Poke); err != nil {
		log.Fatal("Failed to schedule dispatcher:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	zl.Info("notification worker started", zap.String("dispatch_spec", config.DispatchSpec))
	dispatcher.Run(ctx)
	zl.Info("notification worker stopped")
}
