package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinichq/reminder-engine/internal/config"
	schedulerhandler "github.com/clinichq/reminder-engine/internal/handler/scheduler"
	"github.com/clinichq/reminder-engine/internal/job"
	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/notify"
	"github.com/clinichq/reminder-engine/internal/notify/channel"
	"github.com/clinichq/reminder-engine/internal/notify/template"
	"github.com/clinichq/reminder-engine/internal/repository/postgres"
	"github.com/clinichq/reminder-engine/internal/router"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/messaging"
	"github.com/clinichq/reminder-engine/pkg/messaging/redis"
	"github.com/clinichq/reminder-engine/pkg/metrics"
	"github.com/clinichq/reminder-engine/pkg/scheduler"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal(err, "failed to load environment")
	}

	db, err := postgres.NewDB(env.DatabaseURL)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	var broker messaging.Broker
	broker, err = redis.NewRedisBroker(redis.Config{
		URL:          env.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.ZL)
	if err != nil {
		// Push delivery degrades gracefully; email and SMS still work.
		log.Error(err, "redis unavailable, push channel disabled")
		broker = nil
	} else {
		defer broker.Close()
	}

	if broker != nil {
		feedCtx, stopFeed := context.WithCancel(context.Background())
		defer stopFeed()
		err := channel.ConsumeInApp(feedCtx, broker, func(ev channel.InAppEvent) {
			log.Debug("in-app notification delivered",
				"event_id", ev.ID, "recipient_id", ev.RecipientID)
		}, log)
		if err != nil {
			log.Error(err, "failed to subscribe to in-app feed")
		}
	}

	m := metrics.NewMetrics("reminder_engine")

	noteRepo := postgres.NewClinicalNoteRepository(db)
	reminderRepo := postgres.NewAppointmentReminderRepository(db)
	planRepo := postgres.NewTreatmentPlanRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	trackingRepo := postgres.NewTrackingRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	scheduledRepo := postgres.NewScheduledNotificationRepository(db)

	adapters := []channel.Adapter{
		channel.NewEmailAdapter(channel.EmailConfig{
			Host:     env.SMTPHost,
			Port:     env.SMTPPort,
			Username: env.SMTPUser,
			Password: env.SMTPPassword,
			From:     env.SMTPFrom,
		}, log),
		channel.NewSMSAdapter(channel.SMSConfig{
			AccountSID: env.SMSAccountSID,
			AuthToken:  env.SMSAuthToken,
			From:       env.SMSFromNumber,
			RatePerSec: env.SMSRatePerSec,
		}, log),
		channel.NewPushAdapter(broker, log),
	}

	defaultChannels := make([]model.Channel, 0, len(cfg.Engine.DefaultChannels))
	for _, ch := range cfg.Engine.DefaultChannels {
		defaultChannels = append(defaultChannels, model.Channel(ch))
	}

	dispatcher := notify.NewDispatcher(
		notify.DispatcherConfig{DefaultChannels: defaultChannels},
		template.NewRenderer(),
		adapters,
		staffRepo,
		clientRepo,
		scheduledRepo,
		auditRepo,
		m,
		log,
	)

	registry := scheduler.NewRegistry()
	register := func(j scheduler.Job, jc config.JobConfig) {
		s := scheduler.New(j, jc.Interval, jc.Enabled, m, log)
		registry.Register(s)
		s.Start()
	}

	jobs := cfg.Jobs
	register(job.NewAppointmentJob(reminderRepo, dispatcher, jobs.AppointmentReminders, log), jobs.AppointmentReminders.JobConfig)
	register(job.NewClinicalNoteJob(noteRepo, trackingRepo, staffRepo, dispatcher, jobs.ClinicalNotes, log), jobs.ClinicalNotes.JobConfig)
	register(job.NewCosignJob(noteRepo, trackingRepo, staffRepo, dispatcher, jobs.Cosign, log), jobs.Cosign.JobConfig)
	register(job.NewTreatmentPlanJob(planRepo, trackingRepo, staffRepo, dispatcher, jobs.TreatmentPlans, log), jobs.TreatmentPlans.JobConfig)
	register(job.NewDigestJob(noteRepo, staffRepo, dispatcher, jobs.DailyDigest, cfg.Engine, log), jobs.DailyDigest.JobConfig)

	handler := schedulerhandler.NewHandler(registry, log)
	engine := router.New(handler, db, cfg.Engine.MetricsPath, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Engine.Port),
		Handler: engine,
	}

	go func() {
		log.Info("admin server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "admin server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	registry.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "admin server shutdown failed")
	}
}
