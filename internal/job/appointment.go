package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinichq/reminder-engine/internal/config"
	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/notify"
	"github.com/clinichq/reminder-engine/internal/repository"
	"github.com/clinichq/reminder-engine/pkg/logger"
)

const appointmentJobName = "appointment_reminders"

// AppointmentJob delivers the pending appointment_reminders rows whose send
// time has arrived. Each row already names its channel; delivery outcome is
// written back to the row so a crashed run never re-sends.
type AppointmentJob struct {
	reminders  repository.AppointmentReminderRepository
	dispatcher notify.Dispatcher
	cfg        config.AppointmentJobConfig
	logger     *logger.Logger
	now        func() time.Time
}

func NewAppointmentJob(
	reminders repository.AppointmentReminderRepository,
	dispatcher notify.Dispatcher,
	cfg config.AppointmentJobConfig,
	log *logger.Logger,
) *AppointmentJob {
	return &AppointmentJob{
		reminders:  reminders,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
	}
}

func (j *AppointmentJob) Name() string { return appointmentJobName }

func (j *AppointmentJob) Run(ctx context.Context) (*model.SchedulerRunResult, error) {
	now := j.now()
	result := &model.SchedulerRunResult{}

	pending, err := j.reminders.ListPending(ctx, now, j.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list pending appointment reminders: %w", err)
	}

	for _, reminder := range pending {
		result.Total++

		sendResult, err := j.dispatcher.Send(ctx, &model.NotificationRequest{
			Type:          model.TypeAppointmentReminder,
			RecipientID:   reminder.ClientID,
			RecipientKind: model.RecipientClient,
			Channels:      []model.Channel{reminder.ReminderType},
			Priority:      model.PriorityNormal,
			ReferenceID:   &reminder.AppointmentID,
			TemplateData: map[string]interface{}{
				"client_name":    reminder.ClientName(),
				"clinician_name": reminder.ClinicianName,
				"start_time":     reminder.StartTime.Format("Monday, Jan 2 at 3:04 PM"),
				"location":       reminder.LocationType,
			},
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, runError(reminder.ID, err))
			if markErr := j.reminders.MarkFailed(ctx, reminder.ID, err.Error()); markErr != nil {
				j.logger.Error(markErr, "failed to mark reminder failed", "reminder_id", reminder.ID)
			}
			continue
		}

		switch outcome(sendResult) {
		case model.StatusSent:
			result.Sent++
			if err := j.reminders.MarkSent(ctx, reminder.ID, now); err != nil {
				j.logger.Error(err, "failed to mark reminder sent", "reminder_id", reminder.ID)
			}
		case model.StatusCancelled:
			result.Skipped++
			if err := j.reminders.MarkSkipped(ctx, reminder.ID, skipReason(sendResult)); err != nil {
				j.logger.Error(err, "failed to mark reminder skipped", "reminder_id", reminder.ID)
			}
		default:
			result.Failed++
			reason := failureReason(sendResult)
			result.Errors = append(result.Errors, runErrorf(reminder.ID, "%s", reason))
			if err := j.reminders.MarkFailed(ctx, reminder.ID, reason); err != nil {
				j.logger.Error(err, "failed to mark reminder failed", "reminder_id", reminder.ID)
			}
		}
	}

	return result, nil
}

// outcome collapses the per-channel results into the row status: sent if
// any channel delivered, skipped when every attempt was suppressed by a
// preference or a missing contact field, failed otherwise.
func outcome(r *model.NotificationResult) model.DeliveryStatus {
	if r.Success {
		return model.StatusSent
	}
	for _, cr := range r.ChannelResults {
		if cr.Status == model.StatusCancelled {
			continue
		}
		if strings.HasPrefix(cr.Error, "no email address") || strings.HasPrefix(cr.Error, "no phone number") {
			continue
		}
		return model.StatusFailed
	}
	return model.StatusCancelled
}

func skipReason(r *model.NotificationResult) string {
	for _, cr := range r.ChannelResults {
		if cr.Error != "" {
			return cr.Error
		}
	}
	return "no deliverable channel"
}

func failureReason(r *model.NotificationResult) string {
	parts := make([]string, 0, len(r.ChannelResults))
	for _, cr := range r.ChannelResults {
		if cr.Error != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", cr.Channel, cr.Error))
		}
	}
	if len(parts) == 0 {
		return "delivery failed"
	}
	return strings.Join(parts, "; ")
}
