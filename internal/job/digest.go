package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/config"
	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/notify"
	"github.com/clinichq/reminder-engine/internal/repository"
	"github.com/clinichq/reminder-engine/pkg/logger"
)

const digestJobName = "daily_digest"

// digestDetailLimit caps the note lines listed in a digest email. The
// counts still cover everything outstanding.
const digestDetailLimit = 10

// DigestJob emails each opted-in clinician a morning summary of their
// documentation state. Clinicians with nothing outstanding get no email.
type DigestJob struct {
	notes      repository.ClinicalNoteRepository
	staffRepo  repository.StaffRepository
	dispatcher notify.Dispatcher
	cfg        config.DigestJobConfig
	engine     config.EngineConfig
	logger     *logger.Logger
	now        func() time.Time
}

func NewDigestJob(
	notes repository.ClinicalNoteRepository,
	staffRepo repository.StaffRepository,
	dispatcher notify.Dispatcher,
	cfg config.DigestJobConfig,
	engine config.EngineConfig,
	log *logger.Logger,
) *DigestJob {
	return &DigestJob{
		notes:      notes,
		staffRepo:  staffRepo,
		dispatcher: dispatcher,
		cfg:        cfg,
		engine:     engine,
		logger:     log,
		now:        time.Now,
	}
}

func (j *DigestJob) Name() string { return digestJobName }

func (j *DigestJob) Run(ctx context.Context) (*model.SchedulerRunResult, error) {
	now := j.now()
	result := &model.SchedulerRunResult{}
	window := time.Duration(j.cfg.DueSoonHours) * time.Hour

	recipients, err := j.staffRepo.ListActiveDigestRecipients(ctx, j.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list digest recipients: %w", err)
	}

	for _, clinician := range recipients {
		result.Total++

		counts, err := j.notes.CountDigest(ctx, clinician.ID, now, window)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, runError(clinician.ID, err))
			continue
		}

		if counts.Empty() {
			result.Skipped++
			continue
		}

		sendResult, err := j.dispatcher.Send(ctx, &model.NotificationRequest{
			Type:          model.TypeNoteDailyDigest,
			RecipientID:   clinician.ID,
			RecipientKind: model.RecipientStaff,
			Channels:      []model.Channel{model.ChannelEmail},
			Priority:      model.PriorityLow,
			TemplateData: map[string]interface{}{
				"due_today":       counts.DueToday,
				"due_soon":        counts.DueSoon,
				"overdue":         counts.Overdue,
				"pending_cosign":  counts.PendingCosign,
				"due_today_notes": j.dueTodayLines(ctx, clinician.ID, now, counts.DueToday),
				"overdue_notes":   j.overdueLines(ctx, clinician.ID, now, counts.Overdue),
				"practice_name":   j.engine.PracticeName,
				"dashboard_url":   j.engine.DashboardURL,
			},
		})
		if err != nil || !sendResult.Success {
			result.Failed++
			result.Errors = append(result.Errors, notifyError(clinician.ID, sendResult, err))
			continue
		}

		result.Sent++
	}

	return result, nil
}

// dueTodayLines lists the clinician's notes due today for the digest body.
// Detail is best effort; a fetch failure leaves the digest counts-only.
func (j *DigestJob) dueTodayLines(ctx context.Context, clinicianID uuid.UUID, now time.Time, count int) []string {
	if count == 0 {
		return nil
	}
	notes, err := j.notes.ListDueToday(ctx, clinicianID, now, digestDetailLimit)
	if err != nil {
		j.logger.Error(err, "failed to list due-today notes for digest", "clinician_id", clinicianID)
		return nil
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("%s (%s, due %s)",
			n.ClientName(), n.NoteType, n.DueDate.Format("3:04 PM")))
	}
	return lines
}

func (j *DigestJob) overdueLines(ctx context.Context, clinicianID uuid.UUID, now time.Time, count int) []string {
	if count == 0 {
		return nil
	}
	notes, err := j.notes.ListOverdueForClinician(ctx, clinicianID, now, digestDetailLimit)
	if err != nil {
		j.logger.Error(err, "failed to list overdue notes for digest", "clinician_id", clinicianID)
		return nil
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		days := n.DaysOverdue(now)
		lines = append(lines, fmt.Sprintf("%s (%s, %d %s overdue)",
			n.ClientName(), n.NoteType, days, pluralDays(days)))
	}
	return lines
}
