package job

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/config"
	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/notify"
	"github.com/clinichq/reminder-engine/internal/repository"
	"github.com/clinichq/reminder-engine/pkg/logger"
)

const clinicalNoteJobName = "clinical_notes"

// ClinicalNoteJob runs two passes over documentation state: a due-soon
// nudge for notes approaching their deadline and an escalating overdue
// reminder. Notes are grouped per clinician so each recipient gets at most
// one notification per pass per run.
type ClinicalNoteJob struct {
	notes      repository.ClinicalNoteRepository
	tracking   repository.ReminderTrackingRepository
	staff      *staffDirectory
	dispatcher notify.Dispatcher
	cfg        config.ClinicalJobConfig
	logger     *logger.Logger
	now        func() time.Time
}

func NewClinicalNoteJob(
	notes repository.ClinicalNoteRepository,
	tracking repository.ReminderTrackingRepository,
	staffRepo repository.StaffRepository,
	dispatcher notify.Dispatcher,
	cfg config.ClinicalJobConfig,
	log *logger.Logger,
) *ClinicalNoteJob {
	return &ClinicalNoteJob{
		notes:      notes,
		tracking:   tracking,
		staff:      newStaffDirectory(staffRepo),
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
	}
}

func (j *ClinicalNoteJob) Name() string { return clinicalNoteJobName }

func (j *ClinicalNoteJob) Run(ctx context.Context) (*model.SchedulerRunResult, error) {
	result := &model.SchedulerRunResult{}

	dueSoon, err := j.dueSoonPass(ctx)
	if err != nil {
		return result, err
	}
	result.Merge(dueSoon)

	overdue, err := j.overduePass(ctx)
	if err != nil {
		return result, err
	}
	result.Merge(overdue)

	return result, nil
}

func (j *ClinicalNoteJob) dueSoonPass(ctx context.Context) (*model.SchedulerRunResult, error) {
	now := j.now()
	result := &model.SchedulerRunResult{}
	window := time.Duration(j.cfg.DueSoonHours) * time.Hour

	notes, err := j.notes.ListDueSoon(ctx, now, window, j.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list due-soon notes: %w", err)
	}

	groups := groupByClinician(notes)
	clinicianIDs := sortedGroupKeys(groups)
	if err := j.staff.warm(ctx, clinicianIDs); err != nil {
		j.logger.Error(err, "failed to warm staff cache")
	}

	for _, clinicianID := range clinicianIDs {
		group := groups[clinicianID]
		result.Total++

		if skip := j.skipReason(ctx, domainNoteDueSoon, clinicianID, now); skip != "" {
			result.Skipped++
			continue
		}

		lines := make([]string, 0, len(group))
		for _, n := range group {
			lines = append(lines, fmt.Sprintf("%s (%s, due in %d hours)",
				n.ClientName(), n.NoteType, n.HoursUntilDue(now)))
		}

		sendResult, err := j.dispatcher.Send(ctx, &model.NotificationRequest{
			Type:          model.TypeNoteDueSoon,
			RecipientID:   clinicianID,
			RecipientKind: model.RecipientStaff,
			Priority:      model.PriorityNormal,
			TemplateData: map[string]interface{}{
				"count":        len(group),
				"window_hours": j.cfg.DueSoonHours,
				"notes":        lines,
			},
		})
		if err != nil || !sendResult.Success {
			result.Failed++
			result.Errors = append(result.Errors, notifyError(clinicianID, sendResult, err))
			continue
		}

		result.Sent++
		j.track(ctx, domainNoteDueSoon, clinicianID, now, false)
	}

	return result, nil
}

func (j *ClinicalNoteJob) overduePass(ctx context.Context) (*model.SchedulerRunResult, error) {
	now := j.now()
	result := &model.SchedulerRunResult{}

	notes, err := j.notes.ListOverdue(ctx, now, j.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list overdue notes: %w", err)
	}

	groups := groupByClinician(notes)
	clinicianIDs := sortedGroupKeys(groups)
	if err := j.staff.warm(ctx, clinicianIDs); err != nil {
		j.logger.Error(err, "failed to warm staff cache")
	}

	for _, clinicianID := range clinicianIDs {
		group := groups[clinicianID]
		result.Total++

		if skip := j.skipReason(ctx, domainNoteOverdue, clinicianID, now); skip != "" {
			result.Skipped++
			continue
		}

		maxDays := 0
		lines := make([]string, 0, len(group))
		for _, n := range group {
			days := n.DaysOverdue(now)
			if days > maxDays {
				maxDays = days
			}
			lines = append(lines, fmt.Sprintf("%s (%s, %d %s overdue)",
				n.ClientName(), n.NoteType, days, pluralDays(days)))
		}

		urgency := j.overdueUrgency(maxDays)
		channels := []model.Channel{model.ChannelEmail}
		priority := model.PriorityNormal
		if urgency == model.UrgencyCritical {
			channels = append(channels, model.ChannelSMS)
			priority = model.PriorityHigh
		}

		sendResult, err := j.dispatcher.Send(ctx, &model.NotificationRequest{
			Type:          model.TypeNoteOverdue,
			RecipientID:   clinicianID,
			RecipientKind: model.RecipientStaff,
			Channels:      channels,
			Priority:      priority,
			TemplateData: map[string]interface{}{
				"urgency":          string(urgency),
				"count":            len(group),
				"max_days_overdue": maxDays,
				"notes":            lines,
			},
		})
		if err != nil || !sendResult.Success {
			result.Failed++
			result.Errors = append(result.Errors, notifyError(clinicianID, sendResult, err))
			continue
		}

		result.Sent++
		j.track(ctx, domainNoteOverdue, clinicianID, now, true)
	}

	return result, nil
}

// overdueUrgency maps the oldest overdue note to an escalation tier. The
// tier only rises while any note stays unsigned.
func (j *ClinicalNoteJob) overdueUrgency(maxDaysOverdue int) model.Urgency {
	switch {
	case maxDaysOverdue >= j.cfg.CriticalAfterDays:
		return model.UrgencyCritical
	case maxDaysOverdue >= j.cfg.EscalatedAfterDays:
		return model.UrgencyEscalated
	default:
		return model.UrgencyWarning
	}
}

// skipReason checks the recipient is active and outside the cooldown
// window. A non-empty reason means the group is counted as skipped.
func (j *ClinicalNoteJob) skipReason(ctx context.Context, domain string, clinicianID uuid.UUID, now time.Time) string {
	staff, err := j.staff.Get(ctx, clinicianID)
	if err != nil || !staff.Active {
		return "clinician inactive or unknown"
	}

	tracking, err := j.tracking.Get(ctx, domain, clinicianID, clinicianID)
	if err != nil {
		j.logger.Error(err, "failed to read reminder tracking", "clinician_id", clinicianID)
		return "tracking unavailable"
	}
	if !tracking.DueForReminder(now, j.cfg.Cooldown) {
		return "within cooldown"
	}
	return ""
}

func (j *ClinicalNoteJob) track(ctx context.Context, domain string, clinicianID uuid.UUID, now time.Time, overdue bool) {
	if err := j.tracking.Upsert(ctx, domain, clinicianID, clinicianID, now, overdue); err != nil {
		j.logger.Error(err, "failed to upsert reminder tracking", "clinician_id", clinicianID)
	}
}

// groupByClinician preserves the repository's due-date ordering within each
// group; map iteration order across groups is not significant.
func groupByClinician(notes []*model.ClinicalNote) map[uuid.UUID][]*model.ClinicalNote {
	groups := make(map[uuid.UUID][]*model.ClinicalNote)
	for _, n := range notes {
		groups[n.ClinicianID] = append(groups[n.ClinicianID], n)
	}
	return groups
}

func sortedGroupKeys[T any](groups map[uuid.UUID][]T) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func pluralDays(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

func notifyError(recipientID uuid.UUID, result *model.NotificationResult, err error) model.RunError {
	if err != nil {
		return runError(recipientID, err)
	}
	for _, cr := range result.ChannelResults {
		if cr.Error != "" {
			return runErrorf(recipientID, "%s: %s", cr.Channel, cr.Error)
		}
	}
	return runErrorf(recipientID, "all channels failed")
}
