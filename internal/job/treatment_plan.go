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

const treatmentPlanJobName = "treatment_plans"

// TreatmentPlanJob watches each active client's plan against the validity
// period. Three passes: an upcoming-renewal nudge inside the first-reminder
// window, an escalating overdue reminder, and a supervisor alert for plans
// two weeks or more past renewal. Cooldowns are tracked per client and
// recipient pair so one client's reminder never suppresses another's.
type TreatmentPlanJob struct {
	plans      repository.TreatmentPlanRepository
	tracking   repository.ReminderTrackingRepository
	staff      *staffDirectory
	dispatcher notify.Dispatcher
	cfg        config.TreatmentPlanJobConfig
	logger     *logger.Logger
	now        func() time.Time
}

func NewTreatmentPlanJob(
	plans repository.TreatmentPlanRepository,
	tracking repository.ReminderTrackingRepository,
	staffRepo repository.StaffRepository,
	dispatcher notify.Dispatcher,
	cfg config.TreatmentPlanJobConfig,
	log *logger.Logger,
) *TreatmentPlanJob {
	return &TreatmentPlanJob{
		plans:      plans,
		tracking:   tracking,
		staff:      newStaffDirectory(staffRepo),
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
	}
}

func (j *TreatmentPlanJob) Name() string { return treatmentPlanJobName }

func (j *TreatmentPlanJob) cooldown() time.Duration {
	return time.Duration(j.cfg.CooldownDays) * 24 * time.Hour
}

func (j *TreatmentPlanJob) Run(ctx context.Context) (*model.SchedulerRunResult, error) {
	now := j.now()
	result := &model.SchedulerRunResult{}

	standings, err := j.plans.ListStandings(ctx, now, j.cfg.ValidityDays, j.cfg.FirstReminderDaysBefore, j.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list treatment plan standings: %w", err)
	}

	var upcoming, overdue []*model.TreatmentPlanStanding
	for _, s := range standings {
		if s.Overdue {
			overdue = append(overdue, s)
		} else {
			upcoming = append(upcoming, s)
		}
	}

	result.Merge(j.clinicianPass(ctx, now, upcoming, false))
	result.Merge(j.clinicianPass(ctx, now, overdue, true))
	result.Merge(j.supervisorPass(ctx, now, overdue))

	return result, nil
}

// clinicianPass groups standings by the responsible clinician and sends one
// notification per clinician covering the clients still outside cooldown.
func (j *TreatmentPlanJob) clinicianPass(ctx context.Context, now time.Time, standings []*model.TreatmentPlanStanding, overdue bool) *model.SchedulerRunResult {
	result := &model.SchedulerRunResult{}

	groups := make(map[uuid.UUID][]*model.TreatmentPlanStanding)
	for _, s := range standings {
		groups[s.ClinicianID] = append(groups[s.ClinicianID], s)
	}

	clinicianIDs := sortedGroupKeys(groups)
	if err := j.staff.warm(ctx, clinicianIDs); err != nil {
		j.logger.Error(err, "failed to warm staff cache")
	}

	for _, clinicianID := range clinicianIDs {
		result.Total++

		clinician, err := j.staff.Get(ctx, clinicianID)
		if err != nil || !clinician.Active {
			result.Skipped++
			continue
		}

		due := j.filterDue(ctx, domainTreatmentPlan, groups[clinicianID], clinicianID, now)
		if len(due) == 0 {
			result.Skipped++
			continue
		}

		req := j.buildClinicianRequest(clinicianID, due, overdue)
		sendResult, err := j.dispatcher.Send(ctx, req)
		if err != nil || !sendResult.Success {
			result.Failed++
			result.Errors = append(result.Errors, notifyError(clinicianID, sendResult, err))
			continue
		}

		result.Sent++
		for _, s := range due {
			if err := j.tracking.Upsert(ctx, domainTreatmentPlan, s.ClientID, clinicianID, now, overdue); err != nil {
				j.logger.Error(err, "failed to upsert reminder tracking", "client_id", s.ClientID)
			}
		}
	}

	return result
}

func (j *TreatmentPlanJob) buildClinicianRequest(clinicianID uuid.UUID, due []*model.TreatmentPlanStanding, overdue bool) *model.NotificationRequest {
	if !overdue {
		lines := make([]string, 0, len(due))
		for _, s := range due {
			lines = append(lines, fmt.Sprintf("%s (due in %d %s, last plan: %s)",
				s.ClientName(), s.DaysUntilDue, pluralDays(s.DaysUntilDue), s.LastPlanDate()))
		}
		return &model.NotificationRequest{
			Type:          model.TypeTreatmentPlanDueSoon,
			RecipientID:   clinicianID,
			RecipientKind: model.RecipientStaff,
			Priority:      model.PriorityNormal,
			TemplateData: map[string]interface{}{
				"count":   len(due),
				"clients": lines,
			},
		}
	}

	maxDays := 0
	lines := make([]string, 0, len(due))
	for _, s := range due {
		if s.DaysOverdue > maxDays {
			maxDays = s.DaysOverdue
		}
		lines = append(lines, fmt.Sprintf("%s (%d %s overdue, last plan: %s)",
			s.ClientName(), s.DaysOverdue, pluralDays(s.DaysOverdue), s.LastPlanDate()))
	}

	urgency := j.overdueUrgency(maxDays)
	channels := []model.Channel{model.ChannelEmail}
	priority := model.PriorityNormal
	if urgency == model.UrgencyUrgent {
		channels = append(channels, model.ChannelSMS)
		priority = model.PriorityHigh
	}

	return &model.NotificationRequest{
		Type:          model.TypeTreatmentPlanOverdue,
		RecipientID:   clinicianID,
		RecipientKind: model.RecipientStaff,
		Channels:      channels,
		Priority:      priority,
		TemplateData: map[string]interface{}{
			"urgency": string(urgency),
			"count":   len(due),
			"clients": lines,
		},
	}
}

// supervisorPass re-groups severely overdue standings by the responsible
// clinician's supervisor. It runs regardless of whether the clinician was
// notified this cycle.
func (j *TreatmentPlanJob) supervisorPass(ctx context.Context, now time.Time, overdue []*model.TreatmentPlanStanding) *model.SchedulerRunResult {
	result := &model.SchedulerRunResult{}

	type alert struct {
		standing  *model.TreatmentPlanStanding
		clinician *model.StaffMember
	}
	groups := make(map[uuid.UUID][]alert)
	for _, s := range overdue {
		if s.DaysOverdue < j.cfg.SupervisorAlertAfterDays {
			continue
		}
		clinician, err := j.staff.Get(ctx, s.ClinicianID)
		if err != nil || clinician.SupervisorID == nil {
			continue
		}
		groups[*clinician.SupervisorID] = append(groups[*clinician.SupervisorID], alert{standing: s, clinician: clinician})
	}

	for _, supervisorID := range sortedGroupKeys(groups) {
		result.Total++

		lastSent, err := j.trackingByClient(ctx, domainTreatmentPlanSupervisor, supervisorID)
		if err != nil {
			result.Skipped++
			continue
		}

		var due []alert
		for _, a := range groups[supervisorID] {
			if lastSent[a.standing.ClientID].DueForReminder(now, j.cooldown()) {
				due = append(due, a)
			}
		}
		if len(due) == 0 {
			result.Skipped++
			continue
		}

		lines := make([]string, 0, len(due))
		for _, a := range due {
			lines = append(lines, fmt.Sprintf("%s (clinician: %s, %d %s overdue)",
				a.standing.ClientName(), a.clinician.Name(),
				a.standing.DaysOverdue, pluralDays(a.standing.DaysOverdue)))
		}

		sendResult, err := j.dispatcher.Send(ctx, &model.NotificationRequest{
			Type:          model.TypeTreatmentPlanSupervisorAlert,
			RecipientID:   supervisorID,
			RecipientKind: model.RecipientStaff,
			Priority:      model.PriorityHigh,
			TemplateData: map[string]interface{}{
				"count":   len(due),
				"clients": lines,
			},
		})
		if err != nil || !sendResult.Success {
			result.Failed++
			result.Errors = append(result.Errors, notifyError(supervisorID, sendResult, err))
			continue
		}

		result.Sent++
		for _, a := range due {
			if err := j.tracking.Upsert(ctx, domainTreatmentPlanSupervisor, a.standing.ClientID, supervisorID, now, true); err != nil {
				j.logger.Error(err, "failed to upsert reminder tracking", "client_id", a.standing.ClientID)
			}
		}
	}

	return result
}

// filterDue drops the clients still inside the recipient's cooldown
// window. One tracking read covers the whole group; a read failure skips
// the group for this cycle.
func (j *TreatmentPlanJob) filterDue(ctx context.Context, domain string, standings []*model.TreatmentPlanStanding, recipientID uuid.UUID, now time.Time) []*model.TreatmentPlanStanding {
	lastSent, err := j.trackingByClient(ctx, domain, recipientID)
	if err != nil {
		return nil
	}

	var due []*model.TreatmentPlanStanding
	for _, s := range standings {
		if lastSent[s.ClientID].DueForReminder(now, j.cooldown()) {
			due = append(due, s)
		}
	}
	return due
}

func (j *TreatmentPlanJob) trackingByClient(ctx context.Context, domain string, recipientID uuid.UUID) (map[uuid.UUID]*model.ReminderTracking, error) {
	records, err := j.tracking.ListForRecipient(ctx, domain, recipientID)
	if err != nil {
		j.logger.Error(err, "failed to read reminder tracking", "recipient_id", recipientID)
		return nil, err
	}
	byClient := make(map[uuid.UUID]*model.ReminderTracking, len(records))
	for _, t := range records {
		byClient[t.EntityID] = t
	}
	return byClient, nil
}

func (j *TreatmentPlanJob) overdueUrgency(maxDaysOverdue int) model.Urgency {
	switch {
	case maxDaysOverdue >= j.cfg.UrgentAfterDays:
		return model.UrgencyUrgent
	case maxDaysOverdue >= j.cfg.CriticalAfterDays:
		return model.UrgencyCritical
	default:
		return model.UrgencyWarning
	}
}
