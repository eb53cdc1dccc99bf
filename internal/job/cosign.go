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

const cosignJobName = "cosign"

// CosignJob reminds supervisors of notes awaiting their co-signature,
// grouped per supervisor with a per-supervisor cooldown.
type CosignJob struct {
	notes      repository.ClinicalNoteRepository
	tracking   repository.ReminderTrackingRepository
	staff      *staffDirectory
	dispatcher notify.Dispatcher
	cfg        config.CosignJobConfig
	logger     *logger.Logger
	now        func() time.Time
}

func NewCosignJob(
	notes repository.ClinicalNoteRepository,
	tracking repository.ReminderTrackingRepository,
	staffRepo repository.StaffRepository,
	dispatcher notify.Dispatcher,
	cfg config.CosignJobConfig,
	log *logger.Logger,
) *CosignJob {
	return &CosignJob{
		notes:      notes,
		tracking:   tracking,
		staff:      newStaffDirectory(staffRepo),
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
	}
}

func (j *CosignJob) Name() string { return cosignJobName }

func (j *CosignJob) Run(ctx context.Context) (*model.SchedulerRunResult, error) {
	now := j.now()
	result := &model.SchedulerRunResult{}

	notes, err := j.notes.ListPendingCosign(ctx, j.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list notes pending co-sign: %w", err)
	}

	groups := make(map[uuid.UUID][]*model.ClinicalNote)
	for _, n := range notes {
		if n.CosignerID == nil {
			continue
		}
		groups[*n.CosignerID] = append(groups[*n.CosignerID], n)
	}

	supervisorIDs := sortedGroupKeys(groups)
	if err := j.staff.warm(ctx, supervisorIDs); err != nil {
		j.logger.Error(err, "failed to warm staff cache")
	}

	for _, supervisorID := range supervisorIDs {
		group := groups[supervisorID]
		result.Total++

		supervisor, err := j.staff.Get(ctx, supervisorID)
		if err != nil || !supervisor.Active {
			result.Skipped++
			continue
		}

		tracking, err := j.tracking.Get(ctx, domainNoteCosign, supervisorID, supervisorID)
		if err != nil {
			j.logger.Error(err, "failed to read reminder tracking", "supervisor_id", supervisorID)
			result.Skipped++
			continue
		}
		if !tracking.DueForReminder(now, j.cfg.Cooldown) {
			result.Skipped++
			continue
		}

		lines := make([]string, 0, len(group))
		for _, n := range group {
			lines = append(lines, fmt.Sprintf("%s (%s, session %s)",
				n.ClientName(), n.NoteType, n.SessionDate.Format("Jan 2")))
		}

		sendResult, err := j.dispatcher.Send(ctx, &model.NotificationRequest{
			Type:          model.TypeNotePendingCosign,
			RecipientID:   supervisorID,
			RecipientKind: model.RecipientStaff,
			Priority:      model.PriorityNormal,
			TemplateData: map[string]interface{}{
				"count": len(group),
				"notes": lines,
			},
		})
		if err != nil || !sendResult.Success {
			result.Failed++
			result.Errors = append(result.Errors, notifyError(supervisorID, sendResult, err))
			continue
		}

		result.Sent++
		if err := j.tracking.Upsert(ctx, domainNoteCosign, supervisorID, supervisorID, now, false); err != nil {
			j.logger.Error(err, "failed to upsert reminder tracking", "supervisor_id", supervisorID)
		}
	}

	return result, nil
}
