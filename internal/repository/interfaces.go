package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

// All repository interfaces in one file
type (
	// ClinicalNoteRepository reads documentation state for the reminder
	// jobs. The engine never writes notes.
	ClinicalNoteRepository interface {
		ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]*model.ClinicalNote, error)
		ListOverdue(ctx context.Context, now time.Time, limit int) ([]*model.ClinicalNote, error)
		ListPendingCosign(ctx context.Context, limit int) ([]*model.ClinicalNote, error)
		CountDigest(ctx context.Context, clinicianID uuid.UUID, now time.Time, dueSoonWindow time.Duration) (model.DigestCounts, error)
		ListDueToday(ctx context.Context, clinicianID uuid.UUID, now time.Time, limit int) ([]*model.ClinicalNote, error)
		ListOverdueForClinician(ctx context.Context, clinicianID uuid.UUID, now time.Time, limit int) ([]*model.ClinicalNote, error)
	}

	AppointmentReminderRepository interface {
		ListPending(ctx context.Context, now time.Time, limit int) ([]*model.AppointmentReminder, error)
		MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
		MarkSkipped(ctx context.Context, id uuid.UUID, reason string) error
	}

	// TreatmentPlanRepository computes each active client's compliance
	// standing against the plan validity period.
	TreatmentPlanRepository interface {
		ListStandings(ctx context.Context, now time.Time, validityDays, firstReminderDaysBefore, limit int) ([]*model.TreatmentPlanStanding, error)
	}

	StaffRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error)
		ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.StaffMember, error)
		ListActiveDigestRecipients(ctx context.Context, limit int) ([]*model.StaffMember, error)
	}

	ClientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
	}

	// ReminderTrackingRepository persists the per-(entity, recipient)
	// cooldown state. Upsert bumps the count and moves the timestamp
	// forward; it never rewinds.
	ReminderTrackingRepository interface {
		Get(ctx context.Context, domain string, entityID, recipientID uuid.UUID) (*model.ReminderTracking, error)
		ListForRecipient(ctx context.Context, domain string, recipientID uuid.UUID) ([]*model.ReminderTracking, error)
		Upsert(ctx context.Context, domain string, entityID, recipientID uuid.UUID, sentAt time.Time, overdue bool) error
	}

	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditEntry) error
	}

	// ScheduledNotificationRepository is the thin persistence path for
	// requests carrying a future ScheduledFor.
	ScheduledNotificationRepository interface {
		Create(ctx context.Context, req *model.NotificationRequest) (uuid.UUID, error)
	}
)
