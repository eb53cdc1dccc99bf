package model

import (
	"time"

	"github.com/google/uuid"
)

// ReminderTracking is the durable per-(entity, recipient) record that makes
// repeated scans idempotent. LastReminderSent only moves forward;
// ReminderCount increases by one per successful notification covering the
// pair.
type ReminderTracking struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Domain           string    `db:"domain" json:"domain"`
	EntityID         uuid.UUID `db:"entity_id" json:"entity_id"`
	RecipientID      uuid.UUID `db:"recipient_id" json:"recipient_id"`
	LastReminderSent time.Time `db:"last_reminder_sent" json:"last_reminder_sent"`
	ReminderCount    int       `db:"reminder_count" json:"reminder_count"`
	Overdue          bool      `db:"overdue" json:"overdue"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DueForReminder reports whether the cooldown interval has elapsed since the
// last reminder for this pair. A nil record is always due.
func (t *ReminderTracking) DueForReminder(now time.Time, cooldown time.Duration) bool {
	if t == nil {
		return true
	}
	return now.Sub(t.LastReminderSent) >= cooldown
}

// AuditEntry records one notification attempt for compliance logging.
// History queries against these rows are not supported; they exist as an
// append-only trail.
type AuditEntry struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	NotificationID uuid.UUID        `db:"notification_id" json:"notification_id"`
	Type           NotificationType `db:"type" json:"type"`
	RecipientID    uuid.UUID        `db:"recipient_id" json:"recipient_id"`
	RecipientKind  RecipientKind    `db:"recipient_kind" json:"recipient_kind"`
	Channel        Channel          `db:"channel" json:"channel"`
	Status         DeliveryStatus   `db:"status" json:"status"`
	Error          *string          `db:"error" json:"error,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}
