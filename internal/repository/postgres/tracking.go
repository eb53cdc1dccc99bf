package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

func (r *trackingRepository) Get(ctx context.Context, domain string, entityID, recipientID uuid.UUID) (*model.ReminderTracking, error) {
	query := `
		SELECT id, domain, entity_id, recipient_id, last_reminder_sent,
			reminder_count, overdue, updated_at
		FROM reminder_tracking
		WHERE domain = $1 AND entity_id = $2 AND recipient_id = $3
	`

	var tracking model.ReminderTracking
	err := r.db.GetContext(ctx, &tracking, query, domain, entityID, recipientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder tracking: %w", err)
	}
	return &tracking, nil
}

func (r *trackingRepository) ListForRecipient(ctx context.Context, domain string, recipientID uuid.UUID) ([]*model.ReminderTracking, error) {
	query := `
		SELECT id, domain, entity_id, recipient_id, last_reminder_sent,
			reminder_count, overdue, updated_at
		FROM reminder_tracking
		WHERE domain = $1 AND recipient_id = $2
		ORDER BY last_reminder_sent DESC
	`

	var tracking []*model.ReminderTracking
	if err := r.db.SelectContext(ctx, &tracking, query, domain, recipientID); err != nil {
		return nil, fmt.Errorf("failed to list reminder tracking: %w", err)
	}
	return tracking, nil
}

// Upsert records a sent reminder for the (domain, entity, recipient) pair.
// GREATEST keeps the timestamp monotonic when runs land out of order.
func (r *trackingRepository) Upsert(ctx context.Context, domain string, entityID, recipientID uuid.UUID, sentAt time.Time, overdue bool) error {
	query := `
		INSERT INTO reminder_tracking (
			id, domain, entity_id, recipient_id, last_reminder_sent,
			reminder_count, overdue, updated_at
		) VALUES ($1, $2, $3, $4, $5, 1, $6, NOW())
		ON CONFLICT (domain, entity_id, recipient_id) DO UPDATE SET
			last_reminder_sent = GREATEST(reminder_tracking.last_reminder_sent, EXCLUDED.last_reminder_sent),
			reminder_count = reminder_tracking.reminder_count + 1,
			overdue = EXCLUDED.overdue,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), domain, entityID, recipientID, sentAt, overdue)
	if err != nil {
		return fmt.Errorf("failed to upsert reminder tracking: %w", err)
	}
	return nil
}
