package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

func (r *appointmentReminderRepository) ListPending(ctx context.Context, now time.Time, limit int) ([]*model.AppointmentReminder, error) {
	query := `
		SELECT
			r.id, r.appointment_id, r.reminder_type, r.scheduled_for,
			r.delivery_status, r.retry_count, r.sent_at, r.failure_reason, r.created_at,
			a.client_id,
			c.first_name AS client_first_name, c.last_name AS client_last_name,
			s.first_name || ' ' || s.last_name AS clinician_name,
			a.start_time, a.location_type
		FROM appointment_reminders r
		JOIN appointments a ON a.id = r.appointment_id
		JOIN clients c ON c.id = a.client_id
		JOIN staff_members s ON s.id = a.clinician_id
		WHERE r.delivery_status = 'pending'
		AND r.scheduled_for <= $1
		AND a.status = 'scheduled'
		ORDER BY r.scheduled_for ASC
		LIMIT $2
	`
	var reminders []*model.AppointmentReminder
	err := r.db.SelectContext(ctx, &reminders, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending appointment reminders: %w", err)
	}
	return reminders, nil
}

func (r *appointmentReminderRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateStatus(ctx, id, model.ReminderSent, &at, nil)
}

func (r *appointmentReminderRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateStatus(ctx, id, model.ReminderFailed, nil, &reason)
}

func (r *appointmentReminderRepository) MarkSkipped(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateStatus(ctx, id, model.ReminderSkipped, nil, &reason)
}

func (r *appointmentReminderRepository) updateStatus(ctx context.Context, id uuid.UUID, status model.ReminderDeliveryStatus, sentAt *time.Time, reason *string) error {
	query := `
		UPDATE appointment_reminders
		SET delivery_status = $1,
			sent_at = COALESCE($2, sent_at),
			failure_reason = $3,
			retry_count = CASE WHEN $1 = 'failed' THEN retry_count + 1 ELSE retry_count END
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, sentAt, reason, id)
	if err != nil {
		return fmt.Errorf("failed to update reminder status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment reminder not found")
	}
	return nil
}
