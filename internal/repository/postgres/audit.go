package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO notification_audit (
			id, notification_id, type, recipient_id, recipient_kind,
			channel, status, error, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.NotificationID, entry.Type, entry.RecipientID,
		entry.RecipientKind, entry.Channel, entry.Status, entry.Error)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}
