package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

// Create persists a future-dated request verbatim. A separate delivery
// sweep picks these rows up once scheduled_for passes.
func (r *scheduledNotificationRepository) Create(ctx context.Context, req *model.NotificationRequest) (uuid.UUID, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal scheduled notification: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO scheduled_notifications (
			id, type, recipient_id, recipient_kind, scheduled_for, payload, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, 'pending', NOW())
	`

	_, err = r.db.ExecContext(ctx, query,
		id, req.Type, req.RecipientID, req.RecipientKind, req.ScheduledFor, payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create scheduled notification: %w", err)
	}
	return id, nil
}
