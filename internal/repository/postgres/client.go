package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, preferred_contact_method,
			ok_to_leave_message, primary_clinician_id, active, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client model.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}
