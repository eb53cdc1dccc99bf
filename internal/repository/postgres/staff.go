package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinichq/reminder-engine/internal/model"
)

const staffColumns = `
	id, first_name, last_name, email, phone, supervisor_id, active,
	email_notifications, sms_notifications, digest_enabled, created_at, updated_at
`

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_members WHERE id = $1`, staffColumns)

	var staff model.StaffMember
	err := r.db.GetContext(ctx, &staff, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.StaffMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT %s FROM staff_members WHERE id IN (?)`, staffColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build staff query: %w", err)
	}
	query = r.db.Rebind(query)

	var staff []*model.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list staff members: %w", err)
	}
	return staff, nil
}

func (r *staffRepository) ListActiveDigestRecipients(ctx context.Context, limit int) ([]*model.StaffMember, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM staff_members
		WHERE active = true
		AND email_notifications = true
		AND digest_enabled = true
		ORDER BY last_name ASC, first_name ASC
		LIMIT $1
	`, staffColumns)

	var staff []*model.StaffMember
	err := r.db.SelectContext(ctx, &staff, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest recipients: %w", err)
	}
	return staff, nil
}
