package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

const noteColumns = `
	n.id, n.client_id, n.clinician_id, n.cosigner_id, n.note_type, n.status,
	n.session_date, n.due_date, n.signed_at, n.cosigned_at,
	n.created_at, n.updated_at,
	c.first_name AS client_first_name, c.last_name AS client_last_name
`

func (r *clinicalNoteRepository) ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]*model.ClinicalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clinical_notes n
		JOIN clients c ON c.id = n.client_id
		WHERE n.status IN ('draft', 'in_progress')
		AND n.due_date > $1
		AND n.due_date <= $2
		ORDER BY n.due_date ASC
		LIMIT $3
	`, noteColumns)

	var notes []*model.ClinicalNote
	err := r.db.SelectContext(ctx, &notes, query, now, now.Add(window), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due soon notes: %w", err)
	}
	return notes, nil
}

func (r *clinicalNoteRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*model.ClinicalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clinical_notes n
		JOIN clients c ON c.id = n.client_id
		WHERE n.status IN ('draft', 'in_progress')
		AND n.due_date < $1
		ORDER BY n.due_date ASC
		LIMIT $2
	`, noteColumns)

	var notes []*model.ClinicalNote
	err := r.db.SelectContext(ctx, &notes, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue notes: %w", err)
	}
	return notes, nil
}

func (r *clinicalNoteRepository) ListPendingCosign(ctx context.Context, limit int) ([]*model.ClinicalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clinical_notes n
		JOIN clients c ON c.id = n.client_id
		WHERE n.status = 'pending_cosign'
		AND n.cosigner_id IS NOT NULL
		AND n.cosigned_at IS NULL
		ORDER BY n.signed_at ASC NULLS LAST
		LIMIT $1
	`, noteColumns)

	var notes []*model.ClinicalNote
	err := r.db.SelectContext(ctx, &notes, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending cosign notes: %w", err)
	}
	return notes, nil
}

func (r *clinicalNoteRepository) CountDigest(ctx context.Context, clinicianID uuid.UUID, now time.Time, dueSoonWindow time.Duration) (model.DigestCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE clinician_id = $1 AND status IN ('draft', 'in_progress') AND due_date >= $2 AND due_date <= $3)  AS due_today,
			COUNT(*) FILTER (WHERE clinician_id = $1 AND status IN ('draft', 'in_progress') AND due_date > $3 AND due_date <= $4)   AS due_soon,
			COUNT(*) FILTER (WHERE clinician_id = $1 AND status IN ('draft', 'in_progress') AND due_date < $2)                      AS overdue,
			COUNT(*) FILTER (WHERE cosigner_id = $1 AND status = 'pending_cosign' AND cosigned_at IS NULL)                          AS pending_cosign
		FROM clinical_notes
	`
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	var counts model.DigestCounts
	err := r.db.GetContext(ctx, &counts, query, clinicianID, now, endOfDay, now.Add(dueSoonWindow))
	if err != nil {
		return model.DigestCounts{}, fmt.Errorf("failed to count digest notes: %w", err)
	}
	return counts, nil
}

func (r *clinicalNoteRepository) ListDueToday(ctx context.Context, clinicianID uuid.UUID, now time.Time, limit int) ([]*model.ClinicalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clinical_notes n
		JOIN clients c ON c.id = n.client_id
		WHERE n.clinician_id = $1
		AND n.status IN ('draft', 'in_progress')
		AND n.due_date >= $2
		AND n.due_date <= $3
		ORDER BY n.due_date ASC
		LIMIT $4
	`, noteColumns)
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	var notes []*model.ClinicalNote
	err := r.db.SelectContext(ctx, &notes, query, clinicianID, now, endOfDay, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due today notes: %w", err)
	}
	return notes, nil
}

func (r *clinicalNoteRepository) ListOverdueForClinician(ctx context.Context, clinicianID uuid.UUID, now time.Time, limit int) ([]*model.ClinicalNote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clinical_notes n
		JOIN clients c ON c.id = n.client_id
		WHERE n.clinician_id = $1
		AND n.status IN ('draft', 'in_progress')
		AND n.due_date < $2
		ORDER BY n.due_date ASC
		LIMIT $3
	`, noteColumns)

	var notes []*model.ClinicalNote
	err := r.db.SelectContext(ctx, &notes, query, clinicianID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue notes for clinician: %w", err)
	}
	return notes, nil
}
