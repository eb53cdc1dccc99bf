package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichq/reminder-engine/internal/model"
)

// ListStandings computes each active client's treatment-plan standing from
// the most recent signed plan note. Clients whose plan is current and
// outside the first-reminder window are excluded by the HAVING-equivalent
// filter in Go, but the query itself already restricts to clients inside the
// attention window so one scan stays bounded.
func (r *treatmentPlanRepository) ListStandings(ctx context.Context, now time.Time, validityDays, firstReminderDaysBefore, limit int) ([]*model.TreatmentPlanStanding, error) {
	query := `
		SELECT
			c.id AS client_id,
			c.first_name AS client_first_name,
			c.last_name AS client_last_name,
			COALESCE(p.clinician_id, c.primary_clinician_id) AS clinician_id,
			p.id AS last_plan_id,
			p.signed_at AS last_plan_signed_at
		FROM clients c
		LEFT JOIN LATERAL (
			SELECT n.id, n.clinician_id, n.signed_at
			FROM clinical_notes n
			WHERE n.client_id = c.id
			AND n.note_type = 'Treatment Plan'
			AND n.status IN ('signed', 'cosigned', 'locked')
			ORDER BY n.signed_at DESC
			LIMIT 1
		) p ON true
		WHERE c.status = 'active'
		AND (p.signed_at IS NULL OR p.signed_at <= $1)
		AND (p.clinician_id IS NOT NULL OR c.primary_clinician_id IS NOT NULL)
		ORDER BY p.signed_at ASC NULLS FIRST
		LIMIT $2
	`
	attentionCutoff := now.AddDate(0, 0, -(validityDays - firstReminderDaysBefore))

	var standings []*model.TreatmentPlanStanding
	err := r.db.SelectContext(ctx, &standings, query, attentionCutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatment plan standings: %w", err)
	}

	for _, s := range standings {
		if s.LastPlanSignedAt == nil {
			// Never had a signed plan: fully overdue.
			s.DaysSincePlan = validityDays + 1
			s.Overdue = true
			s.DaysOverdue = validityDays
			continue
		}
		s.DaysSincePlan = int(now.Sub(*s.LastPlanSignedAt).Hours() / 24)
		if s.DaysSincePlan > validityDays {
			s.Overdue = true
			s.DaysOverdue = s.DaysSincePlan - validityDays
		} else {
			s.DaysUntilDue = validityDays - s.DaysSincePlan
		}
	}

	return standings, nil
}
