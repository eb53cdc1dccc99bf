package model

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentPlanStanding is one client's computed compliance position: how
// long since the last signed plan, who is responsible, and whether the
// validity period has lapsed. Derived per scan, not persisted.
type TreatmentPlanStanding struct {
	ClientID         uuid.UUID  `db:"client_id"`
	ClientFirstName  string     `db:"client_first_name"`
	ClientLastName   string     `db:"client_last_name"`
	ClinicianID      uuid.UUID  `db:"clinician_id"`
	LastPlanID       *uuid.UUID `db:"last_plan_id"`
	LastPlanSignedAt *time.Time `db:"last_plan_signed_at"`

	// Derived in Go from LastPlanSignedAt and the validity period.
	DaysSincePlan int  `db:"-"`
	Overdue       bool `db:"-"`
	DaysUntilDue  int  `db:"-"`
	DaysOverdue   int  `db:"-"`
}

func (s *TreatmentPlanStanding) ClientName() string {
	return s.ClientFirstName + " " + s.ClientLastName
}

// LastPlanDate renders the signed date for templates, "Never" when the
// client has no signed plan at all.
func (s *TreatmentPlanStanding) LastPlanDate() string {
	if s.LastPlanSignedAt == nil {
		return "Never"
	}
	return s.LastPlanSignedAt.Format("Jan 2, 2006")
}
