package model

import (
	"time"

	"github.com/google/uuid"
)

type NoteStatus string

const (
	NoteStatusDraft         NoteStatus = "draft"
	NoteStatusInProgress    NoteStatus = "in_progress"
	NoteStatusPendingCosign NoteStatus = "pending_cosign"
	NoteStatusSigned        NoteStatus = "signed"
	NoteStatusCosigned      NoteStatus = "cosigned"
	NoteStatusLocked        NoteStatus = "locked"
)

// ClinicalNote is a documentation record with a compliance due date. The
// reminder jobs only read notes; authoring lives elsewhere.
type ClinicalNote struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	ClinicianID uuid.UUID  `db:"clinician_id" json:"clinician_id"`
	CosignerID  *uuid.UUID `db:"cosigner_id" json:"cosigner_id,omitempty"`
	NoteType    string     `db:"note_type" json:"note_type"`
	Status      NoteStatus `db:"status" json:"status"`
	SessionDate time.Time  `db:"session_date" json:"session_date"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	SignedAt    *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	CosignedAt  *time.Time `db:"cosigned_at" json:"cosigned_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Joined for reminder rendering.
	ClientFirstName string `db:"client_first_name" json:"-"`
	ClientLastName  string `db:"client_last_name" json:"-"`
}

func (n *ClinicalNote) ClientName() string {
	return n.ClientFirstName + " " + n.ClientLastName
}

// HoursUntilDue is negative once the note is overdue.
func (n *ClinicalNote) HoursUntilDue(now time.Time) int {
	return int(n.DueDate.Sub(now).Hours())
}

func (n *ClinicalNote) DaysOverdue(now time.Time) int {
	if now.Before(n.DueDate) {
		return 0
	}
	return int(now.Sub(n.DueDate).Hours() / 24)
}

// DigestCounts are the per-clinician note counts included in the daily
// digest.
type DigestCounts struct {
	DueToday      int `db:"due_today" json:"due_today"`
	DueSoon       int `db:"due_soon" json:"due_soon"`
	Overdue       int `db:"overdue" json:"overdue"`
	PendingCosign int `db:"pending_cosign" json:"pending_cosign"`
}

func (c DigestCounts) Empty() bool {
	return c.DueToday == 0 && c.DueSoon == 0 && c.Overdue == 0 && c.PendingCosign == 0
}
