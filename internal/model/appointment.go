package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderDeliveryStatus string

const (
	ReminderPending ReminderDeliveryStatus = "pending"
	ReminderSent    ReminderDeliveryStatus = "sent"
	ReminderFailed  ReminderDeliveryStatus = "failed"
	ReminderSkipped ReminderDeliveryStatus = "skipped"
)

// AppointmentReminder is one scheduled reminder row for an appointment.
// Rows are created when the appointment is booked; the appointment job picks
// up pending rows whose send time has arrived.
type AppointmentReminder struct {
	ID             uuid.UUID              `db:"id" json:"id"`
	AppointmentID  uuid.UUID              `db:"appointment_id" json:"appointment_id"`
	ReminderType   Channel                `db:"reminder_type" json:"reminder_type"`
	ScheduledFor   time.Time              `db:"scheduled_for" json:"scheduled_for"`
	DeliveryStatus ReminderDeliveryStatus `db:"delivery_status" json:"delivery_status"`
	RetryCount     int                    `db:"retry_count" json:"retry_count"`
	SentAt         *time.Time             `db:"sent_at" json:"sent_at,omitempty"`
	FailureReason  *string                `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`

	// Joined appointment and contact fields used for rendering.
	ClientID        uuid.UUID `db:"client_id" json:"client_id"`
	ClientFirstName string    `db:"client_first_name" json:"-"`
	ClientLastName  string    `db:"client_last_name" json:"-"`
	ClinicianName   string    `db:"clinician_name" json:"-"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	LocationType    string    `db:"location_type" json:"location_type"`
}

func (r *AppointmentReminder) ClientName() string {
	return r.ClientFirstName + " " + r.ClientLastName
}
