package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember is a clinician, associate, or supervisor.
type StaffMember struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	Email              string     `db:"email" json:"email"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	SupervisorID       *uuid.UUID `db:"supervisor_id" json:"supervisor_id,omitempty"`
	Active             bool       `db:"active" json:"active"`
	EmailNotifications bool       `db:"email_notifications" json:"email_notifications"`
	SMSNotifications   bool       `db:"sms_notifications" json:"sms_notifications"`
	DigestEnabled      bool       `db:"digest_enabled" json:"digest_enabled"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

func (s *StaffMember) Name() string {
	return s.FirstName + " " + s.LastName
}

// Client is a person receiving care. Contact preferences drive channel
// selection for client-facing reminders.
type Client struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	FirstName              string    `db:"first_name" json:"first_name"`
	LastName               string    `db:"last_name" json:"last_name"`
	Email                  *string   `db:"email" json:"email,omitempty"`
	Phone                  *string   `db:"phone" json:"phone,omitempty"`
	Status                 string    `db:"status" json:"status"`
	PreferredContactMethod string    `db:"preferred_contact_method" json:"preferred_contact_method"`
	OKToLeaveMessage       bool      `db:"ok_to_leave_message" json:"ok_to_leave_message"`
	PrimaryClinicianID     uuid.UUID `db:"primary_clinician_id" json:"primary_clinician_id"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

func (c *Client) Name() string {
	return c.FirstName + " " + c.LastName
}
