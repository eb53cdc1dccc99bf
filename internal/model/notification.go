package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the domain event a notification reports.
type NotificationType string

const (
	TypeAppointmentReminder          NotificationType = "appointment_reminder"
	TypeNoteDueSoon                  NotificationType = "note_due_soon"
	TypeNoteOverdue                  NotificationType = "note_overdue"
	TypeNotePendingCosign            NotificationType = "note_pending_cosign"
	TypeNoteDailyDigest              NotificationType = "note_daily_digest"
	TypeTreatmentPlanDueSoon         NotificationType = "treatment_plan_due_soon"
	TypeTreatmentPlanOverdue         NotificationType = "treatment_plan_overdue"
	TypeTreatmentPlanSupervisorAlert NotificationType = "treatment_plan_supervisor_alert"
)

// Channel is a delivery medium with its own availability and preference
// semantics.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// RecipientKind distinguishes staff members from clients; contact identity
// is resolved from a different store for each.
type RecipientKind string

const (
	RecipientStaff  RecipientKind = "staff"
	RecipientClient RecipientKind = "client"
)

// NotificationRequest describes one notification to deliver. Immutable once
// constructed; empty Channels means the dispatcher's configured defaults
// apply.
type NotificationRequest struct {
	Type          NotificationType       `json:"type" validate:"required"`
	RecipientID   uuid.UUID              `json:"recipient_id" validate:"required"`
	RecipientKind RecipientKind          `json:"recipient_kind" validate:"required,oneof=staff client"`
	Channels      []Channel              `json:"channels,omitempty"`
	Priority      Priority               `json:"priority,omitempty"`
	TemplateData  map[string]interface{} `json:"template_data"`
	ReferenceID   *uuid.UUID             `json:"reference_id,omitempty"`
	ScheduledFor  *time.Time             `json:"scheduled_for,omitempty"`
}

// RecipientInfo is a recipient's resolved contact identity. Built fresh on
// every dispatch; preferences may change between runs so it is never cached.
type RecipientInfo struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	EmailEnabled bool
	SMSEnabled   bool
}

func (r *RecipientInfo) DisplayName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// RenderedTemplate is the channel-agnostic output of the template renderer.
// SMSBody is an optional short-message variant; adapters fall back to a
// truncated TextBody when it is empty.
type RenderedTemplate struct {
	Subject  string
	TextBody string
	HTMLBody string
	SMSBody  string
}

// DeliveryStatus is the outcome of a single channel attempt. Cancelled means
// the send was suppressed by the recipient's preference, not attempted.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusFailed    DeliveryStatus = "failed"
	StatusCancelled DeliveryStatus = "cancelled"
)

// ChannelResult is the outcome of one channel attempt.
type ChannelResult struct {
	Channel   Channel        `json:"channel"`
	Success   bool           `json:"success"`
	Status    DeliveryStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	MessageID string         `json:"message_id,omitempty"`
}

// NotificationResult aggregates all channel results for one request.
type NotificationResult struct {
	ID             uuid.UUID       `json:"id"`
	Success        bool            `json:"success"`
	ChannelResults []ChannelResult `json:"channel_results"`
	Timestamp      time.Time       `json:"timestamp"`
}

// AnySucceeded reports whether at least one channel delivered. Overall
// success is always this and nothing else.
func AnySucceeded(results []ChannelResult) bool {
	for _, r := range results {
		if r.Success {
			return true
		}
	}
	return false
}

// Urgency is a severity level derived from elapsed overdue time.
type Urgency string

const (
	UrgencyUpcoming  Urgency = "UPCOMING"
	UrgencyWarning   Urgency = "WARNING"
	UrgencyEscalated Urgency = "ESCALATED"
	UrgencyCritical  Urgency = "CRITICAL"
	UrgencyUrgent    Urgency = "URGENT"
)
