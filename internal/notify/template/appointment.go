package template

import (
	"fmt"

	"github.com/clinichq/reminder-engine/internal/model"
)

func renderAppointmentReminder(data map[string]interface{}) *model.RenderedTemplate {
	clientName := getString(data, "client_name")
	clinicianName := getString(data, "clinician_name")
	startTime := getString(data, "start_time")
	location := getString(data, "location")

	subject := fmt.Sprintf("Appointment Reminder: %s", startTime)

	text := fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder of your upcoming appointment with %s on %s.\nLocation: %s\n\nIf you need to reschedule, please contact the office as soon as possible.\n",
		clientName, clinicianName, startTime, location)

	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>This is a reminder of your upcoming appointment with <strong>%s</strong> on <strong>%s</strong>.</p><p>Location: %s</p><p>If you need to reschedule, please contact the office as soon as possible.</p>",
		htmlEscape(clientName), htmlEscape(clinicianName), htmlEscape(startTime), htmlEscape(location))

	sms := fmt.Sprintf("Reminder: appointment with %s on %s. Reply or call the office to reschedule.",
		clinicianName, startTime)

	return &model.RenderedTemplate{
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
		SMSBody:  sms,
	}
}
