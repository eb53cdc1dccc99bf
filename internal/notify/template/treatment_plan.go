package template

import (
	"fmt"

	"github.com/clinichq/reminder-engine/internal/model"
)

func renderTreatmentPlanDueSoon(data map[string]interface{}) *model.RenderedTemplate {
	count := getInt(data, "count")
	lines := getStrings(data, "clients")

	subject := fmt.Sprintf("%d treatment %s due for renewal soon",
		count, plural(count, "plan", "plans"))

	text := fmt.Sprintf(
		"The following %s coming up for renewal:\n\n%s\nPlease schedule plan reviews before the validity period lapses.\n",
		plural(count, "client's treatment plan is", "clients' treatment plans are"), bulletList(lines))

	html := fmt.Sprintf(
		"<p>The following %s coming up for renewal:</p>%s<p>Please schedule plan reviews before the validity period lapses.</p>",
		plural(count, "client's treatment plan is", "clients' treatment plans are"), htmlList(lines))

	return &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
}

func renderTreatmentPlanOverdue(data map[string]interface{}) *model.RenderedTemplate {
	urgency := getString(data, "urgency")
	count := getInt(data, "count")
	lines := getStrings(data, "clients")

	subject := fmt.Sprintf("[%s] %d %s with expired treatment plans",
		urgency, count, plural(count, "client", "clients"))

	text := fmt.Sprintf(
		"The validity period has lapsed for %d %s:\n\n%s\nServices delivered without a current treatment plan may not be reimbursable. Please update these plans immediately.\n",
		count, plural(count, "client", "clients"), bulletList(lines))

	html := fmt.Sprintf(
		"<p>The validity period has lapsed for <strong>%d</strong> %s:</p>%s<p>Services delivered without a current treatment plan may not be reimbursable. Please update these plans immediately.</p>",
		count, plural(count, "client", "clients"), htmlList(lines))

	tmpl := &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
	if urgency == string(model.UrgencyUrgent) {
		tmpl.SMSBody = fmt.Sprintf("URGENT: %d %s with treatment plans 30+ days expired. Please log in to update them.",
			count, plural(count, "client", "clients"))
	}
	return tmpl
}

func renderTreatmentPlanSupervisorAlert(data map[string]interface{}) *model.RenderedTemplate {
	count := getInt(data, "count")
	lines := getStrings(data, "clients")

	subject := fmt.Sprintf("Supervisor alert: %d %s with severely overdue treatment plans",
		count, plural(count, "client", "clients"))

	text := fmt.Sprintf(
		"Clinicians you supervise have %d %s whose treatment plans are two weeks or more past renewal:\n\n%s\nPlease follow up with the responsible clinicians.\n",
		count, plural(count, "client", "clients"), bulletList(lines))

	html := fmt.Sprintf(
		"<p>Clinicians you supervise have <strong>%d</strong> %s whose treatment plans are two weeks or more past renewal:</p>%s<p>Please follow up with the responsible clinicians.</p>",
		count, plural(count, "client", "clients"), htmlList(lines))

	return &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
}
