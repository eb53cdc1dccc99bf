package template

import (
	"fmt"

	"github.com/clinichq/reminder-engine/internal/model"
)

func renderNoteDueSoon(data map[string]interface{}) *model.RenderedTemplate {
	count := getInt(data, "count")
	windowHours := getInt(data, "window_hours")
	lines := getStrings(data, "notes")

	subject := fmt.Sprintf("%d clinical %s due within %d hours",
		count, plural(count, "note", "notes"), windowHours)

	text := fmt.Sprintf(
		"You have %d clinical %s due within the next %d hours:\n\n%s\nPlease complete your documentation before the deadline.\n",
		count, plural(count, "note", "notes"), windowHours, bulletList(lines))

	html := fmt.Sprintf(
		"<p>You have <strong>%d</strong> clinical %s due within the next %d hours:</p>%s<p>Please complete your documentation before the deadline.</p>",
		count, plural(count, "note", "notes"), windowHours, htmlList(lines))

	return &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
}

func renderNoteOverdue(data map[string]interface{}) *model.RenderedTemplate {
	urgency := getString(data, "urgency")
	count := getInt(data, "count")
	maxDays := getInt(data, "max_days_overdue")
	lines := getStrings(data, "notes")

	subject := fmt.Sprintf("[%s] %d overdue clinical %s",
		urgency, count, plural(count, "note", "notes"))

	text := fmt.Sprintf(
		"You have %d overdue clinical %s, the oldest %d %s past due:\n\n%s\nOverdue documentation is a compliance risk. Please address these notes today.\n",
		count, plural(count, "note", "notes"), maxDays, plural(maxDays, "day", "days"), bulletList(lines))

	html := fmt.Sprintf(
		"<p>You have <strong>%d</strong> overdue clinical %s, the oldest <strong>%d</strong> %s past due:</p>%s<p>Overdue documentation is a compliance risk. Please address these notes today.</p>",
		count, plural(count, "note", "notes"), maxDays, plural(maxDays, "day", "days"), htmlList(lines))

	tmpl := &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
	if urgency == string(model.UrgencyCritical) {
		tmpl.SMSBody = fmt.Sprintf("CRITICAL: %d overdue clinical %s (oldest %dd past due). Please log in to complete them.",
			count, plural(count, "note", "notes"), maxDays)
	}
	return tmpl
}

func renderNotePendingCosign(data map[string]interface{}) *model.RenderedTemplate {
	count := getInt(data, "count")
	lines := getStrings(data, "notes")

	subject := fmt.Sprintf("%d %s awaiting your co-signature",
		count, plural(count, "note", "notes"))

	text := fmt.Sprintf(
		"The following %s your co-signature:\n\n%s\nPlease review and co-sign at your earliest convenience.\n",
		plural(count, "note awaits", "notes await"), bulletList(lines))

	html := fmt.Sprintf(
		"<p>The following %s your co-signature:</p>%s<p>Please review and co-sign at your earliest convenience.</p>",
		plural(count, "note awaits", "notes await"), htmlList(lines))

	return &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
}

func renderNoteDailyDigest(data map[string]interface{}) *model.RenderedTemplate {
	dueToday := getInt(data, "due_today")
	dueSoon := getInt(data, "due_soon")
	overdue := getInt(data, "overdue")
	pendingCosign := getInt(data, "pending_cosign")
	dueTodayNotes := getStrings(data, "due_today_notes")
	overdueNotes := getStrings(data, "overdue_notes")
	practice := getString(data, "practice_name")
	dashboardURL := getString(data, "dashboard_url")

	subject := "Your daily documentation summary"
	if practice != "" {
		subject = fmt.Sprintf("%s: your daily documentation summary", practice)
	}

	text := fmt.Sprintf(
		"Good morning,\n\nHere is your documentation summary:\n\n  Due today:          %d\n  Due soon:           %d\n  Overdue:            %d\n  Pending co-sign:    %d\n",
		dueToday, dueSoon, overdue, pendingCosign)
	html := fmt.Sprintf(
		"<p>Good morning,</p><p>Here is your documentation summary:</p><ul><li>Due today: <strong>%d</strong></li><li>Due soon: <strong>%d</strong></li><li>Overdue: <strong>%d</strong></li><li>Pending co-sign: <strong>%d</strong></li></ul>",
		dueToday, dueSoon, overdue, pendingCosign)

	if len(dueTodayNotes) > 0 {
		text += fmt.Sprintf("\nDue today:\n\n%s", bulletList(dueTodayNotes))
		html += fmt.Sprintf("<p>Due today:</p>%s", htmlList(dueTodayNotes))
	}
	if len(overdueNotes) > 0 {
		text += fmt.Sprintf("\nOverdue:\n\n%s", bulletList(overdueNotes))
		html += fmt.Sprintf("<p>Overdue:</p>%s", htmlList(overdueNotes))
	}

	if dashboardURL != "" {
		text += fmt.Sprintf("\nReview your outstanding notes: %s\n", dashboardURL)
		html += fmt.Sprintf("<p><a href=\"%s\">Review your outstanding notes</a></p>", htmlEscape(dashboardURL))
	} else {
		text += "\nLog in to review your outstanding notes.\n"
		html += "<p>Log in to review your outstanding notes.</p>"
	}

	return &model.RenderedTemplate{Subject: subject, TextBody: text, HTMLBody: html}
}
