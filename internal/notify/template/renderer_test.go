package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinichq/reminder-engine/internal/model"
)

func TestRenderUnknownTypeFallsBack(t *testing.T) {
	r := NewRenderer()

	tmpl := r.Render(model.NotificationType("some_future_type"), map[string]interface{}{
		"client_name": "Jane Doe",
		"count":       3,
	})

	assert.NotNil(t, tmpl)
	assert.Contains(t, tmpl.Subject, "some_future_type")
	assert.Contains(t, tmpl.TextBody, "client_name")
	assert.Contains(t, tmpl.TextBody, "Jane Doe")
	assert.Contains(t, tmpl.TextBody, "count")
}

func TestRenderGenericStableOrdering(t *testing.T) {
	r := NewRenderer()

	data := map[string]interface{}{"b": 2, "a": 1, "c": 3}
	first := r.Render(model.NotificationType("unknown"), data)
	second := r.Render(model.NotificationType("unknown"), data)

	assert.Equal(t, first.TextBody, second.TextBody)
}

func TestRenderAppointmentReminder(t *testing.T) {
	r := NewRenderer()

	tmpl := r.Render(model.TypeAppointmentReminder, map[string]interface{}{
		"client_name":    "Jane Doe",
		"clinician_name": "Dr. Smith",
		"start_time":     "Mar 5 at 2:00 PM",
		"location":       "telehealth",
	})

	assert.Contains(t, tmpl.Subject, "Mar 5 at 2:00 PM")
	assert.Contains(t, tmpl.TextBody, "Jane Doe")
	assert.Contains(t, tmpl.TextBody, "Dr. Smith")
	assert.Contains(t, tmpl.HTMLBody, "Dr. Smith")
	assert.NotEmpty(t, tmpl.SMSBody)
	assert.Contains(t, tmpl.SMSBody, "Dr. Smith")
}

func TestRenderNoteOverdueEscalation(t *testing.T) {
	r := NewRenderer()

	data := map[string]interface{}{
		"urgency":          string(model.UrgencyCritical),
		"count":            2,
		"max_days_overdue": 9,
		"notes":            []string{"Jane Doe (progress note, 9 days)", "John Roe (intake, 7 days)"},
	}
	tmpl := r.Render(model.TypeNoteOverdue, data)

	assert.Contains(t, tmpl.Subject, "CRITICAL")
	assert.Contains(t, tmpl.Subject, "2 overdue")
	assert.Contains(t, tmpl.TextBody, "Jane Doe")
	assert.NotEmpty(t, tmpl.SMSBody, "critical tier carries an SMS variant")

	data["urgency"] = string(model.UrgencyWarning)
	tmpl = r.Render(model.TypeNoteOverdue, data)
	assert.Contains(t, tmpl.Subject, "WARNING")
	assert.Empty(t, tmpl.SMSBody, "warning tier is email only")
}

func TestRenderDigest(t *testing.T) {
	r := NewRenderer()

	tmpl := r.Render(model.TypeNoteDailyDigest, map[string]interface{}{
		"due_today":      1,
		"due_soon":       2,
		"overdue":        0,
		"pending_cosign": 4,
	})

	assert.Equal(t, "Your daily documentation summary", tmpl.Subject)
	assert.Contains(t, tmpl.TextBody, "Pending co-sign:    4")
	assert.Contains(t, tmpl.HTMLBody, "<strong>2</strong>")
	assert.Contains(t, tmpl.TextBody, "Log in to review", "no dashboard link without a configured URL")
}

func TestRenderDigestWithDetailAndDashboard(t *testing.T) {
	r := NewRenderer()

	tmpl := r.Render(model.TypeNoteDailyDigest, map[string]interface{}{
		"due_today":       1,
		"due_soon":        0,
		"overdue":         1,
		"pending_cosign":  0,
		"due_today_notes": []string{"Jane Doe (progress note, due 3:00 PM)"},
		"overdue_notes":   []string{"John Roe (intake note, 3 days overdue)"},
		"practice_name":   "ClinicHQ",
		"dashboard_url":   "https://app.clinichq.example/notes",
	})

	assert.Equal(t, "ClinicHQ: your daily documentation summary", tmpl.Subject)
	assert.Contains(t, tmpl.TextBody, "  - Jane Doe (progress note, due 3:00 PM)")
	assert.Contains(t, tmpl.TextBody, "  - John Roe (intake note, 3 days overdue)")
	assert.Contains(t, tmpl.TextBody, "https://app.clinichq.example/notes")
	assert.Contains(t, tmpl.HTMLBody, `<a href="https://app.clinichq.example/notes">`)
	assert.NotContains(t, tmpl.TextBody, "Log in to review")
}

func TestRenderSingularPlural(t *testing.T) {
	r := NewRenderer()

	tmpl := r.Render(model.TypeNotePendingCosign, map[string]interface{}{
		"count": 1,
		"notes": []string{"Jane Doe (progress note)"},
	})

	assert.Contains(t, tmpl.Subject, "1 note awaiting")
}
