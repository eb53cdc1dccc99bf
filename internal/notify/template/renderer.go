package template

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/clinichq/reminder-engine/internal/model"
)

// RenderFunc produces channel-agnostic bodies from a template data map.
// Render funcs must tolerate missing keys; helpers below return zero values.
type RenderFunc func(data map[string]interface{}) *model.RenderedTemplate

// Renderer maps notification types to render funcs. Unknown types fall back
// to a generic rendering of the raw data, so Render never fails.
type Renderer struct {
	registry map[model.NotificationType]RenderFunc
}

// NewRenderer builds a renderer with every built-in template registered.
func NewRenderer() *Renderer {
	r := &Renderer{registry: make(map[model.NotificationType]RenderFunc)}
	r.Register(model.TypeAppointmentReminder, renderAppointmentReminder)
	r.Register(model.TypeNoteDueSoon, renderNoteDueSoon)
	r.Register(model.TypeNoteOverdue, renderNoteOverdue)
	r.Register(model.TypeNotePendingCosign, renderNotePendingCosign)
	r.Register(model.TypeNoteDailyDigest, renderNoteDailyDigest)
	r.Register(model.TypeTreatmentPlanDueSoon, renderTreatmentPlanDueSoon)
	r.Register(model.TypeTreatmentPlanOverdue, renderTreatmentPlanOverdue)
	r.Register(model.TypeTreatmentPlanSupervisorAlert, renderTreatmentPlanSupervisorAlert)
	return r
}

func (r *Renderer) Register(t model.NotificationType, fn RenderFunc) {
	r.registry[t] = fn
}

func (r *Renderer) Render(t model.NotificationType, data map[string]interface{}) *model.RenderedTemplate {
	if fn, ok := r.registry[t]; ok {
		return fn(data)
	}
	return renderGeneric(t, data)
}

// renderGeneric serializes the data map into a readable body. Keys are
// sorted so output is stable.
func renderGeneric(t model.NotificationType, data map[string]interface{}) *model.RenderedTemplate {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v, err := json.Marshal(data[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%v", data[k]))
		}
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}

	subject := fmt.Sprintf("Notification: %s", t)
	return &model.RenderedTemplate{
		Subject:  subject,
		TextBody: b.String(),
		HTMLBody: "<p>" + htmlEscape(strings.TrimRight(b.String(), "\n")) + "</p>",
	}
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getStrings(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	}
	return nil
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func bulletList(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("  - ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func htmlList(lines []string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, line := range lines {
		b.WriteString("<li>")
		b.WriteString(htmlEscape(line))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
