package job

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/reminder-engine/internal/config"
	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/logger"
)

func digestCfg() config.DigestJobConfig {
	return config.DigestJobConfig{
		JobConfig:    config.JobConfig{Enabled: true, BatchSize: 200},
		DueSoonHours: 72,
	}
}

func TestDigestJobSendsCounts(t *testing.T) {
	clinicianID := uuid.New()
	notes := &fakeNotes{digest: map[uuid.UUID]model.DigestCounts{
		clinicianID: {DueToday: 1, DueSoon: 2, Overdue: 0, PendingCosign: 3},
	}}
	staff := &fakeStaff{staff: map[uuid.UUID]*model.StaffMember{clinicianID: activeStaff(clinicianID)}}
	dispatcher := &fakeDispatcher{}

	j := NewDigestJob(notes, staff, dispatcher, digestCfg(), config.EngineConfig{}, logger.NewLogger(nil))
	result, err := j.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	require.Len(t, dispatcher.sent(), 1)
	req := dispatcher.sent()[0]
	assert.Equal(t, model.TypeNoteDailyDigest, req.Type)
	assert.Equal(t, []model.Channel{model.ChannelEmail}, req.Channels)
	assert.Equal(t, 2, req.TemplateData["due_soon"])
	assert.Equal(t, 3, req.TemplateData["pending_cosign"])
}

func TestDigestJobSkipsEmptyCounts(t *testing.T) {
	clinicianID := uuid.New()
	notes := &fakeNotes{digest: map[uuid.UUID]model.DigestCounts{clinicianID: {}}}
	staff := &fakeStaff{staff: map[uuid.UUID]*model.StaffMember{clinicianID: activeStaff(clinicianID)}}
	dispatcher := &fakeDispatcher{}

	j := NewDigestJob(notes, staff, dispatcher, digestCfg(), config.EngineConfig{}, logger.NewLogger(nil))
	result, err := j.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Skipped, "a clinician with nothing outstanding gets no email")
	assert.Empty(t, dispatcher.sent())
}

func TestDigestJobOnlyOptedInRecipients(t *testing.T) {
	optedIn := uuid.New()
	optedOut := uuid.New()
	noDigest := activeStaff(optedOut)
	noDigest.DigestEnabled = false

	notes := &fakeNotes{digest: map[uuid.UUID]model.DigestCounts{
		optedIn:  {Overdue: 1},
		optedOut: {Overdue: 5},
	}}
	staff := &fakeStaff{staff: map[uuid.UUID]*model.StaffMember{
		optedIn:  activeStaff(optedIn),
		optedOut: noDigest,
	}}
	dispatcher := &fakeDispatcher{}

	j := NewDigestJob(notes, staff, dispatcher, digestCfg(), config.EngineConfig{}, logger.NewLogger(nil))
	result, err := j.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, dispatcher.sent(), 1)
	assert.Equal(t, optedIn, dispatcher.sent()[0].RecipientID)
}

func TestDigestJobIncludesDetailAndDashboardLink(t *testing.T) {
	clinicianID := uuid.New()
	now := time.Now()
	notes := &fakeNotes{
		digest: map[uuid.UUID]model.DigestCounts{
			clinicianID: {DueToday: 1, Overdue: 1},
		},
		dueToday:   map[uuid.UUID][]*model.ClinicalNote{clinicianID: {noteFor(clinicianID, now.Add(2 * time.Hour))}},
		overdueFor: map[uuid.UUID][]*model.ClinicalNote{clinicianID: {noteFor(clinicianID, now.Add(-72 * time.Hour))}},
	}
	staff := &fakeStaff{staff: map[uuid.UUID]*model.StaffMember{clinicianID: activeStaff(clinicianID)}}
	dispatcher := &fakeDispatcher{}
	engine := config.EngineConfig{
		DashboardURL: "https://app.clinichq.example/notes",
		PracticeName: "ClinicHQ",
	}

	j := NewDigestJob(notes, staff, dispatcher, digestCfg(), engine, logger.NewLogger(nil))
	result, err := j.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	require.Len(t, dispatcher.sent(), 1)
	data := dispatcher.sent()[0].TemplateData
	assert.Equal(t, "ClinicHQ", data["practice_name"])
	assert.Equal(t, "https://app.clinichq.example/notes", data["dashboard_url"])
	require.Len(t, data["due_today_notes"], 1)
	assert.Contains(t, data["due_today_notes"].([]string)[0], "Jane Doe")
	require.Len(t, data["overdue_notes"], 1)
	assert.Contains(t, data["overdue_notes"].([]string)[0], "3 days overdue")
}
