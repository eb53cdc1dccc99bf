package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	assert.Equal(t, []string{"email"}, cfg.Engine.DefaultChannels)
	assert.Equal(t, 8080, cfg.Engine.Port)

	assert.Equal(t, 5*time.Minute, cfg.Jobs.AppointmentReminders.Interval)
	assert.Equal(t, 24, cfg.Jobs.ClinicalNotes.DueSoonHours)
	assert.Equal(t, 3, cfg.Jobs.ClinicalNotes.EscalatedAfterDays)
	assert.Equal(t, 7, cfg.Jobs.ClinicalNotes.CriticalAfterDays)
	assert.Equal(t, 24*time.Hour, cfg.Jobs.ClinicalNotes.Cooldown)

	tp := cfg.Jobs.TreatmentPlans
	assert.Equal(t, 90, tp.ValidityDays)
	assert.Equal(t, 30, tp.FirstReminderDaysBefore)
	assert.Equal(t, 7, tp.CooldownDays)
	assert.Equal(t, 14, tp.CriticalAfterDays)
	assert.Equal(t, 30, tp.UrgentAfterDays)
	assert.Equal(t, 14, tp.SupervisorAlertAfterDays)

	assert.Equal(t, 72, cfg.Jobs.DailyDigest.DueSoonHours)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	var cfg Config
	cfg.Jobs.ClinicalNotes.DueSoonHours = 48
	cfg.Jobs.TreatmentPlans.ValidityDays = 180
	cfg.applyDefaults()

	assert.Equal(t, 48, cfg.Jobs.ClinicalNotes.DueSoonHours)
	assert.Equal(t, 180, cfg.Jobs.TreatmentPlans.ValidityDays)
}
