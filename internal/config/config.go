package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Config is the engine's file configuration: job schedules, domain
// thresholds, and channel defaults. Transport credentials come from the
// environment (see Env).
type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Jobs   JobsConfig   `mapstructure:"jobs"`
}

type EngineConfig struct {
	DefaultChannels []string `mapstructure:"default_channels"`
	MetricsPath     string   `mapstructure:"metrics_path"`
	Port            int      `mapstructure:"port"`
	DashboardURL    string   `mapstructure:"dashboard_url"`
	PracticeName    string   `mapstructure:"practice_name"`
}

type JobsConfig struct {
	AppointmentReminders AppointmentJobConfig  `mapstructure:"appointment_reminders"`
	ClinicalNotes        ClinicalJobConfig     `mapstructure:"clinical_notes"`
	Cosign               CosignJobConfig       `mapstructure:"cosign"`
	TreatmentPlans       TreatmentPlanJobConfig `mapstructure:"treatment_plans"`
	DailyDigest          DigestJobConfig       `mapstructure:"daily_digest"`
}

// JobConfig carries the scheduling knobs common to every job.
type JobConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

type AppointmentJobConfig struct {
	JobConfig `mapstructure:",squash"`
}

type ClinicalJobConfig struct {
	JobConfig          `mapstructure:",squash"`
	DueSoonHours       int           `mapstructure:"due_soon_hours"`
	EscalatedAfterDays int           `mapstructure:"escalated_after_days"`
	CriticalAfterDays  int           `mapstructure:"critical_after_days"`
	Cooldown           time.Duration `mapstructure:"cooldown"`
}

type CosignJobConfig struct {
	JobConfig `mapstructure:",squash"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
}

type TreatmentPlanJobConfig struct {
	JobConfig               `mapstructure:",squash"`
	ValidityDays            int `mapstructure:"validity_days"`
	FirstReminderDaysBefore int `mapstructure:"first_reminder_days_before"`
	CooldownDays            int `mapstructure:"cooldown_days"`
	CriticalAfterDays       int `mapstructure:"critical_after_days"`
	UrgentAfterDays         int `mapstructure:"urgent_after_days"`
	SupervisorAlertAfterDays int `mapstructure:"supervisor_alert_after_days"`
}

type DigestJobConfig struct {
	JobConfig    `mapstructure:",squash"`
	DueSoonHours int `mapstructure:"due_soon_hours"`
}

// Env holds credentials and connection strings sourced from the environment.
type Env struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`

	SMSAccountSID  string  `envconfig:"SMS_ACCOUNT_SID"`
	SMSAuthToken   string  `envconfig:"SMS_AUTH_TOKEN"`
	SMSFromNumber  string  `envconfig:"SMS_FROM_NUMBER"`
	SMSRatePerSec  float64 `envconfig:"SMS_RATE_PER_SEC" default:"1"`
}

// LoadConfig reads config.yaml from the usual locations.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app/config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadEnv reads transport credentials from the environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &env, nil
}

func (c *Config) applyDefaults() {
	if len(c.Engine.DefaultChannels) == 0 {
		c.Engine.DefaultChannels = []string{"email"}
	}
	if c.Engine.MetricsPath == "" {
		c.Engine.MetricsPath = "/metrics"
	}
	if c.Engine.Port == 0 {
		c.Engine.Port = 8080
	}

	applyJobDefaults(&c.Jobs.AppointmentReminders.JobConfig, 5*time.Minute, 100)
	applyJobDefaults(&c.Jobs.ClinicalNotes.JobConfig, time.Hour, 50)
	applyJobDefaults(&c.Jobs.Cosign.JobConfig, 24*time.Hour, 50)
	applyJobDefaults(&c.Jobs.TreatmentPlans.JobConfig, 24*time.Hour, 100)
	applyJobDefaults(&c.Jobs.DailyDigest.JobConfig, 24*time.Hour, 200)

	if c.Jobs.ClinicalNotes.DueSoonHours == 0 {
		c.Jobs.ClinicalNotes.DueSoonHours = 24
	}
	if c.Jobs.ClinicalNotes.EscalatedAfterDays == 0 {
		c.Jobs.ClinicalNotes.EscalatedAfterDays = 3
	}
	if c.Jobs.ClinicalNotes.CriticalAfterDays == 0 {
		c.Jobs.ClinicalNotes.CriticalAfterDays = 7
	}
	if c.Jobs.ClinicalNotes.Cooldown == 0 {
		c.Jobs.ClinicalNotes.Cooldown = 24 * time.Hour
	}
	if c.Jobs.Cosign.Cooldown == 0 {
		c.Jobs.Cosign.Cooldown = 24 * time.Hour
	}

	tp := &c.Jobs.TreatmentPlans
	if tp.ValidityDays == 0 {
		tp.ValidityDays = 90
	}
	if tp.FirstReminderDaysBefore == 0 {
		tp.FirstReminderDaysBefore = 30
	}
	if tp.CooldownDays == 0 {
		tp.CooldownDays = 7
	}
	if tp.CriticalAfterDays == 0 {
		tp.CriticalAfterDays = 14
	}
	if tp.UrgentAfterDays == 0 {
		tp.UrgentAfterDays = 30
	}
	if tp.SupervisorAlertAfterDays == 0 {
		tp.SupervisorAlertAfterDays = 14
	}

	if c.Jobs.DailyDigest.DueSoonHours == 0 {
		c.Jobs.DailyDigest.DueSoonHours = 72
	}
}

func applyJobDefaults(jc *JobConfig, interval time.Duration, batchSize int) {
	if jc.Interval == 0 {
		jc.Interval = interval
	}
	if jc.BatchSize == 0 {
		jc.BatchSize = batchSize
	}
}
