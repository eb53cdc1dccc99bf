package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/clinichq/reminder-engine/internal/repository"
)

type clinicalNoteRepository struct {
	db *sqlx.DB
}

type appointmentReminderRepository struct {
	db *sqlx.DB
}

type treatmentPlanRepository struct {
	db *sqlx.DB
}

type staffRepository struct {
	db *sqlx.DB
}

type clientRepository struct {
	db *sqlx.DB
}

type trackingRepository struct {
	db *sqlx.DB
}

type auditRepository struct {
	db *sqlx.DB
}

type scheduledNotificationRepository struct {
	db *sqlx.DB
}

func NewClinicalNoteRepository(db *sqlx.DB) repository.ClinicalNoteRepository {
	return &clinicalNoteRepository{db: db}
}

func NewAppointmentReminderRepository(db *sqlx.DB) repository.AppointmentReminderRepository {
	return &appointmentReminderRepository{db: db}
}

func NewTreatmentPlanRepository(db *sqlx.DB) repository.TreatmentPlanRepository {
	return &treatmentPlanRepository{db: db}
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func NewTrackingRepository(db *sqlx.DB) repository.ReminderTrackingRepository {
	return &trackingRepository{db: db}
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func NewScheduledNotificationRepository(db *sqlx.DB) repository.ScheduledNotificationRepository {
	return &scheduledNotificationRepository{db: db}
}

// NewDB connects to Postgres and verifies the connection.
func NewDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
