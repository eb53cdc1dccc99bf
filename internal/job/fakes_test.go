package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

// fakeDispatcher records requests and replies with a programmable result.
type fakeDispatcher struct {
	mu       sync.Mutex
	requests []*model.NotificationRequest
	fail     bool
	cancel   bool
}

func (f *fakeDispatcher) Send(ctx context.Context, req *model.NotificationRequest) (*model.NotificationResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	status := model.StatusSent
	success := true
	errMsg := ""
	switch {
	case f.fail:
		status, success, errMsg = model.StatusFailed, false, "smtp down"
	case f.cancel:
		status, success, errMsg = model.StatusCancelled, false, "recipient has email notifications disabled"
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = []model.Channel{model.ChannelEmail}
	}
	results := make([]model.ChannelResult, 0, len(channels))
	for _, ch := range channels {
		results = append(results, model.ChannelResult{Channel: ch, Success: success, Status: status, Error: errMsg})
	}

	return &model.NotificationResult{
		ID:             uuid.New(),
		Success:        success,
		ChannelResults: results,
		Timestamp:      time.Now(),
	}, nil
}

func (f *fakeDispatcher) sent() []*model.NotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.NotificationRequest(nil), f.requests...)
}

// fakeTracking is an in-memory tracking store keyed like the table.
type fakeTracking struct {
	records map[string]*model.ReminderTracking
}

func newFakeTracking() *fakeTracking {
	return &fakeTracking{records: make(map[string]*model.ReminderTracking)}
}

func trackingKey(domain string, entityID, recipientID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", domain, entityID, recipientID)
}

func (f *fakeTracking) Get(ctx context.Context, domain string, entityID, recipientID uuid.UUID) (*model.ReminderTracking, error) {
	return f.records[trackingKey(domain, entityID, recipientID)], nil
}

func (f *fakeTracking) ListForRecipient(ctx context.Context, domain string, recipientID uuid.UUID) ([]*model.ReminderTracking, error) {
	var out []*model.ReminderTracking
	for _, t := range f.records {
		if t.Domain == domain && t.RecipientID == recipientID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTracking) Upsert(ctx context.Context, domain string, entityID, recipientID uuid.UUID, sentAt time.Time, overdue bool) error {
	key := trackingKey(domain, entityID, recipientID)
	if existing, ok := f.records[key]; ok {
		if sentAt.After(existing.LastReminderSent) {
			existing.LastReminderSent = sentAt
		}
		existing.ReminderCount++
		existing.Overdue = overdue
		return nil
	}
	f.records[key] = &model.ReminderTracking{
		ID:               uuid.New(),
		Domain:           domain,
		EntityID:         entityID,
		RecipientID:      recipientID,
		LastReminderSent: sentAt,
		ReminderCount:    1,
		Overdue:          overdue,
	}
	return nil
}

type fakeStaff struct {
	staff     map[uuid.UUID]*model.StaffMember
	getCalls  int
	listCalls int
}

func (f *fakeStaff) Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	f.getCalls++
	s, ok := f.staff[id]
	if !ok {
		return nil, errors.New("staff member not found")
	}
	return s, nil
}

func (f *fakeStaff) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.StaffMember, error) {
	f.listCalls++
	var out []*model.StaffMember
	for _, id := range ids {
		if s, ok := f.staff[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStaff) ListActiveDigestRecipients(ctx context.Context, limit int) ([]*model.StaffMember, error) {
	var out []*model.StaffMember
	for _, s := range f.staff {
		if s.Active && s.DigestEnabled && s.EmailNotifications {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeNotes struct {
	dueSoon       []*model.ClinicalNote
	overdue       []*model.ClinicalNote
	pendingCosign []*model.ClinicalNote
	digest        map[uuid.UUID]model.DigestCounts
	dueToday      map[uuid.UUID][]*model.ClinicalNote
	overdueFor    map[uuid.UUID][]*model.ClinicalNote
}

func (f *fakeNotes) ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]*model.ClinicalNote, error) {
	return f.dueSoon, nil
}

func (f *fakeNotes) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*model.ClinicalNote, error) {
	return f.overdue, nil
}

func (f *fakeNotes) ListPendingCosign(ctx context.Context, limit int) ([]*model.ClinicalNote, error) {
	return f.pendingCosign, nil
}

func (f *fakeNotes) CountDigest(ctx context.Context, clinicianID uuid.UUID, now time.Time, dueSoonWindow time.Duration) (model.DigestCounts, error) {
	return f.digest[clinicianID], nil
}

func (f *fakeNotes) ListDueToday(ctx context.Context, clinicianID uuid.UUID, now time.Time, limit int) ([]*model.ClinicalNote, error) {
	return f.dueToday[clinicianID], nil
}

func (f *fakeNotes) ListOverdueForClinician(ctx context.Context, clinicianID uuid.UUID, now time.Time, limit int) ([]*model.ClinicalNote, error) {
	return f.overdueFor[clinicianID], nil
}

type fakePlans struct {
	standings []*model.TreatmentPlanStanding
}

func (f *fakePlans) ListStandings(ctx context.Context, now time.Time, validityDays, firstReminderDaysBefore, limit int) ([]*model.TreatmentPlanStanding, error) {
	return f.standings, nil
}

type fakeReminders struct {
	pending []*model.AppointmentReminder
	sent    []uuid.UUID
	failed  map[uuid.UUID]string
	skipped map[uuid.UUID]string
}

func newFakeReminders(pending ...*model.AppointmentReminder) *fakeReminders {
	return &fakeReminders{
		pending: pending,
		failed:  make(map[uuid.UUID]string),
		skipped: make(map[uuid.UUID]string),
	}
}

func (f *fakeReminders) ListPending(ctx context.Context, now time.Time, limit int) ([]*model.AppointmentReminder, error) {
	return f.pending, nil
}

func (f *fakeReminders) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeReminders) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	f.failed[id] = reason
	return nil
}

func (f *fakeReminders) MarkSkipped(ctx context.Context, id uuid.UUID, reason string) error {
	f.skipped[id] = reason
	return nil
}

func activeStaff(id uuid.UUID) *model.StaffMember {
	return &model.StaffMember{
		ID:                 id,
		FirstName:          "Alex",
		LastName:           "Kim",
		Email:              "alex@example.com",
		Active:             true,
		EmailNotifications: true,
		SMSNotifications:   true,
		DigestEnabled:      true,
	}
}
