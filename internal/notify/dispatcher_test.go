package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/notify/channel"
	"github.com/clinichq/reminder-engine/internal/notify/template"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/metrics"
)

type fakeAdapter struct {
	name      model.Channel
	available bool
	result    model.ChannelResult
	calls     int
}

func (f *fakeAdapter) Name() model.Channel { return f.name }
func (f *fakeAdapter) IsAvailable() bool   { return f.available }
func (f *fakeAdapter) Send(ctx context.Context, recipient *model.RecipientInfo, tmpl *model.RenderedTemplate, priority model.Priority, referenceID *uuid.UUID) model.ChannelResult {
	f.calls++
	return f.result
}

type fakeStaffRepo struct {
	staff map[uuid.UUID]*model.StaffMember
}

func (f *fakeStaffRepo) Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, errors.New("staff member not found")
	}
	return s, nil
}
func (f *fakeStaffRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.StaffMember, error) {
	var out []*model.StaffMember
	for _, id := range ids {
		if s, ok := f.staff[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeStaffRepo) ListActiveDigestRecipients(ctx context.Context, limit int) ([]*model.StaffMember, error) {
	return nil, nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func (f *fakeClientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, errors.New("client not found")
	}
	return c, nil
}

type fakeScheduledRepo struct {
	created []*model.NotificationRequest
}

func (f *fakeScheduledRepo) Create(ctx context.Context, req *model.NotificationRequest) (uuid.UUID, error) {
	f.created = append(f.created, req)
	return uuid.New(), nil
}

type fakeAuditRepo struct {
	entries []*model.AuditEntry
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func sentResult(ch model.Channel) model.ChannelResult {
	return model.ChannelResult{Channel: ch, Success: true, Status: model.StatusSent, MessageID: "m1"}
}

func failedResult(ch model.Channel, msg string) model.ChannelResult {
	return model.ChannelResult{Channel: ch, Success: false, Status: model.StatusFailed, Error: msg}
}

func newTestDispatcher(adapters []channel.Adapter, staff *fakeStaffRepo, clients *fakeClientRepo, scheduled *fakeScheduledRepo, audit *fakeAuditRepo) Dispatcher {
	return NewDispatcher(
		DispatcherConfig{DefaultChannels: []model.Channel{model.ChannelEmail}},
		template.NewRenderer(),
		adapters,
		staff,
		clients,
		scheduled,
		audit,
		metrics.New("test"),
		logger.NewLogger(nil),
	)
}

func staffFixture() (*fakeStaffRepo, uuid.UUID) {
	id := uuid.New()
	return &fakeStaffRepo{staff: map[uuid.UUID]*model.StaffMember{
		id: {
			ID:                 id,
			FirstName:          "Dana",
			LastName:           "Reyes",
			Email:              "dana@example.com",
			Active:             true,
			EmailNotifications: true,
			SMSNotifications:   true,
		},
	}}, id
}

func TestSendSucceedsWhenAnyChannelSucceeds(t *testing.T) {
	staff, staffID := staffFixture()
	email := &fakeAdapter{name: model.ChannelEmail, available: true, result: failedResult(model.ChannelEmail, "smtp down")}
	sms := &fakeAdapter{name: model.ChannelSMS, available: true, result: sentResult(model.ChannelSMS)}
	audit := &fakeAuditRepo{}

	d := newTestDispatcher([]channel.Adapter{email, sms}, staff, &fakeClientRepo{}, &fakeScheduledRepo{}, audit)

	result, err := d.Send(context.Background(), &model.NotificationRequest{
		Type:          model.TypeNoteOverdue,
		RecipientID:   staffID,
		RecipientKind: model.RecipientStaff,
		Channels:      []model.Channel{model.ChannelEmail, model.ChannelSMS},
		TemplateData:  map[string]interface{}{"count": 1},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.ChannelResults, 2)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1, sms.calls, "email failure must not stop the sms attempt")
	assert.Len(t, audit.entries, 2, "one audit entry per channel attempt")
}

func TestSendFailsWhenAllChannelsFail(t *testing.T) {
	staff, staffID := staffFixture()
	email := &fakeAdapter{name: model.ChannelEmail, available: true, result: failedResult(model.ChannelEmail, "smtp down")}

	d := newTestDispatcher([]channel.Adapter{email}, staff, &fakeClientRepo{}, &fakeScheduledRepo{}, &fakeAuditRepo{})

	result, err := d.Send(context.Background(), &model.NotificationRequest{
		Type:          model.TypeNoteDueSoon,
		RecipientID:   staffID,
		RecipientKind: model.RecipientStaff,
		TemplateData:  map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestSendUsesDefaultChannels(t *testing.T) {
	staff, staffID := staffFixture()
	email := &fakeAdapter{name: model.ChannelEmail, available: true, result: sentResult(model.ChannelEmail)}
	sms := &fakeAdapter{name: model.ChannelSMS, available: true, result: sentResult(model.ChannelSMS)}

	d := newTestDispatcher([]channel.Adapter{email, sms}, staff, &fakeClientRepo{}, &fakeScheduledRepo{}, &fakeAuditRepo{})

	result, err := d.Send(context.Background(), &model.NotificationRequest{
		Type:          model.TypeNoteDueSoon,
		RecipientID:   staffID,
		RecipientKind: model.RecipientStaff,
		TemplateData:  map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Len(t, result.ChannelResults, 1)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 0, sms.calls)
}

func TestSendUnconfiguredChannelFails(t *testing.T) {
	staff, staffID := staffFixture()

	d := newTestDispatcher(nil, staff, &fakeClientRepo{}, &fakeScheduledRepo{}, &fakeAuditRepo{})

	result, err := d.Send(context.Background(), &model.NotificationRequest{
		Type:          model.TypeNoteDueSoon,
		RecipientID:   staffID,
		RecipientKind: model.RecipientStaff,
		Channels:      []model.Channel{model.ChannelPush},
		TemplateData:  map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ChannelResults[0].Error, "not configured")
}

func TestSendFutureScheduledForPersists(t *testing.T) {
	staff, staffID := staffFixture()
	email := &fakeAdapter{name: model.ChannelEmail, available: true, result: sentResult(model.ChannelEmail)}
	scheduled := &fakeScheduledRepo{}

	d := newTestDispatcher([]channel.Adapter{email}, staff, &fakeClientRepo{}, scheduled, &fakeAuditRepo{})

	future := time.Now().Add(2 * time.Hour)
	result, err := d.Send(context.Background(), &model.NotificationRequest{
		Type:          model.TypeAppointmentReminder,
		RecipientID:   staffID,
		RecipientKind: model.RecipientStaff,
		ScheduledFor:  &future,
		TemplateData:  map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.ChannelResults)
	assert.Len(t, scheduled.created, 1)
	assert.Equal(t, 0, email.calls, "future requests are persisted, not delivered")
}

func TestSendInvalidRequest(t *testing.T) {
	d := newTestDispatcher(nil, &fakeStaffRepo{}, &fakeClientRepo{}, &fakeScheduledRepo{}, &fakeAuditRepo{})

	_, err := d.Send(context.Background(), &model.NotificationRequest{})
	require.Error(t, err)
}

func TestSendResolvesClientPreferences(t *testing.T) {
	clientID := uuid.New()
	email := "pat@example.com"
	clients := &fakeClientRepo{clients: map[uuid.UUID]*model.Client{
		clientID: {
			ID:               clientID,
			FirstName:        "Pat",
			LastName:         "Lee",
			Email:            &email,
			OKToLeaveMessage: false,
		},
	}}
	adapter := &fakeAdapter{name: model.ChannelEmail, available: true, result: sentResult(model.ChannelEmail)}

	d := newTestDispatcher([]channel.Adapter{adapter}, &fakeStaffRepo{}, clients, &fakeScheduledRepo{}, &fakeAuditRepo{})

	result, err := d.Send(context.Background(), &model.NotificationRequest{
		Type:          model.TypeAppointmentReminder,
		RecipientID:   clientID,
		RecipientKind: model.RecipientClient,
		TemplateData:  map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
}
