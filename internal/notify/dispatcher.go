// Package notify dispatches notifications across delivery channels.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/notify/channel"
	"github.com/clinichq/reminder-engine/internal/notify/template"
	"github.com/clinichq/reminder-engine/internal/repository"
	apperrors "github.com/clinichq/reminder-engine/pkg/errors"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/metrics"
)

// Dispatcher delivers one notification request across its channels.
type Dispatcher interface {
	Send(ctx context.Context, req *model.NotificationRequest) (*model.NotificationResult, error)
}

type dispatcher struct {
	renderer        *template.Renderer
	adapters        map[model.Channel]channel.Adapter
	defaultChannels []model.Channel
	staffRepo       repository.StaffRepository
	clientRepo      repository.ClientRepository
	scheduledRepo   repository.ScheduledNotificationRepository
	auditRepo       repository.AuditRepository
	validate        *validator.Validate
	metrics         *metrics.Metrics
	logger          *logger.Logger
}

type DispatcherConfig struct {
	DefaultChannels []model.Channel
}

func NewDispatcher(
	cfg DispatcherConfig,
	renderer *template.Renderer,
	adapters []channel.Adapter,
	staffRepo repository.StaffRepository,
	clientRepo repository.ClientRepository,
	scheduledRepo repository.ScheduledNotificationRepository,
	auditRepo repository.AuditRepository,
	m *metrics.Metrics,
	log *logger.Logger,
) Dispatcher {
	byName := make(map[model.Channel]channel.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	defaults := cfg.DefaultChannels
	if len(defaults) == 0 {
		defaults = []model.Channel{model.ChannelEmail}
	}
	return &dispatcher{
		renderer:        renderer,
		adapters:        byName,
		defaultChannels: defaults,
		staffRepo:       staffRepo,
		clientRepo:      clientRepo,
		scheduledRepo:   scheduledRepo,
		auditRepo:       auditRepo,
		validate:        validator.New(),
		metrics:         m,
		logger:          log,
	}
}

func (d *dispatcher) Send(ctx context.Context, req *model.NotificationRequest) (*model.NotificationResult, error) {
	if err := d.validate.Struct(req); err != nil {
		return nil, apperrors.NewBadRequest("invalid notification request", err)
	}

	// Future-dated requests are persisted for a later delivery sweep, not
	// delivered now.
	if req.ScheduledFor != nil && req.ScheduledFor.After(time.Now()) {
		id, err := d.scheduledRepo.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule notification: %w", err)
		}
		return &model.NotificationResult{ID: id, Success: true, Timestamp: time.Now()}, nil
	}

	// Contact identity and preferences are resolved fresh on every send.
	recipient, err := d.resolveRecipient(ctx, req)
	if err != nil {
		return nil, err
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = d.defaultChannels
	}

	tmpl := d.renderer.Render(req.Type, req.TemplateData)

	notificationID := uuid.New()
	results := make([]model.ChannelResult, 0, len(channels))
	for _, ch := range channels {
		result := d.attempt(ctx, ch, recipient, tmpl, req)
		results = append(results, result)
		d.audit(ctx, notificationID, req, result)
	}

	return &model.NotificationResult{
		ID:             notificationID,
		Success:        model.AnySucceeded(results),
		ChannelResults: results,
		Timestamp:      time.Now(),
	}, nil
}

func (d *dispatcher) attempt(ctx context.Context, ch model.Channel, recipient *model.RecipientInfo, tmpl *model.RenderedTemplate, req *model.NotificationRequest) model.ChannelResult {
	adapter, ok := d.adapters[ch]
	if !ok || !adapter.IsAvailable() {
		result := model.ChannelResult{
			Channel: ch,
			Status:  model.StatusFailed,
			Error:   fmt.Sprintf("channel %s is not configured", ch),
		}
		d.metrics.ChannelSends.WithLabelValues(string(ch), string(result.Status)).Inc()
		return result
	}

	result := adapter.Send(ctx, recipient, tmpl, req.Priority, req.ReferenceID)
	d.metrics.ChannelSends.WithLabelValues(string(ch), string(result.Status)).Inc()

	if !result.Success && result.Status == model.StatusFailed {
		d.logger.Warn("channel delivery failed",
			"channel", ch, "type", req.Type, "recipient_id", req.RecipientID, "error", result.Error)
	}
	return result
}

func (d *dispatcher) resolveRecipient(ctx context.Context, req *model.NotificationRequest) (*model.RecipientInfo, error) {
	switch req.RecipientKind {
	case model.RecipientStaff:
		staff, err := d.staffRepo.Get(ctx, req.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve staff recipient: %w", err)
		}
		info := &model.RecipientInfo{
			ID:           staff.ID,
			FirstName:    staff.FirstName,
			LastName:     staff.LastName,
			Email:        staff.Email,
			EmailEnabled: staff.EmailNotifications,
			SMSEnabled:   staff.SMSNotifications,
		}
		if staff.Phone != nil {
			info.Phone = *staff.Phone
		}
		return info, nil

	case model.RecipientClient:
		client, err := d.clientRepo.Get(ctx, req.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve client recipient: %w", err)
		}
		info := &model.RecipientInfo{
			ID:           client.ID,
			FirstName:    client.FirstName,
			LastName:     client.LastName,
			EmailEnabled: true,
			SMSEnabled:   client.OKToLeaveMessage,
		}
		if client.Email != nil {
			info.Email = *client.Email
		}
		if client.Phone != nil {
			info.Phone = *client.Phone
		}
		return info, nil
	}
	return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown recipient kind %q", req.RecipientKind), nil)
}

// audit failures never block delivery; they are logged and dropped.
func (d *dispatcher) audit(ctx context.Context, notificationID uuid.UUID, req *model.NotificationRequest, result model.ChannelResult) {
	entry := &model.AuditEntry{
		NotificationID: notificationID,
		Type:           req.Type,
		RecipientID:    req.RecipientID,
		RecipientKind:  req.RecipientKind,
		Channel:        result.Channel,
		Status:         result.Status,
	}
	if result.Error != "" {
		msg := result.Error
		entry.Error = &msg
	}
	if err := d.auditRepo.Create(ctx, entry); err != nil {
		d.logger.Error(err, "failed to write notification audit entry", "notification_id", notificationID)
	}
}
