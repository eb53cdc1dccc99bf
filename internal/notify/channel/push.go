package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/messaging"
)

// InAppTopic is the broker topic the push channel publishes to. Frontend
// services subscribe to it for their notification inbox; ConsumeInApp
// attaches engine-side consumers.
const InAppTopic = "notifications:inapp"

// InAppEvent is the message published for in-app notification consumers.
type InAppEvent struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Priority    string `json:"priority"`
	ReferenceID string `json:"reference_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type pushAdapter struct {
	broker messaging.Broker
	logger *logger.Logger
}

// NewPushAdapter publishes in-app notification events through the message
// broker. A nil broker leaves the adapter unavailable.
func NewPushAdapter(broker messaging.Broker, log *logger.Logger) Adapter {
	return &pushAdapter{broker: broker, logger: log}
}

func (a *pushAdapter) Name() model.Channel {
	return model.ChannelPush
}

func (a *pushAdapter) IsAvailable() bool {
	return a.broker != nil
}

func (a *pushAdapter) Send(ctx context.Context, recipient *model.RecipientInfo, tmpl *model.RenderedTemplate, priority model.Priority, referenceID *uuid.UUID) model.ChannelResult {
	event := InAppEvent{
		ID:          uuid.NewString(),
		RecipientID: recipient.ID.String(),
		Subject:     tmpl.Subject,
		Body:        tmpl.TextBody,
		Priority:    string(priority),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if referenceID != nil {
		event.ReferenceID = referenceID.String()
	}

	if err := a.broker.Publish(ctx, InAppTopic, event); err != nil {
		a.logger.Error(err, "push publish failed", "recipient_id", recipient.ID)
		return failed(model.ChannelPush, fmt.Sprintf("broker publish: %v", err))
	}

	return sent(model.ChannelPush, event.ID)
}
