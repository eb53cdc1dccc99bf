// Package channel implements the delivery adapters for each notification
// medium. Adapters never return transport errors to the caller; every
// attempt is captured in a ChannelResult so other channels still run.
package channel

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinichq/reminder-engine/internal/model"
)

// Adapter delivers a rendered notification over one medium.
type Adapter interface {
	Name() model.Channel
	IsAvailable() bool
	Send(ctx context.Context, recipient *model.RecipientInfo, tmpl *model.RenderedTemplate, priority model.Priority, referenceID *uuid.UUID) model.ChannelResult
}

func failed(ch model.Channel, msg string) model.ChannelResult {
	return model.ChannelResult{Channel: ch, Success: false, Status: model.StatusFailed, Error: msg}
}

func cancelled(ch model.Channel, msg string) model.ChannelResult {
	return model.ChannelResult{Channel: ch, Success: false, Status: model.StatusCancelled, Error: msg}
}

func sent(ch model.Channel, messageID string) model.ChannelResult {
	return model.ChannelResult{Channel: ch, Success: true, Status: model.StatusSent, MessageID: messageID}
}
