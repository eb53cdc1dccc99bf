package channel

import (
	"context"
	"encoding/json"

	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/messaging"
)

// ConsumeInApp subscribes to the in-app notification topic and feeds each
// event to handler until ctx is cancelled or the broker closes the
// subscription. The engine uses it for delivery tracing.
func ConsumeInApp(ctx context.Context, broker messaging.Broker, handler func(InAppEvent), log *logger.Logger) error {
	msgs, err := broker.Subscribe(ctx, InAppTopic)
	if err != nil {
		return err
	}

	go func() {
		for raw := range msgs {
			var event InAppEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				log.Warn("dropping malformed in-app event", "error", err.Error())
				continue
			}
			handler(event)
		}
	}()

	return nil
}
