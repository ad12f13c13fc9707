package application

import (
	"context"
	"fmt"

	"customizer-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes webhook events for the topics it declares.
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to registered handlers.
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a dispatcher with no handlers registered.
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler to the dispatch chain.
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch delivers the event to every handler claiming its topic. An event
// no handler claims is logged and dropped, not an error.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	handled := false
	for _, handler := range d.handlers {
		if !handler.CanHandle(event.Topic) {
			continue
		}
		handled = true
		if err := handler.Handle(ctx, event); err != nil {
			return fmt.Errorf("webhook handler failed for topic %s: %w", event.Topic, err)
		}
	}

	if !handled {
		d.logger.Warn().Str("topic", event.Topic).Str("shop", event.Shop).Msg("no handler for webhook topic")
	}
	return nil
}
