package webhook_handlers

import (
	"context"
	"encoding/json"

	"customizer-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// OrderHandler observes order creation events and logs orders containing
// customized line items.
type OrderHandler struct {
	logger zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler
func NewOrderHandler(logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{logger: logger}
}

// CanHandle returns true if this handler can process the given topic
func (h *OrderHandler) CanHandle(topic string) bool {
	return topic == "orders/create"
}

// Handle scans line items for design attributes and logs the matches.
func (h *OrderHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var order struct {
		ID        int64 `json:"id"`
		LineItems []struct {
			Title      string `json:"title"`
			Properties []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"properties"`
		} `json:"line_items"`
	}
	if err := json.Unmarshal(event.Payload, &order); err != nil {
		h.logger.Warn().Err(err).Str("shop", event.Shop).Msg("unparseable order webhook payload")
		return nil
	}

	for _, item := range order.LineItems {
		for _, prop := range item.Properties {
			if prop.Name == "design_id" {
				h.logger.Info().
					Str("shop", event.Shop).
					Int64("orderId", order.ID).
					Str("lineItem", item.Title).
					Str("designId", prop.Value).
					Msg("customized item ordered")
			}
		}
	}
	return nil
}
