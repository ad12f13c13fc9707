package application

import (
	"context"
	"strings"

	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookManager subscribes newly installed shops to the webhook topics the
// app depends on.
type WebhookManager struct {
	admin  ports.AdminClient
	appURL string
	logger zerolog.Logger
}

// NewWebhookManager creates a webhook manager delivering to appURL.
func NewWebhookManager(admin ports.AdminClient, appURL string, logger zerolog.Logger) *WebhookManager {
	return &WebhookManager{
		admin:  admin,
		appURL: strings.TrimSuffix(appURL, "/"),
		logger: logger,
	}
}

// DefaultTopics lists the webhook topics registered on install.
func DefaultTopics() []string {
	return []string{"app/uninstalled", "orders/create"}
}

// Register subscribes the shop to the default topics. Failures are logged per
// topic and the first error is returned; Shopify rejects duplicate
// subscriptions, so re-registering an existing topic is tolerated upstream.
func (m *WebhookManager) Register(ctx context.Context, shop string, accessToken string) error {
	var firstErr error
	for _, topic := range DefaultTopics() {
		address := m.appURL + "/api/webhooks/" + strings.ReplaceAll(topic, "/", "_")
		if err := m.admin.CreateWebhook(ctx, shop, accessToken, topic, address); err != nil {
			m.logger.Error().Err(err).Str("shop", shop).Str("topic", topic).Msg("failed to register webhook")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.logger.Info().Str("shop", shop).Str("topic", topic).Msg("webhook registered")
	}
	return firstErr
}
