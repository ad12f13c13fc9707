package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler purges a shop's data when the app is uninstalled.
type AppUninstalledHandler struct {
	stores   ports.StoreRepository
	products ports.ProductRepository
	designs  ports.DesignRepository
	logger   zerolog.Logger
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(
	stores ports.StoreRepository,
	products ports.ProductRepository,
	designs ports.DesignRepository,
	logger zerolog.Logger,
) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		stores:   stores,
		products: products,
		designs:  designs,
		logger:   logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle deletes the store and everything it owns. Processing the same
// uninstall twice is a no-op.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop := event.Shop
	if shop == "" {
		shop = shopFromPayload(event.Payload)
	}
	if shop == "" {
		h.logger.Warn().Str("topic", event.Topic).Msg("uninstall webhook without shop domain")
		return nil
	}

	store, err := h.stores.GetStoreByDomain(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to look up store for uninstall: %w", err)
	}
	if store == nil {
		h.logger.Info().Str("shop", shop).Msg("uninstall for unknown shop, nothing to purge")
		return nil
	}

	if err := h.products.DeleteProductsByStore(ctx, store.ID); err != nil {
		return fmt.Errorf("failed to delete products on uninstall: %w", err)
	}
	if err := h.designs.DeleteDesignsByStore(ctx, store.ID); err != nil {
		return fmt.Errorf("failed to delete designs on uninstall: %w", err)
	}

	deleted, err := h.stores.DeleteStoresByDomain(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to delete store on uninstall: %w", err)
	}

	h.logger.Info().Str("shop", shop).Int64("storesDeleted", deleted).Msg("shop data purged on uninstall")
	return nil
}

func shopFromPayload(payload []byte) string {
	var body struct {
		Domain          string `json:"domain"`
		MyshopifyDomain string `json:"myshopify_domain"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.MyshopifyDomain != "" {
		return body.MyshopifyDomain
	}
	return body.Domain
}
