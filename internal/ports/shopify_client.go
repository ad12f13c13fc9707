package ports

import (
	"context"

	"customizer-shopify-layer/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// AdminClient defines the Admin API operations used during installation and
// product listing.
type AdminClient interface {
	// AuthorizeURL builds the OAuth authorization URL for a shop.
	AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string

	// ExchangeToken exchanges an authorization code for an admin access
	// token. Returns a *domain.TokenExchangeError on a non-success response.
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)

	// EnsureStorefrontToken provisions a storefront access token, reusing an
	// existing one when creation is rejected. Returns "" when none can be
	// obtained without a transport failure.
	EnsureStorefrontToken(ctx context.Context, shop string, accessToken string) (string, error)

	// GetProducts lists the shop's products.
	GetProducts(ctx context.Context, shop string, accessToken string) ([]goshopify.Product, error)

	// CreateWebhook registers a webhook subscription for a topic.
	CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error
}

// StorefrontClient issues checkout mutations against the Storefront API.
type StorefrontClient interface {
	// CreateCheckout creates a checkout with a single line item and returns
	// its web URL. Returns a *domain.CheckoutCreationError when the mutation
	// reports errors.
	CreateCheckout(ctx context.Context, shop string, storefrontToken string, variantID string, quantity int, attributes []domain.CheckoutAttribute) (string, error)
}
