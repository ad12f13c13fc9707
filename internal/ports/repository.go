package ports

import (
	"context"

	"customizer-shopify-layer/internal/domain"
)

// StoreRepository defines persistence for installed shops.
// Lookups return (nil, nil) when no row matches.
type StoreRepository interface {
	// UpsertStore creates or replaces the row keyed by shop domain and
	// returns the stored entity with its id populated.
	UpsertStore(ctx context.Context, store *domain.Store) (*domain.Store, error)
	GetStoreByDomain(ctx context.Context, shopDomain string) (*domain.Store, error)
	GetStoreByID(ctx context.Context, id string) (*domain.Store, error)
	DeleteStoresByDomain(ctx context.Context, shopDomain string) (int64, error)
}

// ProductRepository defines persistence for linked products.
type ProductRepository interface {
	// UpsertProduct creates or updates the row keyed by
	// (store, shop product id) and returns the stored entity.
	UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, storeID string, id string) (*domain.Product, error)
	ListProductsByStore(ctx context.Context, storeID string) ([]*domain.Product, error)
	DeleteProductsByStore(ctx context.Context, storeID string) error
}

// DesignRepository defines persistence for designs. Designs are insert-only.
type DesignRepository interface {
	CreateDesign(ctx context.Context, design *domain.Design) error
	GetDesign(ctx context.Context, id string) (*domain.Design, error)
	DeleteDesignsByStore(ctx context.Context, storeID string) error
}

// WebhookLog records received webhook events.
type WebhookLog interface {
	LogWebhook(ctx context.Context, event *domain.WebhookEvent) error
}
