package application

import (
	"context"
	"strings"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const variantGIDPrefix = "gid://shopify/ProductVariant/"

// CheckoutService builds storefront checkouts carrying a saved design as
// line-item attributes.
type CheckoutService struct {
	stores     ports.StoreRepository
	designs    ports.DesignRepository
	storefront ports.StorefrontClient
	logger     zerolog.Logger
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(
	stores ports.StoreRepository,
	designs ports.DesignRepository,
	storefront ports.StorefrontClient,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		stores:     stores,
		designs:    designs,
		storefront: storefront,
		logger:     logger,
	}
}

// CreateCheckoutInput carries the checkout request.
type CreateCheckoutInput struct {
	ShopID    string
	ProductID string
	DesignID  string
	VariantID string
	Quantity  int
}

// CreateCheckout resolves the store and design, normalizes the variant id to
// a Storefront GID, and creates a checkout tagged with the design id and
// preview URL. A zero quantity defaults to one.
func (s *CheckoutService) CreateCheckout(ctx context.Context, input CreateCheckoutInput) (string, error) {
	if input.ShopID == "" || input.ProductID == "" || input.DesignID == "" || input.VariantID == "" {
		return "", &domain.ValidationError{Message: "shopId, productId, designId, and variantId are required"}
	}
	if input.Quantity < 0 {
		return "", &domain.ValidationError{Message: "quantity must be positive"}
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	store, err := s.stores.GetStoreByID(ctx, input.ShopID)
	if err != nil {
		return "", err
	}
	if store == nil || store.StorefrontToken == "" {
		return "", &domain.NotFoundError{Message: "store not found or storefront token missing"}
	}

	design, err := s.designs.GetDesign(ctx, input.DesignID)
	if err != nil {
		return "", err
	}
	if design == nil {
		return "", &domain.NotFoundError{Message: "design not found"}
	}
	if design.ImageURL == "" {
		return "", &domain.ValidationError{Message: "design has no image"}
	}

	attributes := []domain.CheckoutAttribute{
		{Key: "design_id", Value: design.ID},
		{Key: "design_preview", Value: design.ImageURL},
	}

	checkoutURL, err := s.storefront.CreateCheckout(
		ctx,
		store.ShopDomain,
		store.StorefrontToken,
		NormalizeVariantGID(input.VariantID),
		quantity,
		attributes,
	)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("shop", store.ShopDomain).Str("designId", design.ID).Msg("checkout created")
	return checkoutURL, nil
}

// NormalizeVariantGID prepends the Storefront ProductVariant GID prefix to
// bare numeric ids. Ids already in GID form pass through unchanged.
func NormalizeVariantGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return variantGIDPrefix + id
}
