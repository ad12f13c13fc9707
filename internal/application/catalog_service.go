package application

import (
	"context"
	"strconv"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// CatalogService links shop products for customization and mirrors the
// shop's Admin API catalog for the merchant dashboard.
type CatalogService struct {
	stores   ports.StoreRepository
	products ports.ProductRepository
	admin    ports.AdminClient
	logger   zerolog.Logger
}

// NewCatalogService creates the catalog service.
func NewCatalogService(
	stores ports.StoreRepository,
	products ports.ProductRepository,
	admin ports.AdminClient,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		stores:   stores,
		products: products,
		admin:    admin,
		logger:   logger,
	}
}

// ShopifyProductView is the dashboard projection of an Admin API product.
type ShopifyProductView struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Variants []ShopifyVariantView `json:"variants"`
}

// ShopifyVariantView is the dashboard projection of a product variant.
type ShopifyVariantView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

// LinkProduct enables a shop product for customization, recording the
// variant used at checkout. Re-linking updates the variant in place.
func (s *CatalogService) LinkProduct(ctx context.Context, shop string, productID string, variantID string) (*domain.Product, error) {
	if shop == "" || productID == "" || variantID == "" {
		return nil, &domain.ValidationError{Message: "shop, productId, and variantId are required"}
	}

	store, err := s.stores.GetStoreByDomain(ctx, shop)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &domain.NotFoundError{Message: "store not found"}
	}

	product, err := s.products.UpsertProduct(ctx, &domain.Product{
		StoreID:       store.ID,
		ShopProductID: productID,
		ShopVariantID: variantID,
		Enabled:       true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("shop", shop).Str("productId", productID).Msg("product linked")
	return product, nil
}

// ListLinkedProducts returns the products a shop has enabled.
func (s *CatalogService) ListLinkedProducts(ctx context.Context, shop string) ([]*domain.Product, error) {
	if shop == "" {
		return nil, &domain.ValidationError{Message: "shop is required"}
	}

	store, err := s.stores.GetStoreByDomain(ctx, shop)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &domain.NotFoundError{Message: "store not found"}
	}

	return s.products.ListProductsByStore(ctx, store.ID)
}

// GetProductDetails returns a single linked product for a shop.
func (s *CatalogService) GetProductDetails(ctx context.Context, shop string, productID string) (*domain.Product, error) {
	if shop == "" || productID == "" {
		return nil, &domain.ValidationError{Message: "shop and productId are required"}
	}

	store, err := s.stores.GetStoreByDomain(ctx, shop)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &domain.NotFoundError{Message: "store not found"}
	}

	product, err := s.products.GetProduct(ctx, store.ID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Message: "product not found"}
	}
	return product, nil
}

// ListShopifyProducts fetches the shop's catalog from the Admin API using the
// store's saved access token.
func (s *CatalogService) ListShopifyProducts(ctx context.Context, shop string) ([]ShopifyProductView, error) {
	if shop == "" {
		return nil, &domain.ValidationError{Message: "shop is required"}
	}

	store, err := s.stores.GetStoreByDomain(ctx, shop)
	if err != nil {
		return nil, err
	}
	if store == nil || store.AccessToken == "" {
		return nil, &domain.NotFoundError{Message: "store not found"}
	}

	products, err := s.admin.GetProducts(ctx, store.ShopDomain, store.AccessToken)
	if err != nil {
		return nil, err
	}

	views := make([]ShopifyProductView, 0, len(products))
	for _, p := range products {
		view := ShopifyProductView{
			ID:    strconv.FormatUint(p.Id, 10),
			Title: p.Title,
		}
		for _, v := range p.Variants {
			price := ""
			if v.Price != nil {
				price = v.Price.String()
			}
			view.Variants = append(view.Variants, ShopifyVariantView{
				ID:    strconv.FormatUint(v.Id, 10),
				Title: v.Title,
				Price: price,
			})
		}
		views = append(views, view)
	}
	return views, nil
}
