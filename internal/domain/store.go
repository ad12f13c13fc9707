package domain

import "time"

// Store represents an installed shop and its credentials.
// One row per shop domain; reinstallation overwrites the tokens.
type Store struct {
	ID              string    `json:"id" bson:"_id"`
	ShopDomain      string    `json:"shop_domain" bson:"shopDomain"`
	AccessToken     string    `json:"-" bson:"accessToken"`
	StorefrontToken string    `json:"-" bson:"storefrontToken"`
	InstalledAt     time.Time `json:"installed_at" bson:"installedAt"`
	CreatedAt       time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updatedAt"`
}

// Product links a Shopify product/variant pair to the customizer.
// Unique per (store, shopProductId).
type Product struct {
	ID            string    `json:"id" bson:"_id"`
	StoreID       string    `json:"shop_id" bson:"storeId"`
	ShopProductID string    `json:"shop_product_id" bson:"shopProductId"`
	ShopVariantID string    `json:"shop_variant_id" bson:"shopVariantId"`
	Enabled       bool      `json:"enabled" bson:"enabled"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

// Design is a persisted customization image. Immutable after creation;
// referenced by id from checkout custom attributes.
type Design struct {
	ID        string                 `json:"id" bson:"_id"`
	StoreID   string                 `json:"shop_id" bson:"storeId"`
	ProductID string                 `json:"product_id" bson:"productId"`
	ImageURL  string                 `json:"image_url" bson:"imageUrl"`
	Metadata  map[string]interface{} `json:"metadata" bson:"metadata"`
	CreatedAt time.Time              `json:"created_at" bson:"createdAt"`
}

// CheckoutAttribute is a key/value pair attached to a checkout line item.
type CheckoutAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
