package entity

import (
	"time"

	"customizer-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoStoreDoc represents an installed shop in MongoDB
type MongoStoreDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ShopDomain      string             `bson:"shopDomain"`
	AccessToken     string             `bson:"accessToken"`
	StorefrontToken string             `bson:"storefrontToken,omitempty"`
	InstalledAt     time.Time          `bson:"installedAt"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoStoreDoc) ToDomain() *domain.Store {
	return &domain.Store{
		ID:              d.ID.Hex(),
		ShopDomain:      d.ShopDomain,
		AccessToken:     d.AccessToken,
		StorefrontToken: d.StorefrontToken,
		InstalledAt:     d.InstalledAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// MongoStoreDocFromDomain converts a domain entity to a MongoDB document
func MongoStoreDocFromDomain(store *domain.Store) *MongoStoreDoc {
	doc := &MongoStoreDoc{
		ShopDomain:      store.ShopDomain,
		AccessToken:     store.AccessToken,
		StorefrontToken: store.StorefrontToken,
		InstalledAt:     store.InstalledAt,
		CreatedAt:       store.CreatedAt,
		UpdatedAt:       store.UpdatedAt,
	}

	if store.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(store.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}

// MongoProductDoc represents a linked product in MongoDB
type MongoProductDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	StoreID       string             `bson:"storeId"`
	ShopProductID string             `bson:"shopProductId"`
	ShopVariantID string             `bson:"shopVariantId"`
	Enabled       bool               `bson:"enabled"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoProductDoc) ToDomain() *domain.Product {
	return &domain.Product{
		ID:            d.ID.Hex(),
		StoreID:       d.StoreID,
		ShopProductID: d.ShopProductID,
		ShopVariantID: d.ShopVariantID,
		Enabled:       d.Enabled,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoDesignDoc represents a design in MongoDB. Designs carry their UUID as
// the document id.
type MongoDesignDoc struct {
	ID        string                 `bson:"_id"`
	StoreID   string                 `bson:"storeId"`
	ProductID string                 `bson:"productId"`
	ImageURL  string                 `bson:"imageUrl"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoDesignDoc) ToDomain() *domain.Design {
	return &domain.Design{
		ID:        d.ID,
		StoreID:   d.StoreID,
		ProductID: d.ProductID,
		ImageURL:  d.ImageURL,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	}
}

// MongoDesignDocFromDomain converts a domain entity to a MongoDB document
func MongoDesignDocFromDomain(design *domain.Design) *MongoDesignDoc {
	return &MongoDesignDoc{
		ID:        design.ID,
		StoreID:   design.StoreID,
		ProductID: design.ProductID,
		ImageURL:  design.ImageURL,
		Metadata:  design.Metadata,
		CreatedAt: design.CreatedAt,
	}
}

// MongoWebhookDoc represents a logged webhook event in MongoDB
type MongoWebhookDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Topic     string             `bson:"topic"`
	Shop      string             `bson:"shop"`
	Payload   []byte             `bson:"payload"`
	Verified  bool               `bson:"verified"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// MongoWebhookDocFromDomain converts a domain entity to a MongoDB document
func MongoWebhookDocFromDomain(event *domain.WebhookEvent) *MongoWebhookDoc {
	return &MongoWebhookDoc{
		Topic:     event.Topic,
		Shop:      event.Shop,
		Payload:   event.Payload,
		Verified:  event.Verified,
		CreatedAt: event.CreatedAt,
	}
}
