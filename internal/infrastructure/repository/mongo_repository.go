package repository

import (
	"context"
	"fmt"
	"time"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements the store, product, design, and webhook-log
// ports using MongoDB
type MongoRepository struct {
	storesCollection   *mongo.Collection
	productsCollection *mongo.Collection
	designsCollection  *mongo.Collection
	webhooksCollection *mongo.Collection
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		storesCollection:   db.Collection("stores"),
		productsCollection: db.Collection("products"),
		designsCollection:  db.Collection("designs"),
		webhooksCollection: db.Collection("webhook_events"),
	}
}

// UpsertStore saves or replaces the store keyed by shop domain and returns
// the stored row. Concurrent upserts for the same domain race and the last
// writer wins.
func (r *MongoRepository) UpsertStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	// Create unique index on shopDomain if it doesn't exist
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "shopDomain", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.storesCollection.Indexes().CreateOne(ctx, indexModel)

	now := time.Now()
	filter := bson.M{"shopDomain": store.ShopDomain}
	update := bson.M{
		"$set": bson.M{
			"accessToken":     store.AccessToken,
			"storefrontToken": store.StorefrontToken,
			"installedAt":     store.InstalledAt,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"shopDomain": store.ShopDomain,
			"createdAt":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc entity.MongoStoreDoc
	if err := r.storesCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to upsert store: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetStoreByDomain retrieves a store by shop domain
func (r *MongoRepository) GetStoreByDomain(ctx context.Context, shopDomain string) (*domain.Store, error) {
	var doc entity.MongoStoreDoc
	err := r.storesCollection.FindOne(ctx, bson.M{"shopDomain": shopDomain}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return doc.ToDomain(), nil
}

// GetStoreByID retrieves a store by id
func (r *MongoRepository) GetStoreByID(ctx context.Context, id string) (*domain.Store, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoStoreDoc
	err = r.storesCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return doc.ToDomain(), nil
}

// DeleteStoresByDomain deletes all stores matching a shop domain. Deleting a
// domain with no rows is not an error.
func (r *MongoRepository) DeleteStoresByDomain(ctx context.Context, shopDomain string) (int64, error) {
	result, err := r.storesCollection.DeleteMany(ctx, bson.M{"shopDomain": shopDomain})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stores: %w", err)
	}
	return result.DeletedCount, nil
}

// UpsertProduct saves or updates the product keyed by (store, shop product
// id), overwriting the linked variant and re-enabling it.
func (r *MongoRepository) UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "storeId", Value: 1},
			{Key: "shopProductId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.productsCollection.Indexes().CreateOne(ctx, indexModel)

	now := time.Now()
	filter := bson.M{
		"storeId":       product.StoreID,
		"shopProductId": product.ShopProductID,
	}
	update := bson.M{
		"$set": bson.M{
			"shopVariantId": product.ShopVariantID,
			"enabled":       true,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"storeId":       product.StoreID,
			"shopProductId": product.ShopProductID,
			"createdAt":     now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc entity.MongoProductDoc
	if err := r.productsCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to upsert product: %w", err)
	}

	return doc.ToDomain(), nil
}

// GetProduct retrieves a product by store and id
func (r *MongoRepository) GetProduct(ctx context.Context, storeID string, id string) (*domain.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoProductDoc
	err = r.productsCollection.FindOne(ctx, bson.M{"_id": objID, "storeId": storeID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.ToDomain(), nil
}

// ListProductsByStore retrieves all products linked by a store
func (r *MongoRepository) ListProductsByStore(ctx context.Context, storeID string) ([]*domain.Product, error) {
	cursor, err := r.productsCollection.Find(ctx, bson.M{"storeId": storeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return products, nil
}

// DeleteProductsByStore deletes all products owned by a store
func (r *MongoRepository) DeleteProductsByStore(ctx context.Context, storeID string) error {
	if _, err := r.productsCollection.DeleteMany(ctx, bson.M{"storeId": storeID}); err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	return nil
}

// CreateDesign inserts a design row. Designs are never updated.
func (r *MongoRepository) CreateDesign(ctx context.Context, design *domain.Design) error {
	doc := entity.MongoDesignDocFromDomain(design)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if _, err := r.designsCollection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create design: %w", err)
	}
	return nil
}

// GetDesign retrieves a design by id
func (r *MongoRepository) GetDesign(ctx context.Context, id string) (*domain.Design, error) {
	var doc entity.MongoDesignDoc
	err := r.designsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design: %w", err)
	}
	return doc.ToDomain(), nil
}

// DeleteDesignsByStore deletes all designs owned by a store
func (r *MongoRepository) DeleteDesignsByStore(ctx context.Context, storeID string) error {
	if _, err := r.designsCollection.DeleteMany(ctx, bson.M{"storeId": storeID}); err != nil {
		return fmt.Errorf("failed to delete designs: %w", err)
	}
	return nil
}

// LogWebhook logs a webhook event
func (r *MongoRepository) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	doc := entity.MongoWebhookDocFromDomain(event)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if _, err := r.webhooksCollection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to log webhook: %w", err)
	}
	return nil
}
