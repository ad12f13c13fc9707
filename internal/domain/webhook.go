package domain

import "time"

// WebhookEvent represents a received Shopify webhook.
type WebhookEvent struct {
	Topic     string    `json:"topic" bson:"topic"`
	Shop      string    `json:"shop" bson:"shop"`
	Payload   []byte    `json:"payload" bson:"payload"`
	Verified  bool      `json:"verified" bson:"verified"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
