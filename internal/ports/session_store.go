package ports

import (
	"context"

	"customizer-shopify-layer/internal/domain"
)

// SessionStore holds pending OAuth sessions keyed by state token.
type SessionStore interface {
	SaveSession(ctx context.Context, session *domain.Session) error
	// ConsumeSession retrieves and deletes the session for a state token.
	// Returns (nil, nil) when the state is unknown or expired.
	ConsumeSession(ctx context.Context, state string) (*domain.Session, error)
}
