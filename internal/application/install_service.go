package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

var shopDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// InstallService drives the OAuth installation flow: authorize redirect,
// callback verification, token exchange, and store persistence.
type InstallService struct {
	stores   ports.StoreRepository
	sessions ports.SessionStore
	admin    ports.AdminClient
	webhooks *WebhookManager
	logger   zerolog.Logger

	apiKey string
	scopes []string
	appURL string
}

// NewInstallService creates the installation service. appURL may be empty, in
// which case redirect URIs are derived from the incoming request.
func NewInstallService(
	stores ports.StoreRepository,
	sessions ports.SessionStore,
	admin ports.AdminClient,
	webhooks *WebhookManager,
	apiKey string,
	scopes []string,
	appURL string,
	logger zerolog.Logger,
) *InstallService {
	return &InstallService{
		stores:   stores,
		sessions: sessions,
		admin:    admin,
		webhooks: webhooks,
		apiKey:   apiKey,
		scopes:   scopes,
		appURL:   strings.TrimSuffix(appURL, "/"),
		logger:   logger,
	}
}

// BeginInstall validates the shop domain, persists a pending session keyed by
// a fresh state token, and returns the authorization URL to redirect to.
func (s *InstallService) BeginInstall(ctx context.Context, shop string, requestBaseURL string) (string, error) {
	if s.apiKey == "" {
		return "", &domain.ConfigurationError{Setting: "SHOPIFY_API_KEY"}
	}
	if len(s.scopes) == 0 {
		return "", &domain.ConfigurationError{Setting: "SHOPIFY_SCOPES"}
	}
	if !shopDomainPattern.MatchString(shop) {
		return "", &domain.ValidationError{Message: "invalid shop domain"}
	}

	baseURL := s.appURL
	if baseURL == "" {
		baseURL = strings.TrimSuffix(requestBaseURL, "/")
	}
	redirectURI := baseURL + "/auth/callback"

	state, err := newStateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		Shop:      shop,
		State:     state,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save oauth session: %w", err)
	}

	s.logger.Info().Str("shop", shop).Msg("starting oauth install")
	return s.admin.AuthorizeURL(shop, s.scopes, redirectURI, state), nil
}

// CompleteInstall verifies the callback state, exchanges the code for an
// admin token, provisions a storefront token, and upserts the store row.
// Repeating the flow for an installed shop refreshes its tokens in place.
func (s *InstallService) CompleteInstall(ctx context.Context, shop string, code string, state string) (*domain.Store, error) {
	session, err := s.sessions.ConsumeSession(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to load oauth session: %w", err)
	}
	if session == nil || session.Shop != shop {
		return nil, &domain.AuthError{Message: "invalid oauth state"}
	}

	accessToken, err := s.admin.ExchangeToken(ctx, shop, code)
	if err != nil {
		return nil, err
	}

	storefrontToken, err := s.admin.EnsureStorefrontToken(ctx, shop, accessToken)
	if err != nil {
		// The install still succeeds; checkout creation will fail for this
		// shop until a storefront token exists.
		s.logger.Warn().Err(err).Str("shop", shop).Msg("failed to provision storefront token")
		storefrontToken = ""
	}

	store, err := s.stores.UpsertStore(ctx, &domain.Store{
		ShopDomain:      shop,
		AccessToken:     accessToken,
		StorefrontToken: storefrontToken,
		InstalledAt:     time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save store: %w", err)
	}

	if s.webhooks != nil {
		if err := s.webhooks.Register(ctx, shop, accessToken); err != nil {
			s.logger.Warn().Err(err).Str("shop", shop).Msg("webhook registration incomplete")
		}
	}

	s.logger.Info().Str("shop", shop).Str("storeId", store.ID).Msg("install completed")
	return store, nil
}

func newStateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
