package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

const apiVersion = "2024-01"

type client struct {
	apiKey     string
	apiSecret  string
	app        goshopify.App
	httpClient *http.Client
	scheme     string
	logger     zerolog.Logger
}

// NewClient creates a Shopify Admin API client adapter.
func NewClient(apiKey, apiSecret string, logger zerolog.Logger) ports.AdminClient {
	return &client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		httpClient: http.DefaultClient,
		scheme:     "https",
		logger:     logger,
	}
}

func (c *client) shopURL(shop, path string) string {
	return fmt.Sprintf("%s://%s%s", c.scheme, shop, path)
}

// AuthorizeURL builds the OAuth authorization URL. Shopify expects scopes
// comma-separated with no spaces and the redirect URI percent-encoded.
func (c *client) AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string {
	return fmt.Sprintf(
		"%s://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		c.scheme,
		shop,
		c.apiKey,
		url.QueryEscape(strings.Join(scopes, ",")),
		url.QueryEscape(redirectURI),
		url.QueryEscape(state),
	)
}

// ExchangeToken exchanges the authorization code for an admin access token
// via a direct POST to the shop's token endpoint.
func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.apiKey,
		"client_secret": c.apiSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.shopURL(shop, "/admin/oauth/access_token"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &domain.TokenExchangeError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	return tokenResponse.AccessToken, nil
}

// EnsureStorefrontToken provisions a storefront access token. Creation can be
// rejected when the shop already carries the maximum number of tokens, in
// which case the first existing token is reused. Returns "" when the shop has
// none and creation was rejected.
func (c *client) EnsureStorefrontToken(ctx context.Context, shop string, accessToken string) (string, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"storefront_access_token": map[string]string{
			"title": "Product Customizer App",
		},
	})

	endpoint := c.shopURL(shop, "/admin/api/"+apiVersion+"/storefront_access_tokens.json")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create storefront token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create storefront token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var created struct {
			StorefrontAccessToken struct {
				AccessToken string `json:"access_token"`
			} `json:"storefront_access_token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return "", fmt.Errorf("failed to decode storefront token response: %w", err)
		}
		return created.StorefrontAccessToken.AccessToken, nil
	}

	c.logger.Warn().
		Str("shop", shop).
		Int("status", resp.StatusCode).
		Msg("Storefront token creation rejected, listing existing tokens")

	return c.listFirstStorefrontToken(ctx, shop, accessToken)
}

func (c *client) listFirstStorefrontToken(ctx context.Context, shop string, accessToken string) (string, error) {
	endpoint := c.shopURL(shop, "/admin/api/"+apiVersion+"/storefront_access_tokens.json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create storefront token list request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to list storefront tokens: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &domain.UpstreamError{Op: "list storefront tokens", Body: string(body)}
	}

	var listed struct {
		StorefrontAccessTokens []struct {
			AccessToken string `json:"access_token"`
		} `json:"storefront_access_tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return "", fmt.Errorf("failed to decode storefront token list: %w", err)
	}

	if len(listed.StorefrontAccessTokens) == 0 {
		return "", nil
	}
	return listed.StorefrontAccessTokens[0].AccessToken, nil
}

// GetProducts lists the shop's products through the Admin API.
func (c *client) GetProducts(ctx context.Context, shop string, accessToken string) ([]goshopify.Product, error) {
	adminClient, err := goshopify.NewClient(c.app, shop, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	products, err := adminClient.Product.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateWebhook registers a webhook subscription for a topic.
func (c *client) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error {
	adminClient, err := goshopify.NewClient(c.app, shop, accessToken)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	_, err = adminClient.Webhook.Create(ctx, goshopify.Webhook{
		Topic:   topic,
		Address: address,
		Format:  "json",
	})
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	return nil
}
