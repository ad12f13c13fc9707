package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"customizer-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func newTestClient() *client {
	c := NewClient("test-key", "test-secret", zerolog.Nop()).(*client)
	c.scheme = "http"
	return c
}

func TestAuthorizeURLEncodesParameters(t *testing.T) {
	c := NewClient("test-key", "test-secret", zerolog.Nop()).(*client)

	raw := c.AuthorizeURL(
		"example.myshopify.com",
		[]string{"read_products", "write_checkouts"},
		"https://app.example.com/auth/callback",
		"state-token",
	)

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("authorize URL does not parse: %v", err)
	}
	if parsed.Host != "example.myshopify.com" || parsed.Path != "/admin/oauth/authorize" {
		t.Errorf("authorize URL = %q", raw)
	}

	q := parsed.Query()
	if q.Get("client_id") != "test-key" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("scope") != "read_products,write_checkouts" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
	if q.Get("redirect_uri") != "https://app.example.com/auth/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("state") != "state-token" {
		t.Errorf("state = %q", q.Get("state"))
	}
	// The redirect URI must be escaped exactly once.
	if !strings.Contains(raw, "redirect_uri=https%3A%2F%2Fapp.example.com%2Fauth%2Fcallback") {
		t.Errorf("redirect_uri not percent-encoded in %q", raw)
	}
}

func TestExchangeTokenSendsCredentialsAndParsesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/oauth/access_token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("request body: %v", err)
		}
		if body["client_id"] != "test-key" || body["client_secret"] != "test-secret" || body["code"] != "auth-code" {
			t.Errorf("token request body = %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "admin-token", "scope": "read_products"})
	}))
	defer server.Close()

	c := newTestClient()
	shop := strings.TrimPrefix(server.URL, "http://")

	token, err := c.ExchangeToken(context.Background(), shop, "auth-code")
	if err != nil {
		t.Fatalf("ExchangeToken: %v", err)
	}
	if token != "admin-token" {
		t.Errorf("token = %q", token)
	}
}

func TestExchangeTokenSurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient()
	shop := strings.TrimPrefix(server.URL, "http://")

	_, err := c.ExchangeToken(context.Background(), shop, "bad-code")
	var exchangeErr *domain.TokenExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("err = %v, want TokenExchangeError", err)
	}
	if exchangeErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", exchangeErr.StatusCode)
	}
	if !strings.Contains(exchangeErr.Body, "invalid_request") {
		t.Errorf("body = %q", exchangeErr.Body)
	}
}

func TestEnsureStorefrontTokenCreates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "admin-token" {
			t.Errorf("access token header = %q", got)
		}
		var body struct {
			StorefrontAccessToken struct {
				Title string `json:"title"`
			} `json:"storefront_access_token"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.StorefrontAccessToken.Title == "" {
			t.Error("storefront token request has no title")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]map[string]string{
			"storefront_access_token": {"access_token": "sf-token"},
		})
	}))
	defer server.Close()

	c := newTestClient()
	shop := strings.TrimPrefix(server.URL, "http://")

	token, err := c.EnsureStorefrontToken(context.Background(), shop, "admin-token")
	if err != nil {
		t.Fatalf("EnsureStorefrontToken: %v", err)
	}
	if token != "sf-token" {
		t.Errorf("token = %q", token)
	}
}

func TestEnsureStorefrontTokenFallsBackToExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, `{"errors":"limit reached"}`, http.StatusUnprocessableEntity)
			return
		}
		json.NewEncoder(w).Encode(map[string][]map[string]string{
			"storefront_access_tokens": {
				{"access_token": "existing-token"},
				{"access_token": "other-token"},
			},
		})
	}))
	defer server.Close()

	c := newTestClient()
	shop := strings.TrimPrefix(server.URL, "http://")

	token, err := c.EnsureStorefrontToken(context.Background(), shop, "admin-token")
	if err != nil {
		t.Fatalf("EnsureStorefrontToken: %v", err)
	}
	if token != "existing-token" {
		t.Errorf("token = %q, want first existing token", token)
	}
}

func TestEnsureStorefrontTokenEmptyWhenNoneExist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, `{"errors":"rejected"}`, http.StatusUnprocessableEntity)
			return
		}
		json.NewEncoder(w).Encode(map[string][]map[string]string{
			"storefront_access_tokens": {},
		})
	}))
	defer server.Close()

	c := newTestClient()
	shop := strings.TrimPrefix(server.URL, "http://")

	token, err := c.EnsureStorefrontToken(context.Background(), shop, "admin-token")
	if err != nil {
		t.Fatalf("EnsureStorefrontToken: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}
