package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"customizer-shopify-layer/internal/application"
	"customizer-shopify-layer/internal/application/webhook_handlers"
	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

type memRepo struct {
	store   *domain.Store
	designs map[string]*domain.Design
	logged  []*domain.WebhookEvent
}

func newMemRepo() *memRepo {
	return &memRepo{designs: map[string]*domain.Design{}}
}

func (r *memRepo) UpsertStore(_ context.Context, store *domain.Store) (*domain.Store, error) {
	r.store = store
	return store, nil
}

func (r *memRepo) GetStoreByDomain(_ context.Context, shopDomain string) (*domain.Store, error) {
	if r.store != nil && r.store.ShopDomain == shopDomain {
		return r.store, nil
	}
	return nil, nil
}

func (r *memRepo) GetStoreByID(_ context.Context, id string) (*domain.Store, error) {
	if r.store != nil && r.store.ID == id {
		return r.store, nil
	}
	return nil, nil
}

func (r *memRepo) DeleteStoresByDomain(_ context.Context, shopDomain string) (int64, error) {
	if r.store != nil && r.store.ShopDomain == shopDomain {
		r.store = nil
		return 1, nil
	}
	return 0, nil
}

func (r *memRepo) UpsertProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	return product, nil
}

func (r *memRepo) GetProduct(_ context.Context, storeID, id string) (*domain.Product, error) {
	return nil, nil
}

func (r *memRepo) ListProductsByStore(_ context.Context, storeID string) ([]*domain.Product, error) {
	return nil, nil
}

func (r *memRepo) DeleteProductsByStore(_ context.Context, storeID string) error { return nil }

func (r *memRepo) CreateDesign(_ context.Context, design *domain.Design) error {
	r.designs[design.ID] = design
	return nil
}

func (r *memRepo) GetDesign(_ context.Context, id string) (*domain.Design, error) {
	return r.designs[id], nil
}

func (r *memRepo) DeleteDesignsByStore(_ context.Context, storeID string) error {
	for id, d := range r.designs {
		if d.StoreID == storeID {
			delete(r.designs, id)
		}
	}
	return nil
}

func (r *memRepo) LogWebhook(_ context.Context, event *domain.WebhookEvent) error {
	r.logged = append(r.logged, event)
	return nil
}

type stubStorefront struct {
	url string
}

func (s *stubStorefront) CreateCheckout(_ context.Context, shop, token, variantID string, quantity int, attrs []domain.CheckoutAttribute) (string, error) {
	return s.url, nil
}

const webhookSecret = "whsec"

func newTestServer(t *testing.T, repo *memRepo) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()

	checkouts := application.NewCheckoutService(repo, repo, &stubStorefront{url: "https://example.myshopify.com/checkout/abc"}, logger)

	dispatcher := application.NewWebhookDispatcher(logger)
	dispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(repo, repo, repo, logger))

	handlers := NewHandlers(
		checkouts,
		nil,
		nil,
		shopify.NewWebhookVerifier(webhookSecret),
		dispatcher,
		repo,
		logger,
	)

	server := httptest.NewServer(handlers.Routes())
	t.Cleanup(server.Close)
	return server
}

func signPayload(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, url string, payload []byte, signature, shop string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if signature != "" {
		req.Header.Set("X-Shopify-Hmac-Sha256", signature)
	}
	if shop != "" {
		req.Header.Set("X-Shopify-Shop-Domain", shop)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestUninstallWebhookPurgesStore(t *testing.T) {
	repo := newMemRepo()
	repo.store = &domain.Store{ID: "store-1", ShopDomain: "example.myshopify.com"}
	server := newTestServer(t, repo)

	payload := []byte(`{"domain":"example.myshopify.com"}`)
	resp := postWebhook(t, server.URL+"/webhooks/app_uninstalled", payload, signPayload(payload), "example.myshopify.com")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if repo.store != nil {
		t.Error("store not purged after uninstall webhook")
	}
	if len(repo.logged) != 1 || !repo.logged[0].Verified {
		t.Errorf("webhook log = %+v", repo.logged)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	repo := newMemRepo()
	repo.store = &domain.Store{ID: "store-1", ShopDomain: "example.myshopify.com"}
	server := newTestServer(t, repo)

	payload := []byte(`{"domain":"example.myshopify.com"}`)
	resp := postWebhook(t, server.URL+"/webhooks/app_uninstalled", payload, signPayload([]byte("other")), "example.myshopify.com")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("rejection body is not JSON: %v", err)
	}
	if out["error"] == "" {
		t.Error("rejection body missing error field")
	}
	if repo.store == nil {
		t.Error("store purged despite invalid signature")
	}
	if len(repo.logged) != 0 {
		t.Error("unverified event logged")
	}
}

func TestWebhookRequiresHeaders(t *testing.T) {
	server := newTestServer(t, newMemRepo())
	payload := []byte(`{}`)

	resp := postWebhook(t, server.URL+"/webhooks/orders_create", payload, "", "example.myshopify.com")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing signature status = %d, want 400", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("rejection body is not JSON: %v", err)
	}
	if out["error"] == "" {
		t.Error("rejection body missing error field")
	}

	resp = postWebhook(t, server.URL+"/webhooks/orders_create", payload, signPayload(payload), "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing shop status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateImageRequiresShop(t *testing.T) {
	server := newTestServer(t, newMemRepo())

	resp, err := http.Post(server.URL+"/generate-image", "application/json", bytes.NewReader([]byte(`{"prompt":"a red dragon"}`)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["error"] == "" {
		t.Error("error body missing")
	}
}

func TestCreateCheckoutEndpoint(t *testing.T) {
	repo := newMemRepo()
	repo.store = &domain.Store{ID: "store-1", ShopDomain: "example.myshopify.com", StorefrontToken: "sf-token"}
	repo.designs["design-1"] = &domain.Design{ID: "design-1", StoreID: "store-1", ImageURL: "https://cdn.example.com/d.png"}
	server := newTestServer(t, repo)

	body, _ := json.Marshal(map[string]interface{}{
		"shopId":    "store-1",
		"productId": "product-1",
		"designId":  "design-1",
		"variantId": "98765",
	})
	resp, err := http.Post(server.URL+"/create-checkout", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Success     bool   `json:"success"`
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.CheckoutURL != "https://example.myshopify.com/checkout/abc" {
		t.Errorf("response = %+v", out)
	}
}

func TestCreateCheckoutEndpointValidation(t *testing.T) {
	server := newTestServer(t, newMemRepo())

	resp, err := http.Post(server.URL+"/create-checkout", "application/json", bytes.NewReader([]byte(`{"shopId":"s"}`)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["error"] == "" {
		t.Error("error body missing")
	}
}
