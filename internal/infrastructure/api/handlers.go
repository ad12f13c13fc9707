package api

import (
	"encoding/json"
	"io"
	"net/http"

	"customizer-shopify-layer/internal/application"
	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/infrastructure/shopify"
	"customizer-shopify-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers exposes the storefront and merchant API surface.
type Handlers struct {
	checkouts  *application.CheckoutService
	designs    *application.DesignService
	catalog    *application.CatalogService
	verifier   *shopify.WebhookVerifier
	dispatcher *application.WebhookDispatcher
	webhookLog ports.WebhookLog
	logger     zerolog.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(
	checkouts *application.CheckoutService,
	designs *application.DesignService,
	catalog *application.CatalogService,
	verifier *shopify.WebhookVerifier,
	dispatcher *application.WebhookDispatcher,
	webhookLog ports.WebhookLog,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		checkouts:  checkouts,
		designs:    designs,
		catalog:    catalog,
		verifier:   verifier,
		dispatcher: dispatcher,
		webhookLog: webhookLog,
		logger:     logger,
	}
}

// Routes mounts the API surface on a chi router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/create-checkout", h.createCheckout)
	r.Post("/save-design", h.saveDesign)
	r.Post("/generate-image", h.generateImage)
	r.Post("/link-product", h.linkProduct)
	r.Get("/products", h.listProducts)
	r.Get("/product-details", h.productDetails)
	r.Get("/shopify-products", h.listShopifyProducts)
	r.Post("/webhooks/app_uninstalled", h.handleWebhook("app/uninstalled"))
	r.Post("/webhooks/orders_create", h.handleWebhook("orders/create"))

	return r
}

func (h *Handlers) createCheckout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ShopID    string `json:"shopId"`
		ProductID string `json:"productId"`
		DesignID  string `json:"designId"`
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &domain.ValidationError{Message: "invalid JSON body"})
		return
	}

	checkoutURL, err := h.checkouts.CreateCheckout(r.Context(), application.CreateCheckoutInput{
		ShopID:    body.ShopID,
		ProductID: body.ProductID,
		DesignID:  body.DesignID,
		VariantID: body.VariantID,
		Quantity:  body.Quantity,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("checkout creation failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"checkoutUrl": checkoutURL,
	})
}

func (h *Handlers) saveDesign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StoreID   string                 `json:"storeId"`
		ProductID string                 `json:"productId"`
		ImageData string                 `json:"imageData"`
		Metadata  map[string]interface{} `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &domain.ValidationError{Message: "invalid JSON body"})
		return
	}

	design, err := h.designs.SaveDesign(r.Context(), application.SaveDesignInput{
		StoreID:   body.StoreID,
		ProductID: body.ProductID,
		ImageData: body.ImageData,
		Metadata:  body.Metadata,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("design save failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"design": map[string]string{
			"id":       design.ID,
			"imageUrl": design.ImageURL,
		},
	})
}

func (h *Handlers) generateImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Shop           string `json:"shop"`
		Prompt         string `json:"prompt"`
		Style          string `json:"style"`
		NegativePrompt string `json:"negativePrompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &domain.ValidationError{Message: "invalid JSON body"})
		return
	}
	if body.Shop == "" {
		writeError(w, &domain.ValidationError{Message: "shop is required"})
		return
	}

	imageURL, err := h.designs.GenerateImage(r.Context(), body.Prompt, body.Style, body.NegativePrompt)
	if err != nil {
		h.logger.Error().Err(err).Msg("image generation failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"imageUrl": imageURL,
	})
}

func (h *Handlers) linkProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Shop      string `json:"shop"`
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &domain.ValidationError{Message: "invalid JSON body"})
		return
	}

	product, err := h.catalog.LinkProduct(r.Context(), body.Shop, body.ProductID, body.VariantID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListLinkedProducts(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

func (h *Handlers) productDetails(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductDetails(r.Context(), r.URL.Query().Get("shop"), r.URL.Query().Get("productId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

func (h *Handlers) listShopifyProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListShopifyProducts(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

// handleWebhook verifies the HMAC signature over the raw body, logs the
// event, and dispatches it. Verification failures never reach handlers.
func (h *Handlers) handleWebhook(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get("X-Shopify-Hmac-Sha256")
		shop := r.Header.Get("X-Shopify-Shop-Domain")
		if signature == "" || shop == "" {
			writeError(w, &domain.ValidationError{Message: "missing webhook headers"})
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, &domain.ValidationError{Message: "failed to read request body"})
			return
		}

		if err := h.verifier.Verify(payload, signature); err != nil {
			h.logger.Warn().Str("shop", shop).Str("topic", topic).Msg("webhook signature rejected")
			writeError(w, &domain.AuthError{Message: "invalid signature"})
			return
		}

		event := &domain.WebhookEvent{
			Topic:    topic,
			Shop:     shop,
			Payload:  payload,
			Verified: true,
		}

		if err := h.webhookLog.LogWebhook(r.Context(), event); err != nil {
			h.logger.Error().Err(err).Str("topic", topic).Msg("failed to log webhook event")
		}

		if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
			h.logger.Error().Err(err).Str("topic", topic).Msg("webhook processing failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to process webhook event"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
