package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const checkoutCreateMutation = `
mutation checkoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout {
      webUrl
    }
    userErrors {
      field
      message
    }
  }
}`

type storefrontClient struct {
	httpClient *http.Client
	scheme     string
	logger     zerolog.Logger
}

// NewStorefrontClient creates a Storefront API client adapter.
func NewStorefrontClient(logger zerolog.Logger) ports.StorefrontClient {
	return &storefrontClient{
		httpClient: http.DefaultClient,
		scheme:     "https",
		logger:     logger,
	}
}

type graphQLError struct {
	Message string `json:"message"`
}

type checkoutCreateResponse struct {
	Data struct {
		CheckoutCreate struct {
			Checkout *struct {
				WebURL string `json:"webUrl"`
			} `json:"checkout"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"checkoutCreate"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// CreateCheckout issues the checkoutCreate mutation with a single line item.
// The caller is responsible for GID-normalizing the variant id; the mutation
// rejects bare numeric ids.
func (c *storefrontClient) CreateCheckout(
	ctx context.Context,
	shop string,
	storefrontToken string,
	variantID string,
	quantity int,
	attributes []domain.CheckoutAttribute,
) (string, error) {
	if attributes == nil {
		attributes = []domain.CheckoutAttribute{}
	}

	body := map[string]interface{}{
		"query": checkoutCreateMutation,
		"variables": map[string]interface{}{
			"input": map[string]interface{}{
				"lineItems": []map[string]interface{}{
					{
						"variantId":        variantID,
						"quantity":         quantity,
						"customAttributes": attributes,
					},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode checkout mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s://%s/api/%s/graphql.json", c.scheme, shop, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", storefrontToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read checkout response: %w", err)
	}

	var out checkoutCreateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &domain.UpstreamError{Op: "checkout creation", Body: string(raw)}
	}

	if len(out.Errors) > 0 {
		serialized, _ := json.Marshal(out.Errors)
		return "", &domain.CheckoutCreationError{Payload: string(serialized)}
	}
	if len(out.Data.CheckoutCreate.UserErrors) > 0 {
		serialized, _ := json.Marshal(out.Data.CheckoutCreate.UserErrors)
		return "", &domain.CheckoutCreationError{Payload: string(serialized)}
	}
	if out.Data.CheckoutCreate.Checkout == nil || out.Data.CheckoutCreate.Checkout.WebURL == "" {
		return "", &domain.CheckoutCreationError{Payload: string(raw)}
	}

	return out.Data.CheckoutCreate.Checkout.WebURL, nil
}
