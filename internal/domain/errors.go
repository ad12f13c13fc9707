package domain

import "fmt"

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown shop, product, or design.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthError reports a failed signature or state verification.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ConfigurationError reports a missing credential or environment value.
// The message names the missing setting.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("server configuration error: %s is not set", e.Setting)
}

// UpstreamError reports a non-success response from an external API.
// The raw response body is carried for diagnostics.
type UpstreamError struct {
	Op   string
	Body string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Body)
}

// TokenExchangeError reports a failed OAuth code-for-token exchange.
type TokenExchangeError struct {
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("oauth token exchange failed: status %d, body: %s", e.StatusCode, e.Body)
}

// CheckoutCreationError reports GraphQL or user errors from the storefront
// checkout mutation. Payload holds the serialized error list.
type CheckoutCreationError struct {
	Payload string
}

func (e *CheckoutCreationError) Error() string {
	return fmt.Sprintf("checkout creation failed: %s", e.Payload)
}
