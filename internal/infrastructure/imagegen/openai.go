package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIGenerator produces images from text prompts via the OpenAI images
// API.
type OpenAIGenerator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewOpenAIGenerator creates an OpenAI-backed image generator.
func NewOpenAIGenerator(apiKey string, logger zerolog.Logger) ports.ImageGenerator {
	return &OpenAIGenerator{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate renders the prompt and returns the URL of the generated image.
// Style and negative prompt hints are folded into the prompt text.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt, style, negativePrompt string) (string, error) {
	fullPrompt := prompt
	if style != "" {
		fullPrompt = fmt.Sprintf("%s, in %s style", fullPrompt, style)
	}
	if negativePrompt != "" {
		fullPrompt = fmt.Sprintf("%s. Avoid: %s", fullPrompt, negativePrompt)
	}

	body, err := json.Marshal(imageGenerationRequest{
		Model:  "dall-e-3",
		Prompt: fullPrompt,
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call image API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error().Int("status", resp.StatusCode).Msg("image generation failed")
		return "", &domain.UpstreamError{Op: "image generation", Body: strings.TrimSpace(string(respBody))}
	}

	var result imageGenerationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode image API response: %w", err)
	}
	if result.Error != nil {
		return "", &domain.UpstreamError{Op: "image generation", Body: result.Error.Message}
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", &domain.UpstreamError{Op: "image generation", Body: "no image returned"}
	}

	return result.Data[0].URL, nil
}
