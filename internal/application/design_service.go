package application

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DesignService persists customer designs and generates design imagery from
// text prompts.
type DesignService struct {
	designs    ports.DesignRepository
	uploader   ports.Uploader
	generator  ports.ImageGenerator
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDesignService creates the design service. generator may be nil when no
// image generation backend is configured.
func NewDesignService(
	designs ports.DesignRepository,
	uploader ports.Uploader,
	generator ports.ImageGenerator,
	logger zerolog.Logger,
) *DesignService {
	return &DesignService{
		designs:    designs,
		uploader:   uploader,
		generator:  generator,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

// SaveDesignInput carries a design submission. ImageData is a base64 payload,
// optionally with a data-URL prefix.
type SaveDesignInput struct {
	StoreID   string
	ProductID string
	ImageData string
	Metadata  map[string]interface{}
}

// SaveDesign decodes the submitted image, uploads it, and records the design
// row pointing at the stored image.
func (s *DesignService) SaveDesign(ctx context.Context, input SaveDesignInput) (*domain.Design, error) {
	if input.StoreID == "" || input.ProductID == "" || input.ImageData == "" {
		return nil, &domain.ValidationError{Message: "storeId, productId, and imageData are required"}
	}

	raw := input.ImageData
	if i := strings.Index(raw, ";base64,"); i >= 0 && strings.HasPrefix(raw, "data:image/") {
		raw = raw[i+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, &domain.ValidationError{Message: "imageData is not valid base64"}
	}

	fileName := fmt.Sprintf("design-%d.png", time.Now().UnixMilli())
	imageURL, err := s.uploader.Upload(ctx, data, fileName, "designs")
	if err != nil {
		return nil, err
	}

	design := &domain.Design{
		ID:        uuid.NewString(),
		StoreID:   input.StoreID,
		ProductID: input.ProductID,
		ImageURL:  imageURL,
		Metadata:  input.Metadata,
		CreatedAt: time.Now(),
	}
	if err := s.designs.CreateDesign(ctx, design); err != nil {
		return nil, err
	}

	s.logger.Info().Str("designId", design.ID).Str("storeId", design.StoreID).Msg("design saved")
	return design, nil
}

// GenerateImage renders a prompt with the configured generator, copies the
// result into app storage, and returns the durable URL. Generator result URLs
// expire, so the image is re-hosted before returning.
func (s *DesignService) GenerateImage(ctx context.Context, prompt, style, negativePrompt string) (string, error) {
	if s.generator == nil {
		return "", &domain.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}
	if prompt == "" {
		return "", &domain.ValidationError{Message: "prompt is required"}
	}

	sourceURL, err := s.generator.Generate(ctx, prompt, style, negativePrompt)
	if err != nil {
		return "", err
	}

	data, err := s.download(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("ai-generated-%d.png", time.Now().UnixMilli())
	imageURL, err := s.uploader.Upload(ctx, data, fileName, "ai-generated")
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("imageUrl", imageURL).Msg("generated image stored")
	return imageURL, nil
}

func (s *DesignService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download generated image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{Op: "generated image download", Body: string(body)}
	}
	return io.ReadAll(resp.Body)
}
