package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"customizer-shopify-layer/internal/domain"
	"customizer-shopify-layer/internal/ports"
)

// SupabaseUploader stores images in a Supabase Storage bucket and returns
// their public URLs.
type SupabaseUploader struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseUploader creates a Supabase Storage uploader.
func NewSupabaseUploader(baseURL, serviceKey, bucket string) ports.Uploader {
	return &SupabaseUploader{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: http.DefaultClient,
	}
}

// Upload writes the payload to <folder>/<timestamp>-<random>.<ext> and
// returns the bucket's public URL for the object.
func (u *SupabaseUploader) Upload(ctx context.Context, data []byte, fileName string, folder string) (string, error) {
	if u.baseURL == "" || u.serviceKey == "" {
		return "", &domain.ConfigurationError{Setting: "SUPABASE_URL/SUPABASE_SERVICE_KEY"}
	}

	objectPath := fmt.Sprintf("%s/%d-%s.%s", folder, time.Now().UnixMilli(), randomSuffix(), extensionOf(fileName))

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.serviceKey)
	req.Header.Set("Content-Type", "image/"+extensionOf(fileName))

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &domain.UpstreamError{Op: "image upload", Body: string(body)}
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, objectPath), nil
}

func extensionOf(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		return fileName[i+1:]
	}
	return "png"
}

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
