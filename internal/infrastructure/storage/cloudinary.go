package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"customizer-shopify-layer/internal/ports"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores images in Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL string) (ports.Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{client: cld}, nil
}

// Upload sends the payload to Cloudinary and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, fileName string, folder string) (string, error) {
	publicID := strings.TrimSuffix(fileName, "."+extensionOf(fileName))

	result, err := u.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return result.SecureURL, nil
}
