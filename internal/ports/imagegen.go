package ports

import "context"

// ImageGenerator produces an image from a text prompt and returns a URL
// where the provider hosts the result.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, style string, negativePrompt string) (string, error)
}
