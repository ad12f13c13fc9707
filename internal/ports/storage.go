package ports

import "context"

// Uploader stores an image payload and returns its durable public URL.
// The file name supplies the extension; implementations choose the final
// object path within the folder.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName string, folder string) (string, error)
}
