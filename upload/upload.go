// Package upload is the file-storage collaborator used for homework
// submissions: bytes in, public URL out.
package upload

import (
	"context"
	"io"
)

type Storage interface {
	// Store writes the object under key and returns its public URL.
	Store(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
