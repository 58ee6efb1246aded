package upload

import (
	"context"
	"errors"
	"io"
)

// Disabled is the storage used when no OSS credentials are configured.
// Every upload fails; the rest of the API keeps working.
type Disabled struct{}

var _ Storage = Disabled{}

func (Disabled) Store(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("file storage is not configured")
}
