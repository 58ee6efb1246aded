package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage stores uploads in an Alibaba Cloud OSS bucket.
type OSSStorage struct {
	bucket    *oss.Bucket
	publicURL string
}

var _ Storage = (*OSSStorage)(nil)

// NewOSSStorage dials the endpoint and resolves the bucket. publicURL
// is the base under which stored keys are reachable, e.g. the bucket's
// CDN domain; it defaults to the virtual-hosted bucket endpoint.
func NewOSSStorage(endpoint, accessKey, secretKey, bucketName, publicURL string) (*OSSStorage, error) {
	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.%s", bucketName, strings.TrimPrefix(endpoint, "https://"))
	}
	return &OSSStorage{bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *OSSStorage) Store(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	}
	if err := s.bucket.PutObject(key, r, opts...); err != nil {
		return "", fmt.Errorf("oss put %q: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}
