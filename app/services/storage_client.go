package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// StorageClient uploads property photos to the object-storage
// collaborator and returns a publicly resolvable URL.
type StorageClient interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// PhotoKey builds the storage key for a record's primary photo
func PhotoKey(userID uint, recordUUID, ext string) string {
	return fmt.Sprintf("%d/%s.%s", userID, recordUUID, strings.TrimPrefix(ext, "."))
}

// ExtraPhotoKey builds the storage key for a supplementary photo
func ExtraPhotoKey(userID uint, recordUUID string, index int, ext string) string {
	return fmt.Sprintf("%d/%s/extra_%d.%s", userID, recordUUID, index, strings.TrimPrefix(ext, "."))
}

// RestyStorageClient implements StorageClient against an S3-compatible
// HTTP endpoint. Objects are PUT under the bucket path and served from
// the public base URL.
type RestyStorageClient struct {
	client        *resty.Client
	endpoint      string
	bucket        string
	publicBaseURL string
}

func NewStorageClient(endpoint, bucket, accessToken, publicBaseURL string, timeout time.Duration) *RestyStorageClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	if accessToken != "" {
		client.SetAuthToken(accessToken)
	}

	return &RestyStorageClient{
		client:        client,
		endpoint:      strings.TrimRight(endpoint, "/"),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *RestyStorageClient) objectURL(key string) string {
	return s.endpoint + "/" + s.bucket + "/" + key
}

// Upload stores the object and returns its public URL
func (s *RestyStorageClient) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(s.objectURL(key))
	if err != nil {
		return "", fmt.Errorf("storage upload %s: %w", key, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("storage upload %s: status %d", key, resp.StatusCode())
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object; a missing object is not an error
func (s *RestyStorageClient) Delete(ctx context.Context, key string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(s.objectURL(key))
	if err != nil {
		return fmt.Errorf("storage delete %s: %w", key, err)
	}
	if resp.StatusCode() >= 300 && resp.StatusCode() != 404 {
		return fmt.Errorf("storage delete %s: status %d", key, resp.StatusCode())
	}

	return nil
}
