package storage

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// uploadAttempts bounds retries of the remote upload call.
const uploadAttempts = 3

// Client stores reference-image binaries in a Supabase Storage bucket. The
// database keeps only paths, URLs and captions.
type Client struct {
	client   *storage.Client
	bucket   string
	baseURL  string
	backoffs []time.Duration
}

func NewClient(supabaseURL, publishableKey, bucket string) (*Client, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", publishableKey, nil)

	return &Client{
		client:   client,
		bucket:   bucket,
		baseURL:  baseURL,
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}, nil
}

// UploadReferenceImage writes one image under orders/{order_id}/ and returns
// the storage path and public URL. Filenames get a random prefix so repeated
// uploads of the same file never clobber each other.
func (s *Client) UploadReferenceImage(orderID uint64, filename, contentType string, data []byte) (string, string, error) {
	storagePath := fmt.Sprintf("orders/%d/%s_%s", orderID, uuid.New().String()[:8], filename)

	upsert := false
	err := s.RetryWithBackoff(func() error {
		_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		return err
	}, uploadAttempts)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, s.PublicURL(storagePath), nil
}

func (s *Client) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *Client) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteOrderFiles removes everything stored under an order's prefix. Used by
// the staff delete path before the database cascade runs.
func (s *Client) DeleteOrderFiles(orderID uint64) error {
	prefix := fmt.Sprintf("orders/%d/", orderID)

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = file.Name
		}
		_, err = s.client.RemoveFile(s.bucket, filePaths)
		if err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}

// RetryWithBackoff retries fn with a short fixed backoff schedule. Bucket
// uploads ride through transient storage errors this way.
func (s *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(s.backoffs) {
			time.Sleep(s.backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
