// Package storage talks to the managed blob-storage service over its
// Supabase-compatible object HTTP API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shelterly/shelterly/internal/pkg/metrics"
)

// Client implements ports.BlobStorage against a single bucket.
type Client struct {
	baseURL    string
	bucket     string
	serviceKey string
	http       *http.Client
}

// New creates a storage client for the given bucket.
func New(baseURL, bucket, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) objectURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)
}

// Put writes an object. Existing objects are not overwritten; the caller's
// paths are timestamped so collisions mean a bug, not a retry.
func (c *Client) Put(ctx context.Context, path string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Upsert", "false")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage put: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Delete removes an object. Only called as the compensating action after a
// failed metadata write, so failures feed the cleanup-failure counter.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(path), nil)
	if err != nil {
		return fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UploadCleanupFailures.Inc()
		return fmt.Errorf("storage delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UploadCleanupFailures.Inc()
		return fmt.Errorf("storage delete: unexpected status %d", resp.StatusCode)
	}
	return nil
}
