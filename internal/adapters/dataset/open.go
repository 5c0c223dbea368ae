// Package dataset reads the route table and the country boundaries from
// local files or HTTP(S) URLs.
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultClient is used when a source is created without an HTTP client.
var DefaultClient = &http.Client{Timeout: 120 * time.Second}

// NewClient returns a client for dataset fetches. A non-positive timeout
// keeps the default of DefaultClient.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return DefaultClient
	}
	return &http.Client{Timeout: timeout}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// open returns a reader over location, fetching it when it is a URL.
func open(ctx context.Context, client *http.Client, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, location)
	}
	return resp.Body, nil
}

// Fingerprint identifies the current revision of location without reading
// it: ETag or Last-Modified for URLs, size and modification time for files.
func Fingerprint(ctx context.Context, client *http.Client, location string) (string, error) {
	if client == nil {
		client = DefaultClient
	}
	if !isRemote(location) {
		fi, err := os.Stat(location)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", location, err)
		}
		return fmt.Sprintf("%d-%d", fi.Size(), fi.ModTime().UnixNano()), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, location, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("head %s: %w", location, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, location)
	}
	if etag := resp.Header.Get("ETag"); etag != "" {
		return etag, nil
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		return lm, nil
	}
	return fmt.Sprintf("len-%d", resp.ContentLength), nil
}
