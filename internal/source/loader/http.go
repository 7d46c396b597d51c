package loader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"
)

const acceptSpec = "application/toml, text/plain;q=0.9, */*;q=0.1"

// fetchSpec GETs a spec document. HTML responses are refused: they are almost
// always a web page served where raw TOML was expected.
func fetchSpec(ctx context.Context, client *http.Client, url string, timeout time.Duration, limit int64) ([]byte, error) {
	if url == "" {
		return nil, errors.New("source loader: url is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source loader: %w", err)
	}
	req.Header.Set("Accept", acceptSpec)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source loader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("source loader: fetch %s: unexpected status %s", url, resp.Status)
	}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType == "text/html" {
		return nil, fmt.Errorf("source loader: fetch %s: got an HTML page, not a TOML spec", url)
	}
	return readLimited(resp.Body, url, limit)
}
