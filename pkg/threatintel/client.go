package threatintel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// NewHTTPClient builds the single client shared by every fetch of a process.
// A zero timeout leaves requests bounded only by the caller's context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = http.ProxyFromEnvironment
	tr.MaxIdleConnsPerHost = 8

	return &http.Client{Timeout: timeout, Transport: tr}
}

// download reads the whole body of url and returns it with the declared content type.
func download(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrNetwork, url, err)
	}

	log.Debug().Str("url", url).Msg("fetching feed")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s: bad status: %s", ErrNetwork, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: reading body: %w", ErrNetwork, url, err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
