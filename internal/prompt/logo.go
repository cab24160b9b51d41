package prompt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"postergen/internal/logging"

	"golang.org/x/sync/singleflight"
)

// LogoFetcher supplies the default organization logo. Errors are never
// fatal to compilation; the compiler falls back to a text-only description.
type LogoFetcher interface {
	FetchLogo(ctx context.Context) (Attachment, error)
}

// maxLogoBytes bounds the default logo download.
const maxLogoBytes = 10 << 20

// HTTPLogoFetcher downloads the default logo once and caches it.
// Concurrent callers share a single in-flight request.
type HTTPLogoFetcher struct {
	url    string
	client *http.Client

	group  singleflight.Group
	mu     sync.RWMutex
	cached *Attachment
}

// NewHTTPLogoFetcher creates a fetcher for the given URL.
func NewHTTPLogoFetcher(url string, timeout time.Duration) *HTTPLogoFetcher {
	return &HTTPLogoFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchLogo returns the cached logo or downloads it. Failures are not cached.
func (f *HTTPLogoFetcher) FetchLogo(ctx context.Context) (Attachment, error) {
	f.mu.RLock()
	cached := f.cached
	f.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	v, err, shared := f.group.Do(f.url, func() (interface{}, error) {
		a, err := f.download(ctx)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.cached = &a
		f.mu.Unlock()
		return a, nil
	})
	if err != nil {
		return Attachment{}, err
	}
	if shared {
		logging.Get(logging.CategoryBranding).Debug("default logo fetch shared with a concurrent caller")
	}
	return v.(Attachment), nil
}

func (f *HTTPLogoFetcher) download(ctx context.Context) (Attachment, error) {
	timer := logging.StartTimer(logging.CategoryBranding, "fetch default logo")
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Attachment{}, fmt.Errorf("build logo request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Attachment{}, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Attachment{}, fmt.Errorf("fetch logo: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return Attachment{}, fmt.Errorf("read logo: %w", err)
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("fetch logo: empty body")
	}

	mimeType := "image/png"
	if ct, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";"); strings.HasPrefix(ct, "image/") {
		mimeType = strings.TrimSpace(ct)
	}
	logging.Branding("default logo fetched: %d bytes (%s)", len(data), mimeType)
	return Attachment{Label: "default logo", MimeType: mimeType, Data: data}, nil
}
