// Package images retrieves slide illustrations from a seed-based image
// provider and decodes user-supplied data URIs. A fetch that fails for any
// reason yields no image; deck export never depends on one succeeding.
package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL serves a stable image for a given seed string.
	DefaultBaseURL = "https://picsum.photos"

	fetchTimeout  = 4 * time.Second
	imageWidth    = 800
	imageHeight   = 600
	maxImageBytes = 10 << 20
	maxConcurrent = 4
)

// Image is a fetched or decoded illustration ready for embedding.
type Image struct {
	Data []byte
	MIME string
}

// Fetcher downloads seed-keyed images over HTTP.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL overrides the image provider endpoint.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher returns a Fetcher talking to DefaultBaseURL unless overridden.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the image for seed. The request is bounded by its own
// timeout so one slow provider cannot stall a whole export. A non-2xx status
// or a non-image payload is reported as an error.
func (f *Fetcher) Fetch(ctx context.Context, seed string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/seed/%s/%d/%d", f.baseURL, url.PathEscape(seed), imageWidth, imageHeight)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image for seed %q: %w", seed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image for seed %q: unexpected status %d", seed, resp.StatusCode)
	}
	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("fetch image for seed %q: unexpected content type %q", seed, mime)
	}

	// Read one byte past the cap so oversize bodies are rejected instead of
	// silently truncated.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body for seed %q: %w", seed, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("fetch image for seed %q: exceeds %d bytes", seed, maxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch image for seed %q: empty body", seed)
	}
	return &Image{Data: data, MIME: mime}, nil
}

// FetchAll fetches images for all seeds concurrently. Keys of seeds identify
// slides; the returned map carries only the fetches that succeeded. Failures
// are logged and skipped, never propagated.
func (f *Fetcher) FetchAll(ctx context.Context, seeds map[string]string) map[string]Image {
	out := make(map[string]Image, len(seeds))
	if len(seeds) == 0 {
		return out
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for id, seed := range seeds {
		g.Go(func() error {
			img, err := f.Fetch(ctx, seed)
			if err != nil {
				f.logger.Warn("image fetch skipped", "seed", seed, "error", err)
				return nil
			}
			mu.Lock()
			out[id] = *img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// DecodeDataURI parses a data:image/...;base64 URI into an Image.
func DecodeDataURI(uri string) (*Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	mime, found := strings.CutSuffix(meta, ";base64")
	if !found {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("unsupported media type %q", mime)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data URI payload")
	}
	return &Image{Data: data, MIME: mime}, nil
}
