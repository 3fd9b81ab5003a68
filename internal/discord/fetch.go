package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

const (
	// DefaultFetchTimeout bounds a single attachment download.
	DefaultFetchTimeout = 30 * time.Second

	// FetchRateLimit is the number of attachment downloads allowed per second.
	FetchRateLimit = 5.0

	// MaxAttachmentSize is the upload limit for bot messages without boosts.
	MaxAttachmentSize = 25 << 20

	defaultFileName = "attachment"
)

// ErrAttachmentTooLarge is returned when a download exceeds the size cap.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// Fetcher downloads tag attachments so they can be re-uploaded with a reply.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	maxSize    int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithRateLimit sets the download rate.
func WithRateLimit(limit rate.Limit, burst int) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithMaxSize sets the maximum accepted attachment size in bytes.
func WithMaxSize(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxSize = n
	}
}

// NewFetcher creates a rate-limited attachment fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		limiter:    rate.NewLimiter(rate.Limit(FetchRateLimit), 1),
		maxSize:    MaxAttachmentSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads one attachment.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*discordgo.File, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrAttachmentTooLarge, rawURL, f.maxSize)
	}

	return &discordgo.File{
		Name:        fileName(rawURL),
		ContentType: resp.Header.Get("Content-Type"),
		Reader:      bytes.NewReader(data),
	}, nil
}

// FetchAll downloads every URL in order. Any failure aborts the batch.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]*discordgo.File, error) {
	files := make([]*discordgo.File, 0, len(urls))
	for _, u := range urls {
		file, err := f.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// fileName takes the last path segment of the URL, ignoring the query.
func fileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultFileName
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return defaultFileName
	}
	return name
}
