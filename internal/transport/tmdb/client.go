package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain"
	"github.com/cinewise/moviedex/internal/domain/movie"
	"github.com/cinewise/moviedex/internal/metrics"
)

// Client talks to a TMDB-compatible metadata API. One Client carries one
// HTTP connection pool, shared by every concurrent fetch.
type Client struct {
	http         *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	fetchTimeout time.Duration
	probeTimeout time.Duration
	logger       *zap.Logger
}

// Config holds the metadata provider settings.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Language     string
	FetchTimeout time.Duration
	ProbeTimeout time.Duration
	Logger       *zap.Logger
}

// NewClient creates a metadata provider client.
func NewClient(cfg *Config) *Client {
	return &Client{
		http:         &http.Client{},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		fetchTimeout: cfg.FetchTimeout,
		probeTimeout: cfg.ProbeTimeout,
		logger:       cfg.Logger,
	}
}

// Fetch retrieves one movie's metadata. Every call carries its own timeout,
// independent of sibling fetches; a missing movie yields ErrMovieNotFound,
// everything else (non-2xx, timeout, malformed body) wraps
// ErrMetadataProviderError.
func (c *Client) Fetch(ctx context.Context, id string) (movie.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.movieURL(id), http.NoBody)
	if err != nil {
		return movie.Metadata{}, fmt.Errorf("build metadata request: %w", err)
	}

	start := time.Now()

	resp, err := c.http.Do(req)

	duration := time.Since(start)

	if err != nil {
		errType := "transport"
		if errors.Is(err, context.DeadlineExceeded) {
			errType = "timeout"
		}
		metrics.MetadataRequestsTotal.WithLabelValues("error").Inc()
		metrics.MetadataErrorsTotal.WithLabelValues(errType).Inc()
		return movie.Metadata{}, fmt.Errorf("fetch movie %s: %v: %w", id, err, domain.ErrMetadataProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.MetadataRequestsTotal.WithLabelValues("error").Inc()
		metrics.MetadataErrorsTotal.WithLabelValues("not_found").Inc()
		return movie.Metadata{}, fmt.Errorf("movie %s: %w", id, domain.ErrMovieNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.MetadataRequestsTotal.WithLabelValues("error").Inc()
		metrics.MetadataErrorsTotal.WithLabelValues("status").Inc()
		return movie.Metadata{}, fmt.Errorf("metadata API status %d for movie %s: %w",
			resp.StatusCode, id, domain.ErrMetadataProviderError)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.MetadataRequestsTotal.WithLabelValues("error").Inc()
		metrics.MetadataErrorsTotal.WithLabelValues("transport").Inc()
		return movie.Metadata{}, fmt.Errorf("read movie %s body: %v: %w", id, err, domain.ErrMetadataProviderError)
	}

	m, err := metadataFromPayload(id, raw, c.imageBaseURL)
	if err != nil {
		metrics.MetadataRequestsTotal.WithLabelValues("error").Inc()
		metrics.MetadataErrorsTotal.WithLabelValues("malformed").Inc()
		return movie.Metadata{}, fmt.Errorf("movie %s: %w", id, err)
	}

	metrics.MetadataRequestsTotal.WithLabelValues("success").Inc()
	metrics.MetadataRequestDuration.WithLabelValues("success").Observe(duration.Seconds())

	return m, nil
}

// Reachable probes the provider's configuration endpoint. True only on an
// exact 200; timeouts, transport errors, and every other status are false.
// Advisory: callers warn and proceed, they never gate on it.
func (c *Client) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.configurationURL(), http.NoBody)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProbeChecksTotal.WithLabelValues("down").Inc()
		c.logger.Debug("metadata provider probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		metrics.ProbeChecksTotal.WithLabelValues("down").Inc()
		c.logger.Debug("metadata provider probe returned non-200", zap.Int("status", resp.StatusCode))
		return false
	}
	metrics.ProbeChecksTotal.WithLabelValues("up").Inc()
	return true
}

func (c *Client) movieURL(id string) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	return fmt.Sprintf("%s/movie/%s?%s", c.baseURL, url.PathEscape(id), q.Encode())
}

func (c *Client) configurationURL() string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	return fmt.Sprintf("%s/configuration?%s", c.baseURL, q.Encode())
}
