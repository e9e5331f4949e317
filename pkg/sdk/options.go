package moviedex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	tablePath  string
	matrixPath string

	fetcher    MetadataFetcher
	summarizer SummaryProvider

	tmdbAPIKey       string
	tmdbBaseURL      string
	tmdbImageBaseURL string
	tmdbLanguage     string
	fetchTimeout     time.Duration
	probeTimeout     time.Duration

	openaiAPIKey    string
	openaiBaseURL   string
	openaiModel     string
	openaiMaxTokens int

	topK          int
	maxIdle       time.Duration
	sweepInterval time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSnapshot points the client at the packed snapshot blobs: the catalog
// table and the similarity matrix. Required.
func WithSnapshot(tablePath, matrixPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tablePath = tablePath
		c.matrixPath = matrixPath
	})
}

// WithTMDB enables the built-in TMDB metadata provider.
func WithTMDB(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tmdbAPIKey = apiKey
	})
}

// WithTMDBBaseURL overrides the TMDB API and image base URLs,
// for proxies and compatible providers.
func WithTMDBBaseURL(baseURL, imageBaseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tmdbBaseURL = baseURL
		c.tmdbImageBaseURL = imageBaseURL
	})
}

// WithTMDBLanguage sets the metadata language. Defaults to "en-US".
func WithTMDBLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tmdbLanguage = lang
	})
}

// WithFetchTimeouts sets the per-fetch and reachability-probe timeouts for
// the built-in TMDB provider. Defaults: 10s fetch, 5s probe.
func WithFetchTimeouts(fetch, probe time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetchTimeout = fetch
		c.probeTimeout = probe
	})
}

// WithOpenAI enables the built-in OpenAI-compatible summary provider.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiAPIKey = apiKey
	})
}

// WithOpenAIBaseURL overrides the chat completion endpoint, for proxies
// and compatible providers.
func WithOpenAIBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiBaseURL = baseURL
	})
}

// WithModel sets the summary model and its completion token cap.
// Defaults: "gpt-4o-mini", 400 tokens. maxTokens <= 0 keeps the default.
func WithModel(model string, maxTokens int) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiModel = model
		if maxTokens > 0 {
			c.openaiMaxTokens = maxTokens
		}
	})
}

// WithFetcher sets a custom metadata provider, replacing the built-in
// TMDB client.
func WithFetcher(f MetadataFetcher) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetcher = f
	})
}

// WithSummarizer sets a custom summary provider, replacing the built-in
// OpenAI client.
func WithSummarizer(s SummaryProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarizer = s
	})
}

// WithTopK sets the default neighbor count for recommend calls that do not
// ask for a specific one. Defaults to 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithSessionIdle sets how long an untouched detail selection survives and
// how often the janitor sweeps. Defaults: 1h idle, 5m sweep.
func WithSessionIdle(maxIdle, sweepInterval time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxIdle = maxIdle
		c.sweepInterval = sweepInterval
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
