package moviedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domcat "github.com/cinewise/moviedex/internal/domain/catalog"
	"github.com/cinewise/moviedex/internal/domain/movie"
	domses "github.com/cinewise/moviedex/internal/domain/session"
	catalogrepo "github.com/cinewise/moviedex/internal/repository/catalog"
	sessionrepo "github.com/cinewise/moviedex/internal/repository/session"
	"github.com/cinewise/moviedex/internal/transport/openai"
	"github.com/cinewise/moviedex/internal/transport/tmdb"
	detailsuc "github.com/cinewise/moviedex/internal/usecase/details"
	healthuc "github.com/cinewise/moviedex/internal/usecase/health"
	recommenduc "github.com/cinewise/moviedex/internal/usecase/recommend"
)

// Provider and session defaults, matching the server configuration.
const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultLanguage     = "en-US"
	defaultFetchTimeout = 10 * time.Second
	defaultProbeTimeout = 5 * time.Second

	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 400

	defaultTopK          = 5
	defaultMaxIdle       = time.Hour
	defaultSweepInterval = 5 * time.Minute
)

// Internal interfaces for test substitution.
type recommendUseCase interface {
	Titles(query string) []string
	Recommend(ctx context.Context, title string, k int) (recommenduc.Recommendation, error)
}

type detailsUseCase interface {
	Open(ctx context.Context, sessionID, movieID string) (movie.Metadata, error)
	Current(sessionID string) (domses.Selection, error)
	Close(sessionID string)
	Summary(ctx context.Context, sessionID, movieID string) (string, error)
}

// Client is the moviedex SDK entry point.
type Client struct {
	recSvc      recommendUseCase
	detSvc      detailsUseCase
	healthSvc   healthUseCase
	prober      healthuc.ReachabilityProber
	obs         *observer
	stopJanitor context.CancelFunc
}

// New creates a moviedex Client and loads the catalog snapshot.
// The provided context is used for the advisory startup reachability
// probe; an unreachable metadata provider degrades features per call and
// never fails construction.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		tmdbBaseURL:      defaultTMDBBaseURL,
		tmdbImageBaseURL: defaultImageBaseURL,
		tmdbLanguage:     defaultLanguage,
		fetchTimeout:     defaultFetchTimeout,
		probeTimeout:     defaultProbeTimeout,
		openaiModel:      defaultModel,
		openaiMaxTokens:  defaultMaxTokens,
		topK:             defaultTopK,
		maxIdle:          defaultMaxIdle,
		sweepInterval:    defaultSweepInterval,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.tablePath == "" || cfg.matrixPath == "" {
		return nil, errors.New("moviedex: snapshot paths required (use WithSnapshot)")
	}

	cat, err := catalogrepo.Load(cfg.tablePath, cfg.matrixPath)
	if err != nil {
		return nil, fmt.Errorf("moviedex: load snapshot: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	cli := wireClient(cat, cfg, obs)

	if cfg.logger != nil && cli.prober != nil && !cli.prober.Reachable(ctx) {
		cfg.logger.Warn("metadata provider unreachable",
			"hint", "metadata and summaries degrade per call until it recovers",
		)
	}
	return cli, nil
}

func wireClient(cat *domcat.Catalog, cfg *clientConfig, obs *observer) *Client {
	nop := zap.NewNop()

	var fetcher detailsuc.Fetcher = noopFetcher{}
	var prober healthuc.ReachabilityProber
	switch {
	case cfg.fetcher != nil:
		fetcher = &fetcherAdapter{inner: cfg.fetcher}
		if p, ok := cfg.fetcher.(healthuc.ReachabilityProber); ok {
			prober = p
		}
	case cfg.tmdbAPIKey != "":
		tc := tmdb.NewClient(&tmdb.Config{
			BaseURL:      cfg.tmdbBaseURL,
			ImageBaseURL: cfg.tmdbImageBaseURL,
			APIKey:       cfg.tmdbAPIKey,
			Language:     cfg.tmdbLanguage,
			FetchTimeout: cfg.fetchTimeout,
			ProbeTimeout: cfg.probeTimeout,
			Logger:       nop,
		})
		fetcher = tc
		prober = tc
	}

	var summarizer detailsuc.Summarizer = noopSummarizer{}
	var checker healthuc.SummaryChecker
	switch {
	case cfg.summarizer != nil:
		summarizer = cfg.summarizer
		if h, ok := cfg.summarizer.(healthuc.SummaryChecker); ok {
			checker = h
		}
	case cfg.openaiAPIKey != "":
		sc := openai.NewSummarizer(&openai.Config{
			APIKey:    cfg.openaiAPIKey,
			BaseURL:   cfg.openaiBaseURL,
			Model:     cfg.openaiModel,
			MaxTokens: cfg.openaiMaxTokens,
			Logger:    nop,
		})
		summarizer = sc
		checker = sc
	}

	store := sessionrepo.New(cfg.maxIdle)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go store.Janitor(janitorCtx, cfg.sweepInterval, nop)

	return &Client{
		recSvc:      recommenduc.New(cat, fetcher, cfg.topK, nop),
		detSvc:      detailsuc.New(fetcher, summarizer, store, nop),
		healthSvc:   healthuc.New(cat, prober, checker),
		prober:      prober,
		obs:         obs,
		stopJanitor: stopJanitor,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.stopJanitor != nil {
		c.stopJanitor()
	}
}

// Recommendations returns the recommendation service.
func (c *Client) Recommendations() *RecommendService {
	return &RecommendService{svc: c.recSvc, obs: c.obs}
}

// Details returns the detail-view service scoped to a session key. The key
// is whatever the host application uses to distinguish viewers; each key
// holds at most one open selection.
func (c *Client) Details(session string) *DetailsService {
	return &DetailsService{
		session: session,
		svc:     c.detSvc,
		obs:     c.obs,
	}
}
