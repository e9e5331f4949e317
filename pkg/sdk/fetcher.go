package moviedex

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinewise/moviedex/internal/domain/movie"
)

// MetadataFetcher retrieves one movie's metadata from a provider.
// Optional; without one, recommendation slots carry no details. If the
// implementation also exposes Reachable(ctx) bool, Health reports the
// provider check from it.
type MetadataFetcher interface {
	Fetch(ctx context.Context, id string) (MovieDetails, error)
}

// SummaryProvider generates a natural-language summary from a movie's raw
// metadata payload. Optional; without one, summaries degrade to a fixed
// fallback sentence. If the implementation also exposes
// HealthCheck(ctx) error, Health reports the provider check from it.
type SummaryProvider interface {
	Summarize(ctx context.Context, title string, payload []byte) (string, error)
}

// fetcherAdapter wraps a public MetadataFetcher to satisfy the internal
// fetcher contracts.
type fetcherAdapter struct {
	inner MetadataFetcher
}

func (a *fetcherAdapter) Fetch(ctx context.Context, id string) (movie.Metadata, error) {
	d, err := a.inner.Fetch(ctx, id)
	if err != nil {
		return movie.Metadata{}, fmt.Errorf("fetch: %w", err)
	}
	return toInternalMetadata(d), nil
}

// noopFetcher returns an error on Fetch (used when no provider configured),
// which leaves recommendation slots without details instead of failing them.
type noopFetcher struct{}

func (noopFetcher) Fetch(_ context.Context, _ string) (movie.Metadata, error) {
	return movie.Metadata{}, errors.New(
		"moviedex: metadata provider not configured (use WithTMDB or WithFetcher)",
	)
}

// noopSummarizer returns an error on Summarize (used when no provider
// configured), which the details service degrades to the fallback sentence.
type noopSummarizer struct{}

func (noopSummarizer) Summarize(_ context.Context, _ string, _ []byte) (string, error) {
	return "", errors.New(
		"moviedex: summary provider not configured (use WithOpenAI or WithSummarizer)",
	)
}
