package details

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain"
	"github.com/cinewise/moviedex/internal/domain/movie"
	domses "github.com/cinewise/moviedex/internal/domain/session"
)

// summaryFallback is returned in place of a summary whenever the provider
// call fails. The detail view always renders; it never surfaces generation
// failures as errors.
const summaryFallback = "Summary could not be generated."

// Service drives the detail view: a fresh metadata fetch per activation,
// per-session selection bookkeeping, and summary generation with graceful
// degradation.
type Service struct {
	fetcher    Fetcher
	summarizer Summarizer
	selections SelectionStore
	logger     *zap.Logger
}

// New creates a details service.
func New(fetcher Fetcher, summarizer Summarizer, selections SelectionStore, logger *zap.Logger) *Service {
	return &Service{fetcher: fetcher, summarizer: summarizer, selections: selections, logger: logger}
}

// Open fetches fresh metadata for the movie and records it as the session's
// current selection. Every activation fetches anew; nothing is cached
// across requests.
func (s *Service) Open(ctx context.Context, sessionID, movieID string) (movie.Metadata, error) {
	m, err := s.fetcher.Fetch(ctx, movieID)
	if err != nil {
		return movie.Metadata{}, fmt.Errorf("fetch details: %w", err)
	}
	s.selections.Set(sessionID, m)
	return m, nil
}

// Current returns the session's open selection, or ErrNoSelection.
func (s *Service) Current(sessionID string) (domses.Selection, error) {
	return s.selections.Get(sessionID)
}

// Close clears the session's selection (back navigation). Closing with no
// open selection is a no-op.
func (s *Service) Close(sessionID string) {
	s.selections.Clear(sessionID)
}

// Summary generates a summary for the given movie. The session's current
// selection supplies the payload when it covers movieID; otherwise the
// movie is fetched anew first. Fetch errors propagate, since without a
// payload there is nothing to summarize; generation errors degrade inside
// Summarize.
func (s *Service) Summary(ctx context.Context, sessionID, movieID string) (string, error) {
	var m movie.Metadata

	sel, err := s.selections.Get(sessionID)
	selMeta := sel.Metadata()
	if err == nil && selMeta.ID() == movieID {
		m = selMeta
	} else {
		m, err = s.fetcher.Fetch(ctx, movieID)
		if err != nil {
			return "", fmt.Errorf("fetch for summary: %w", err)
		}
	}

	return s.Summarize(ctx, m)
}

// Summarize runs one synchronous generation call over the metadata's raw
// payload. A provider failure degrades to the fixed fallback sentence with
// nil error. An empty or whitespace-only completion yields ErrEmptySummary,
// a warning condition the caller renders without failing the view. No
// retries, no caching: calling again reissues the provider call.
func (s *Service) Summarize(ctx context.Context, m movie.Metadata) (string, error) {
	text, err := s.summarizer.Summarize(ctx, m.Title(), m.Raw())
	if err != nil {
		s.logger.Warn("summary generation failed",
			zap.String("movie_id", m.ID()), zap.Error(err))
		return summaryFallback, nil
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptySummary
	}
	return text, nil
}
