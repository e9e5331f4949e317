package moviedex

import (
	"context"
	"fmt"
	"time"
)

// DetailsService manages the detail view for a single session key.
type DetailsService struct {
	session string
	svc     detailsUseCase
	obs     *observer
}

// Open fetches fresh metadata for the movie and records it as the session's
// current selection, replacing any previous one. Every call fetches anew;
// nothing is cached across calls.
func (s *DetailsService) Open(ctx context.Context, movieID string) (_ MovieDetails, err error) {
	start := time.Now()
	defer func() { s.obs.observe("details.open", start, err) }()

	m, err := s.svc.Open(ctx, s.session, movieID)
	if err != nil {
		return MovieDetails{}, fmt.Errorf("open details: %w", err)
	}
	return fromInternalMetadata(m), nil
}

// Current returns the session's open selection, or ErrNoSelection.
func (s *DetailsService) Current() (_ Selection, err error) {
	start := time.Now()
	defer func() { s.obs.observe("details.current", start, err) }()

	sel, err := s.svc.Current(s.session)
	if err != nil {
		return Selection{}, fmt.Errorf("current selection: %w", err)
	}
	return fromInternalSelection(sel), nil
}

// Close clears the session's selection. Closing with nothing open is a
// no-op.
func (s *DetailsService) Close() {
	start := time.Now()
	defer func() { s.obs.observe("details.close", start, nil) }()

	s.svc.Close(s.session)
}

// Summary generates a summary for the movie. The open selection supplies
// the payload when it covers movieID; otherwise the movie is fetched anew
// first, and that fetch's errors propagate. Generation failures degrade to
// a fixed fallback sentence with nil error; a provider completion that is
// empty after trimming yields ErrEmptySummary, which callers usually
// render as a warning rather than a failure. Every call reissues the
// provider request: no retries, no caching.
func (s *DetailsService) Summary(ctx context.Context, movieID string) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("details.summary", start, err) }()

	text, err := s.svc.Summary(ctx, s.session, movieID)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	return text, nil
}
