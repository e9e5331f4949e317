package moviedex

import (
	"context"
	"fmt"
	"time"
)

// RecommendService answers title and similarity queries over the snapshot.
type RecommendService struct {
	svc recommendUseCase
	obs *observer
}

// Titles lists catalog titles in snapshot order, optionally filtered by a
// case-insensitive substring.
func (s *RecommendService) Titles(query string) []string {
	start := time.Now()
	defer func() { s.obs.observe("titles", start, nil) }()

	return s.svc.Titles(query)
}

// Recommend returns up to k metadata-enriched neighbors for the title.
// k <= 0 falls back to the client's configured default. The title lookup
// is exact and case-sensitive; an unknown title yields ErrTitleNotFound.
// A failed metadata fetch leaves that slot's Details nil without failing
// the call.
func (s *RecommendService) Recommend(
	ctx context.Context, title string, k int,
) (_ Recommendation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("recommend", start, err) }()

	rec, err := s.svc.Recommend(ctx, title, k)
	if err != nil {
		return Recommendation{}, fmt.Errorf("recommend: %w", err)
	}
	return fromInternalRecommendation(rec), nil
}
