package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain/catalog"
	"github.com/cinewise/moviedex/internal/domain/movie"
)

// Slot is one positional recommendation result. Metadata is nil when the
// fetch for that movie failed; slots always keep the selector's order, so
// callers can rely on position i belonging to neighbor i.
type Slot struct {
	ID       string
	Title    string
	Score    float64
	Metadata *movie.Metadata
}

// Recommendation is the outcome of one recommend call.
type Recommendation struct {
	Query string
	Slots []Slot
}

// Service resolves a title to its most similar catalog items and collects
// their metadata concurrently.
type Service struct {
	catalog *catalog.Catalog
	fetcher Fetcher
	topK    int
	logger  *zap.Logger
}

// New creates a recommend service. topK is the neighbor count used when a
// request does not ask for a specific one.
func New(cat *catalog.Catalog, fetcher Fetcher, topK int, logger *zap.Logger) *Service {
	return &Service{catalog: cat, fetcher: fetcher, topK: topK, logger: logger}
}

// Titles lists catalog titles for the selection control, optionally
// filtered by a case-insensitive substring.
func (s *Service) Titles(query string) []string {
	titles := s.catalog.Titles()
	if query == "" {
		return titles
	}
	q := strings.ToLower(query)
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), q) {
			out = append(out, t)
		}
	}
	return out
}

// Recommend returns up to k metadata-enriched neighbors for the title.
// k <= 0 falls back to the configured default. The title lookup is exact
// and case-sensitive; an unknown title yields ErrTitleNotFound.
func (s *Service) Recommend(ctx context.Context, title string, k int) (Recommendation, error) {
	if k <= 0 {
		k = s.topK
	}

	neighbors, err := s.catalog.Neighbors(title, k)
	if err != nil {
		return Recommendation{}, fmt.Errorf("select neighbors: %w", err)
	}

	return Recommendation{Query: title, Slots: s.fetchAll(ctx, neighbors)}, nil
}

// fetchAll launches one fetch per neighbor and joins them all. Every fetch
// carries its own timeout inside the Fetcher and writes only its own slot,
// so the batch needs no locking. A failed fetch leaves its slot's Metadata
// nil and never aborts siblings; the call returns only after every member
// has settled.
func (s *Service) fetchAll(ctx context.Context, neighbors []catalog.Neighbor) []Slot {
	slots := make([]Slot, len(neighbors))

	var wg sync.WaitGroup
	for i, n := range neighbors {
		slots[i] = Slot{ID: n.Item.ID(), Title: n.Item.Title(), Score: n.Score}

		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := s.fetcher.Fetch(ctx, slots[i].ID)
			if err != nil {
				s.logger.Warn("metadata fetch failed",
					zap.String("movie_id", slots[i].ID),
					zap.Error(err),
				)
				return
			}
			slots[i].Metadata = &m
		}()
	}
	wg.Wait()

	return slots
}
