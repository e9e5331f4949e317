package details

import (
	"context"

	"github.com/cinewise/moviedex/internal/domain/movie"
	domses "github.com/cinewise/moviedex/internal/domain/session"
)

// Fetcher retrieves one movie's metadata from the provider.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (movie.Metadata, error)
}

// Summarizer generates a natural-language summary from a movie's raw
// metadata payload.
type Summarizer interface {
	Summarize(ctx context.Context, title string, payload []byte) (string, error)
}

// SelectionStore keeps each session's currently expanded detail item.
type SelectionStore interface {
	Set(sessionID string, m movie.Metadata)
	Get(sessionID string) (domses.Selection, error)
	Clear(sessionID string)
}
