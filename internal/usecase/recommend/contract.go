package recommend

import (
	"context"

	"github.com/cinewise/moviedex/internal/domain/movie"
)

// Fetcher retrieves one movie's metadata from the provider.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (movie.Metadata, error)
}
