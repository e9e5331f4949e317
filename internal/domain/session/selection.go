package session

import (
	"time"

	"github.com/cinewise/moviedex/internal/domain/movie"
)

// Selection is the detail item a session currently has expanded. A session
// holds at most one: opening a detail view replaces it, back navigation
// clears it.
type Selection struct {
	metadata movie.Metadata
	openedAt time.Time
}

// New creates a selection opened at the given time.
func New(m movie.Metadata, openedAt time.Time) Selection {
	return Selection{metadata: m, openedAt: openedAt}
}

// Metadata returns the expanded item's metadata.
func (s *Selection) Metadata() movie.Metadata { return s.metadata }

// OpenedAt returns when the detail view was opened.
func (s *Selection) OpenedAt() time.Time { return s.openedAt }
