package moviedex

import (
	"encoding/json"
	"time"

	"github.com/cinewise/moviedex/internal/domain/movie"
	domses "github.com/cinewise/moviedex/internal/domain/session"
	recommenduc "github.com/cinewise/moviedex/internal/usecase/recommend"
)

// MovieDetails is one movie's provider metadata. Raw carries the provider
// payload byte-for-byte; the named fields are the display projection with
// absent values already defaulted.
type MovieDetails struct {
	ID          string
	Title       string
	Overview    string
	ReleaseDate string
	PosterURL   string // empty when the movie has no poster
	Raw         json.RawMessage
}

// Slot is one positional recommendation result. Details is nil when the
// metadata fetch for that movie failed or no provider is configured; ID,
// Title and Score come from the snapshot and are always present.
type Slot struct {
	ID      string
	Title   string
	Score   float64
	Details *MovieDetails
}

// Recommendation is the outcome of one recommend call. Slots are ordered
// by score descending; ties keep snapshot order.
type Recommendation struct {
	Query string
	Slots []Slot
}

// Selection is the detail view a session currently has open.
type Selection struct {
	Details  MovieDetails
	OpenedAt time.Time
}

func fromInternalMetadata(m movie.Metadata) MovieDetails {
	return MovieDetails{
		ID:          m.ID(),
		Title:       m.Title(),
		Overview:    m.Overview(),
		ReleaseDate: m.ReleaseDate(),
		PosterURL:   m.PosterURL(),
		Raw:         m.Raw(),
	}
}

func toInternalMetadata(d MovieDetails) movie.Metadata {
	return movie.New(d.ID, d.Title, d.Overview, d.ReleaseDate, d.PosterURL, d.Raw)
}

func fromInternalSlot(s recommenduc.Slot) Slot {
	out := Slot{ID: s.ID, Title: s.Title, Score: s.Score}
	if s.Metadata != nil {
		d := fromInternalMetadata(*s.Metadata)
		out.Details = &d
	}
	return out
}

func fromInternalRecommendation(r recommenduc.Recommendation) Recommendation {
	slots := make([]Slot, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = fromInternalSlot(s)
	}
	return Recommendation{Query: r.Query, Slots: slots}
}

func fromInternalSelection(sel domses.Selection) Selection {
	return Selection{
		Details:  fromInternalMetadata(sel.Metadata()),
		OpenedAt: sel.OpenedAt(),
	}
}
