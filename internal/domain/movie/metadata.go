package movie

import "encoding/json"

// Display defaults substituted when the provider payload lacks a field.
const (
	DefaultTitle    = "N/A"
	DefaultOverview = "No overview available."
)

// Metadata is one movie's provider metadata (immutable value object).
// It is fetched fresh per request and never persisted. raw carries the
// provider payload byte-for-byte so downstream consumers see exactly what
// the provider sent.
type Metadata struct {
	id          string
	title       string
	overview    string
	releaseDate string
	posterURL   string
	raw         json.RawMessage
}

// New creates a Metadata. posterURL is empty when the movie has no poster.
func New(id, title, overview, releaseDate, posterURL string, raw []byte) Metadata {
	return Metadata{
		id:          id,
		title:       title,
		overview:    overview,
		releaseDate: releaseDate,
		posterURL:   posterURL,
		raw:         raw,
	}
}

// ID returns the external movie identifier the metadata was fetched for.
func (m *Metadata) ID() string { return m.id }

// Title returns the display title.
func (m *Metadata) Title() string { return m.title }

// Overview returns the overview text.
func (m *Metadata) Overview() string { return m.overview }

// ReleaseDate returns the release date string as sent by the provider.
func (m *Metadata) ReleaseDate() string { return m.releaseDate }

// PosterURL returns the full poster image URL, or "" when there is none.
func (m *Metadata) PosterURL() string { return m.posterURL }

// HasPoster reports whether the movie has a poster image.
func (m *Metadata) HasPoster() bool { return m.posterURL != "" }

// Raw returns the verbatim provider payload.
func (m *Metadata) Raw() json.RawMessage { return m.raw }
