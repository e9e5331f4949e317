package tmdb

import (
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/cinewise/moviedex/internal/domain"
	"github.com/cinewise/moviedex/internal/domain/movie"
)

// metadataFromPayload extracts the display fields from a provider payload
// and keeps the payload itself verbatim. Defaults substitute only when a
// key is absent or null; an explicit empty string passes through unchanged.
func metadataFromPayload(id string, raw []byte, imageBase string) (movie.Metadata, error) {
	var fields map[string]gojson.RawMessage
	if err := gojson.Unmarshal(raw, &fields); err != nil {
		return movie.Metadata{}, fmt.Errorf("malformed payload: %v: %w", err, domain.ErrMetadataProviderError)
	}

	title := movie.DefaultTitle
	if v, ok := stringField(fields, "title"); ok {
		title = v
	}
	overview := movie.DefaultOverview
	if v, ok := stringField(fields, "overview"); ok {
		overview = v
	}
	releaseDate, _ := stringField(fields, "release_date")

	posterURL := ""
	if p, ok := stringField(fields, "poster_path"); ok && p != "" {
		posterURL = joinImageURL(imageBase, p)
	}

	return movie.New(id, title, overview, releaseDate, posterURL, raw), nil
}

// stringField returns the string value at key. ok is false when the key is
// absent, null, or not a string, the cases that take defaults.
func stringField(fields map[string]gojson.RawMessage, key string) (string, bool) {
	r, present := fields[key]
	if !present {
		return "", false
	}
	var s *string
	if err := gojson.Unmarshal(r, &s); err != nil || s == nil {
		return "", false
	}
	return *s, true
}

func joinImageURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
