package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTitleNotFound signals a catalog lookup for an unknown title.
	ErrTitleNotFound = errors.New("title not found")
	// ErrMovieNotFound signals a missing movie at the metadata provider.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrCatalogInvalid signals a corrupt or inconsistent catalog snapshot.
	ErrCatalogInvalid = errors.New("invalid catalog")
	// ErrNoSelection signals that the session has no open detail selection.
	ErrNoSelection = errors.New("no selection")

	// ErrMetadataProviderError signals a metadata provider failure.
	ErrMetadataProviderError = errors.New("metadata provider error")
	// ErrSummaryProviderError signals a summary provider failure.
	ErrSummaryProviderError = errors.New("summary provider error")
	// ErrEmptySummary signals that the provider returned no usable text.
	ErrEmptySummary = errors.New("empty summary")
)

// TitleNotFoundError wraps ErrTitleNotFound with the queried title.
type TitleNotFoundError struct {
	Title string
}

func (e *TitleNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrTitleNotFound.Error(), e.Title)
}

func (e *TitleNotFoundError) Unwrap() error { return ErrTitleNotFound }

// NewTitleNotFound creates a title lookup error.
func NewTitleNotFound(title string) error {
	return &TitleNotFoundError{Title: title}
}
