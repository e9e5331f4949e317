package moviedex

import "github.com/cinewise/moviedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTitleNotFound         = domain.ErrTitleNotFound
	ErrMovieNotFound         = domain.ErrMovieNotFound
	ErrCatalogInvalid        = domain.ErrCatalogInvalid
	ErrNoSelection           = domain.ErrNoSelection
	ErrMetadataProviderError = domain.ErrMetadataProviderError
	ErrSummaryProviderError  = domain.ErrSummaryProviderError
	ErrEmptySummary          = domain.ErrEmptySummary
)
