package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain"
	"github.com/cinewise/moviedex/internal/domain/movie"
	logpkg "github.com/cinewise/moviedex/internal/logger"
	detailsuc "github.com/cinewise/moviedex/internal/usecase/details"
	healthuc "github.com/cinewise/moviedex/internal/usecase/health"
	recommenduc "github.com/cinewise/moviedex/internal/usecase/recommend"
)

// Error codes surfaced in API error responses.
const (
	codeBadRequest            = "bad_request"
	codeValidationFailed      = "validation_failed"
	codeTitleNotFound         = "title_not_found"
	codeMovieNotFound         = "movie_not_found"
	codeNoSelection           = "no_selection"
	codeMetadataProviderError = "metadata_provider_error"
	codeSummaryProviderError  = "summary_provider_error"
	codeInternalError         = "internal_error"
)

// warningEmptySummary flags a completed generation that produced no text.
const warningEmptySummary = "empty_summary"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the recommendation API over HTTP. Handlers log through
// the request-scoped logger the wide-event middleware places in context.
type Server struct {
	recommend     *recommenduc.Service
	details       *detailsuc.Service
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	details *detailsuc.Service,
	health *healthuc.Service,
) *Server {
	s := &Server{
		recommend: recommend,
		details:   details,
		health:    health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTitleNotFound, http.StatusNotFound, codeTitleNotFound),
		sentinelHandler(domain.ErrMovieNotFound, http.StatusNotFound, codeMovieNotFound),
		sentinelHandler(domain.ErrNoSelection, http.StatusNotFound, codeNoSelection),
		sentinelHandler(domain.ErrMetadataProviderError, http.StatusBadGateway, codeMetadataProviderError),
		sentinelHandler(domain.ErrSummaryProviderError, http.StatusBadGateway, codeSummaryProviderError),
	}
	return s
}

// Routes mounts all API endpoints onto the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware)
		r.Get("/titles", s.SearchTitles)
		r.Post("/recommendations", s.Recommend)
		r.Post("/selection", s.OpenSelection)
		r.Get("/selection", s.GetSelection)
		r.Delete("/selection", s.ClearSelection)
		r.Post("/movies/{id}/summary", s.SummarizeMovie)
	})
}

type titlesResponse struct {
	Titles []string `json:"titles"`
	Total  int      `json:"total"`
}

// SearchTitles handles GET /api/v1/titles. The q parameter filters titles
// by case-insensitive substring; without it the full catalog is returned.
func (s *Server) SearchTitles(w http.ResponseWriter, r *http.Request) {
	titles := s.recommend.Titles(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, titlesResponse{Titles: titles, Total: len(titles)})
}

type recommendRequest struct {
	Title string `json:"title"`
	K     int    `json:"k"`
}

type metadataResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
}

type slotResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Score    float64           `json:"score"`
	Metadata *metadataResponse `json:"metadata"`
}

type recommendResponse struct {
	Query string         `json:"query"`
	Slots []slotResponse `json:"slots"`
}

// Recommend handles POST /api/v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "title is required")
		return
	}

	rec, err := s.recommend.Recommend(r.Context(), req.Title, req.K)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	slots := make([]slotResponse, len(rec.Slots))
	for i, slot := range rec.Slots {
		slots[i] = slotResponse{
			ID:       slot.ID,
			Title:    slot.Title,
			Score:    slot.Score,
			Metadata: metadataToResponse(slot.Metadata),
		}
	}

	writeJSON(w, http.StatusOK, recommendResponse{Query: rec.Query, Slots: slots})
}

type openSelectionRequest struct {
	ID string `json:"id"`
}

type selectionResponse struct {
	Movie    metadataResponse `json:"movie"`
	OpenedAt time.Time        `json:"opened_at"`
}

// OpenSelection handles POST /api/v1/selection: it fetches fresh metadata
// for the movie and records it as the session's expanded detail item.
func (s *Server) OpenSelection(w http.ResponseWriter, r *http.Request) {
	var req openSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "id is required")
		return
	}

	m, err := s.details.Open(r.Context(), SessionID(r.Context()), req.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, selectionResponse{
		Movie:    *metadataToResponse(&m),
		OpenedAt: time.Now().UTC(),
	})
}

// GetSelection handles GET /api/v1/selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := s.details.Current(SessionID(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	m := sel.Metadata()
	writeJSON(w, http.StatusOK, selectionResponse{
		Movie:    *metadataToResponse(&m),
		OpenedAt: sel.OpenedAt().UTC(),
	})
}

// ClearSelection handles DELETE /api/v1/selection (back navigation).
// Clearing an absent selection is a no-op and still returns 204.
func (s *Server) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s.details.Close(SessionID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Warning string `json:"warning,omitempty"`
}

// SummarizeMovie handles POST /api/v1/movies/{id}/summary. Generation
// failures are in-band: the fallback text arrives as a regular summary and
// an empty completion arrives as a warning. Only a failure to obtain the
// movie's payload surfaces as an error status.
func (s *Server) SummarizeMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "movie id is required")
		return
	}

	text, err := s.details.Summary(r.Context(), SessionID(r.Context()), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmptySummary) {
			writeJSON(w, http.StatusOK, summaryResponse{Warning: warningEmptySummary})
			return
		}
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health. Provider checks are advisory: a 503
// here never gates the rest of the API.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func metadataToResponse(m *movie.Metadata) *metadataResponse {
	if m == nil {
		return nil
	}
	return &metadataResponse{
		ID:          m.ID(),
		Title:       m.Title(),
		Overview:    m.Overview(),
		ReleaseDate: m.ReleaseDate(),
		PosterURL:   m.PosterURL(),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTitleNotFound,
		domain.ErrMovieNotFound,
		domain.ErrNoSelection,
		domain.ErrMetadataProviderError,
		domain.ErrSummaryProviderError,
		domain.ErrCatalogInvalid,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
