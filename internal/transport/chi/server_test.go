package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain"
	domcat "github.com/cinewise/moviedex/internal/domain/catalog"
	"github.com/cinewise/moviedex/internal/domain/movie"
	sessrepo "github.com/cinewise/moviedex/internal/repository/session"
	detailsuc "github.com/cinewise/moviedex/internal/usecase/details"
	healthuc "github.com/cinewise/moviedex/internal/usecase/health"
	recommenduc "github.com/cinewise/moviedex/internal/usecase/recommend"
)

// --- Mocks ---

type mockFetcher struct {
	fetchFunc func(ctx context.Context, id string) (movie.Metadata, error)
	calls     atomic.Int32
}

func (m *mockFetcher) Fetch(ctx context.Context, id string) (movie.Metadata, error) {
	m.calls.Add(1)
	return m.fetchFunc(ctx, id)
}

type mockSummarizer struct {
	summarizeFunc func(ctx context.Context, title string, payload []byte) (string, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, title string, payload []byte) (string, error) {
	return m.summarizeFunc(ctx, title, payload)
}

type mockProber struct {
	reachable bool
}

func (m *mockProber) Reachable(_ context.Context) bool { return m.reachable }

// --- Fixtures ---

func testCatalog(t *testing.T) *domcat.Catalog {
	t.Helper()
	cat, err := domcat.New(
		[]string{"10", "20", "30"},
		[]string{"Alien", "Blade Runner", "Contact"},
		[][]float64{
			{1.0, 0.8, 0.3},
			{0.8, 1.0, 0.5},
			{0.3, 0.5, 1.0},
		},
	)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func okMetadata(id string) movie.Metadata {
	return movie.New(id, "Movie "+id, "An overview.", "2010-07-16",
		"https://image.tmdb.org/t/p/w500/p"+id+".jpg", []byte(`{"id":`+id+`}`))
}

type serverFixture struct {
	router     *chirouter.Mux
	fetcher    *mockFetcher
	summarizer *mockSummarizer
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	fetcher := &mockFetcher{
		fetchFunc: func(_ context.Context, id string) (movie.Metadata, error) {
			return okMetadata(id), nil
		},
	}
	summarizer := &mockSummarizer{
		summarizeFunc: func(_ context.Context, _ string, _ []byte) (string, error) {
			return "A generated summary.", nil
		},
	}

	cat := testCatalog(t)
	store := sessrepo.New(time.Hour)
	logger := zap.NewNop()

	recSvc := recommenduc.New(cat, fetcher, 5, logger)
	detSvc := detailsuc.New(fetcher, summarizer, store, logger)
	healthSvc := healthuc.New(cat, &mockProber{reachable: true}, nil)

	srv := NewServer(recSvc, detSvc, healthSvc)
	r := chirouter.NewRouter()
	srv.Routes(r)

	return &serverFixture{router: r, fetcher: fetcher, summarizer: summarizer}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func sessionCookieOf(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

// --- Tests ---

func TestSearchTitles_All(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "GET", "/api/v1/titles", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeBody[titlesResponse](t, rr)
	if resp.Total != 3 || len(resp.Titles) != 3 {
		t.Fatalf("expected 3 titles, got %+v", resp)
	}
	if resp.Titles[0] != "Alien" {
		t.Errorf("titles[0]: got %q, want %q", resp.Titles[0], "Alien")
	}
}

func TestSearchTitles_Filtered(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "GET", "/api/v1/titles?q=blade", nil)
	resp := decodeBody[titlesResponse](t, rr)

	if resp.Total != 1 || resp.Titles[0] != "Blade Runner" {
		t.Fatalf("expected only Blade Runner, got %+v", resp)
	}
}

func TestRecommend_OK(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "POST", "/api/v1/recommendations", recommendRequest{Title: "Alien", K: 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeBody[recommendResponse](t, rr)
	if resp.Query != "Alien" {
		t.Errorf("query: got %q", resp.Query)
	}
	if len(resp.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(resp.Slots))
	}
	// Blade Runner (0.8) before Contact (0.3).
	if resp.Slots[0].ID != "20" || resp.Slots[1].ID != "30" {
		t.Errorf("slot order: got [%s %s], want [20 30]", resp.Slots[0].ID, resp.Slots[1].ID)
	}
	if resp.Slots[0].Metadata == nil {
		t.Fatal("expected metadata on slot 0")
	}
	if resp.Slots[0].Metadata.PosterURL == "" {
		t.Error("expected poster URL in metadata")
	}
}

func TestRecommend_FailedFetchKeepsNullSlot(t *testing.T) {
	f := newServerFixture(t)
	f.fetcher.fetchFunc = func(_ context.Context, id string) (movie.Metadata, error) {
		if id == "20" {
			return movie.Metadata{}, domain.ErrMetadataProviderError
		}
		return okMetadata(id), nil
	}

	rr := f.do(t, "POST", "/api/v1/recommendations", recommendRequest{Title: "Alien", K: 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeBody[recommendResponse](t, rr)
	if resp.Slots[0].Metadata != nil {
		t.Error("expected null metadata for the failed fetch")
	}
	if resp.Slots[0].Title != "Blade Runner" {
		t.Errorf("failed slot keeps title: got %q", resp.Slots[0].Title)
	}
	if resp.Slots[1].Metadata == nil {
		t.Error("expected metadata on the surviving slot")
	}
}

func TestRecommend_UnknownTitle_404(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "POST", "/api/v1/recommendations", recommendRequest{Title: "Unknown Movie"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeTitleNotFound {
		t.Errorf("error code: got %q, want %q", resp.Code, codeTitleNotFound)
	}
}

func TestRecommend_MissingTitle_400(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "POST", "/api/v1/recommendations", recommendRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeValidationFailed {
		t.Errorf("error code: got %q, want %q", resp.Code, codeValidationFailed)
	}
}

func TestRecommend_MalformedBody_400(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest("POST", "/api/v1/recommendations", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeBadRequest {
		t.Errorf("error code: got %q, want %q", resp.Code, codeBadRequest)
	}
}

func TestSelection_Lifecycle(t *testing.T) {
	f := newServerFixture(t)

	// Open.
	rr := f.do(t, "POST", "/api/v1/selection", openSelectionRequest{ID: "20"})
	if rr.Code != http.StatusOK {
		t.Fatalf("open status: got %d, body %s", rr.Code, rr.Body.String())
	}
	cookie := sessionCookieOf(t, rr)

	opened := decodeBody[selectionResponse](t, rr)
	if opened.Movie.ID != "20" {
		t.Errorf("opened movie: got %q, want %q", opened.Movie.ID, "20")
	}

	// Get within the same session.
	rr = f.do(t, "GET", "/api/v1/selection", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status: got %d", rr.Code)
	}
	got := decodeBody[selectionResponse](t, rr)
	if got.Movie.ID != "20" {
		t.Errorf("current movie: got %q, want %q", got.Movie.ID, "20")
	}

	// Clear (back navigation).
	rr = f.do(t, "DELETE", "/api/v1/selection", nil, cookie)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("clear status: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	// Cleared selection is gone.
	rr = f.do(t, "GET", "/api/v1/selection", nil, cookie)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after clear: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeNoSelection {
		t.Errorf("error code: got %q, want %q", resp.Code, codeNoSelection)
	}
}

func TestSelection_IsolatedPerSession(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "POST", "/api/v1/selection", openSelectionRequest{ID: "10"})
	if rr.Code != http.StatusOK {
		t.Fatalf("open status: got %d", rr.Code)
	}

	// A different session sees no selection.
	rr = f.do(t, "GET", "/api/v1/selection", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("other session: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSelection_OpenFetchFailure_502(t *testing.T) {
	f := newServerFixture(t)
	f.fetcher.fetchFunc = func(_ context.Context, _ string) (movie.Metadata, error) {
		return movie.Metadata{}, domain.ErrMetadataProviderError
	}

	rr := f.do(t, "POST", "/api/v1/selection", openSelectionRequest{ID: "20"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeMetadataProviderError {
		t.Errorf("error code: got %q, want %q", resp.Code, codeMetadataProviderError)
	}
}

func TestSelection_OpenUnknownMovie_404(t *testing.T) {
	f := newServerFixture(t)
	f.fetcher.fetchFunc = func(_ context.Context, _ string) (movie.Metadata, error) {
		return movie.Metadata{}, domain.ErrMovieNotFound
	}

	rr := f.do(t, "POST", "/api/v1/selection", openSelectionRequest{ID: "999"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeMovieNotFound {
		t.Errorf("error code: got %q, want %q", resp.Code, codeMovieNotFound)
	}
}

func TestSummarize_OK(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "POST", "/api/v1/movies/20/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	resp := decodeBody[summaryResponse](t, rr)
	if resp.Summary != "A generated summary." {
		t.Errorf("summary: got %q", resp.Summary)
	}
	if resp.Warning != "" {
		t.Errorf("unexpected warning %q", resp.Warning)
	}
}

func TestSummarize_ProviderFailure_FallbackInBand(t *testing.T) {
	f := newServerFixture(t)
	f.summarizer.summarizeFunc = func(_ context.Context, _ string, _ []byte) (string, error) {
		return "", errors.New("upstream exploded")
	}

	rr := f.do(t, "POST", "/api/v1/movies/20/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeBody[summaryResponse](t, rr)
	if resp.Summary != "Summary could not be generated." {
		t.Errorf("fallback summary: got %q", resp.Summary)
	}
}

func TestSummarize_EmptyCompletion_Warning(t *testing.T) {
	f := newServerFixture(t)
	f.summarizer.summarizeFunc = func(_ context.Context, _ string, _ []byte) (string, error) {
		return "   \n", nil
	}

	rr := f.do(t, "POST", "/api/v1/movies/20/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeBody[summaryResponse](t, rr)
	if resp.Summary != "" {
		t.Errorf("expected empty summary, got %q", resp.Summary)
	}
	if resp.Warning != warningEmptySummary {
		t.Errorf("warning: got %q, want %q", resp.Warning, warningEmptySummary)
	}
}

func TestSummarize_UsesOpenSelectionPayload(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "POST", "/api/v1/selection", openSelectionRequest{ID: "30"})
	cookie := sessionCookieOf(t, rr)
	fetchesAfterOpen := f.fetcher.calls.Load()

	rr = f.do(t, "POST", "/api/v1/movies/30/summary", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if extra := f.fetcher.calls.Load() - fetchesAfterOpen; extra != 0 {
		t.Errorf("expected no extra fetch for the open selection, got %d extra", extra)
	}
}

func TestSummarize_FetchFailureSurfaces(t *testing.T) {
	f := newServerFixture(t)
	f.fetcher.fetchFunc = func(_ context.Context, _ string) (movie.Metadata, error) {
		return movie.Metadata{}, domain.ErrMovieNotFound
	}

	rr := f.do(t, "POST", "/api/v1/movies/404/summary", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHealthCheck_Healthy(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do(t, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeBody[healthResponse](t, rr)
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
	if resp.Checks["catalog"] != "ok" {
		t.Errorf("catalog check: got %q", resp.Checks["catalog"])
	}
	if resp.Checks["metadata_provider"] != "ok" {
		t.Errorf("metadata check: got %q", resp.Checks["metadata_provider"])
	}
}

func TestHealthCheck_DegradedProbe_503(t *testing.T) {
	fetcher := &mockFetcher{fetchFunc: func(_ context.Context, id string) (movie.Metadata, error) {
		return okMetadata(id), nil
	}}
	summarizer := &mockSummarizer{summarizeFunc: func(_ context.Context, _ string, _ []byte) (string, error) {
		return "ok", nil
	}}
	cat := testCatalog(t)
	logger := zap.NewNop()

	recSvc := recommenduc.New(cat, fetcher, 5, logger)
	detSvc := detailsuc.New(fetcher, summarizer, sessrepo.New(time.Hour), logger)
	healthSvc := healthuc.New(cat, &mockProber{reachable: false}, nil)

	srv := NewServer(recSvc, detSvc, healthSvc)
	r := chirouter.NewRouter()
	srv.Routes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	resp := decodeBody[healthResponse](t, rr)
	if resp.Status != "degraded" {
		t.Errorf("status: got %q, want %q", resp.Status, "degraded")
	}

	// The degraded probe never gates the serving API.
	rr = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/titles", http.NoBody)
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("titles during degraded probe: got %d, want %d", rr.Code, http.StatusOK)
	}
}
