package moviedex

import (
	"context"

	"github.com/cinewise/moviedex/internal/domain/movie"
	domses "github.com/cinewise/moviedex/internal/domain/session"
	healthuc "github.com/cinewise/moviedex/internal/usecase/health"
	recommenduc "github.com/cinewise/moviedex/internal/usecase/recommend"
)

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	titlesFn    func(query string) []string
	recommendFn func(ctx context.Context, title string, k int) (recommenduc.Recommendation, error)
}

func (m *mockRecommendUC) Titles(query string) []string {
	return m.titlesFn(query)
}

func (m *mockRecommendUC) Recommend(
	ctx context.Context, title string, k int,
) (recommenduc.Recommendation, error) {
	return m.recommendFn(ctx, title, k)
}

// --- detailsUseCase mock ---

type mockDetailsUC struct {
	openFn    func(ctx context.Context, sessionID, movieID string) (movie.Metadata, error)
	currentFn func(sessionID string) (domses.Selection, error)
	closeFn   func(sessionID string)
	summaryFn func(ctx context.Context, sessionID, movieID string) (string, error)
}

func (m *mockDetailsUC) Open(ctx context.Context, sessionID, movieID string) (movie.Metadata, error) {
	return m.openFn(ctx, sessionID, movieID)
}

func (m *mockDetailsUC) Current(sessionID string) (domses.Selection, error) {
	return m.currentFn(sessionID)
}

func (m *mockDetailsUC) Close(sessionID string) {
	m.closeFn(sessionID)
}

func (m *mockDetailsUC) Summary(ctx context.Context, sessionID, movieID string) (string, error) {
	return m.summaryFn(ctx, sessionID, movieID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	recSvc recommendUseCase,
	detSvc detailsUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		recSvc:    recSvc,
		detSvc:    detSvc,
		healthSvc: healthSvc,
	}
}

func testMetadata(id, title string) movie.Metadata {
	raw := []byte(`{"id":` + id + `,"title":"` + title + `"}`)
	return movie.New(id, title, "An overview.", "1979-05-25", "https://img.example/p.jpg", raw)
}
