package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/domain"
	"github.com/cinewise/moviedex/internal/domain/movie"
	domses "github.com/cinewise/moviedex/internal/domain/session"
)

type entry struct {
	sel     domses.Selection
	touched time.Time
}

// Store keeps per-session detail selections in memory. Entries idle past
// maxIdle are removed by Sweep.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]entry
	maxIdle time.Duration
}

// New creates a selection store.
func New(maxIdle time.Duration) *Store {
	return &Store{byID: make(map[string]entry), maxIdle: maxIdle}
}

// Set records the session's current selection, replacing any previous one.
func (s *Store) Set(sessionID string, m movie.Metadata) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sessionID] = entry{sel: domses.New(m, now), touched: now}
}

// Get returns the session's current selection. Reading refreshes the idle
// timer. Returns domain.ErrNoSelection when the session has none.
func (s *Store) Get(sessionID string) (domses.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[sessionID]
	if !ok {
		return domses.Selection{}, domain.ErrNoSelection
	}
	e.touched = time.Now()
	s.byID[sessionID] = e
	return e.sel, nil
}

// Clear removes the session's selection. Clearing an empty session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, sessionID)
}

// Len returns the number of sessions holding a selection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Sweep removes entries last touched before cutoff and reports how many.
func (s *Store) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.byID {
		if e.touched.Before(cutoff) {
			delete(s.byID, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps idle entries every interval until ctx is done.
func (s *Store) Janitor(ctx context.Context, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(time.Now().Add(-s.maxIdle)); n > 0 {
				log.Debug("swept idle selections", zap.Int("removed", n))
			}
		}
	}
}
