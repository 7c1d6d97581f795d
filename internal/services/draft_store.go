// ===============================
// internal/services/draft_store.go - In-memory import draft store
// ===============================

package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"luemtv/internal/models"
)

// DraftStore keeps import drafts in memory. Each draft has its own lock so
// a slow TMDB call on one draft never blocks another. Drafts untouched for
// longer than the TTL are evicted by the janitor.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*draftEntry
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	running  bool
}

type draftEntry struct {
	mu      sync.Mutex
	draft   models.Draft
	touched time.Time // guarded by DraftStore.mu
}

func NewDraftStore(ttl time.Duration, logger zerolog.Logger) *DraftStore {
	return &DraftStore{
		drafts: make(map[string]*draftEntry),
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("component", "drafts").Logger(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// create registers a new idle draft for owner.
func (s *DraftStore) create(ownerID string, kind models.DraftKind) *draftEntry {
	now := s.now()
	entry := &draftEntry{
		draft: models.Draft{
			ID:        uuid.New().String(),
			OwnerID:   ownerID,
			Kind:      kind,
			State:     models.StateIdle,
			Results:   []models.SearchResult{},
			Episodes:  []models.StagedEpisode{},
			UpdatedAt: now,
		},
		touched: now,
	}

	s.mu.Lock()
	s.drafts[entry.draft.ID] = entry
	s.mu.Unlock()

	return entry
}

// acquire returns the draft locked for exclusive use by its owner. The
// caller must call the returned release func.
func (s *DraftStore) acquire(id, ownerID string) (*draftEntry, func(), error) {
	s.mu.Lock()
	entry, ok := s.drafts[id]
	if ok {
		entry.touched = s.now()
	}
	s.mu.Unlock()

	if !ok {
		return nil, nil, ErrNotFound
	}

	entry.mu.Lock()
	if entry.draft.OwnerID != ownerID {
		entry.mu.Unlock()
		return nil, nil, ErrForbidden
	}

	release := func() {
		entry.draft.UpdatedAt = s.now()
		entry.mu.Unlock()
	}
	return entry, release, nil
}

// Delete drops a draft owned by ownerID.
func (s *DraftStore) Delete(id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[id]
	if !ok {
		return ErrNotFound
	}
	if entry.draft.OwnerID != ownerID {
		return ErrForbidden
	}
	delete(s.drafts, id)
	return nil
}

// Len reports the number of live drafts.
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Sweep evicts drafts idle for longer than the TTL and returns how many.
func (s *DraftStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.drafts {
		if entry.touched.Before(cutoff) {
			delete(s.drafts, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor sweeps expired drafts every interval until Stop.
func (s *DraftStore) StartJanitor(interval time.Duration) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.logger.Info().Int("evicted", n).Msg("Expired import drafts removed")
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends the janitor and releases its ticker.
func (s *DraftStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			<-s.done
		}
	})
}
