// ===============================
// internal/services/banner.go - Home banner rotation
// ===============================

package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"luemtv/internal/models"
)

// BannerSource supplies a fresh, already shuffled banner pool.
type BannerSource interface {
	BannerPool(ctx context.Context) []models.BannerItem
}

// BannerPublisher receives every banner state change.
type BannerPublisher interface {
	PublishBanner(state models.BannerState)
}

// BannerRotator cycles through the banner pool on a fixed interval.
// The index wraps modulo the pool length; an empty pool never advances.
type BannerRotator struct {
	source    BannerSource
	publisher BannerPublisher
	interval  time.Duration
	refresh   time.Duration
	logger    zerolog.Logger

	mu    sync.RWMutex
	items []models.BannerItem
	index int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	started  bool
}

func NewBannerRotator(source BannerSource, publisher BannerPublisher, interval, refresh time.Duration, logger zerolog.Logger) *BannerRotator {
	return &BannerRotator{
		source:    source,
		publisher: publisher,
		interval:  interval,
		refresh:   refresh,
		logger:    logger.With().Str("component", "banner").Logger(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start loads the initial pool and begins rotating in the background.
func (r *BannerRotator) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	r.Reload(ctx)
	go r.run()
}

func (r *BannerRotator) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// A nil channel never fires, so refresh is off when not configured.
	var refreshC <-chan time.Time
	if r.refresh > 0 {
		refreshTicker := time.NewTicker(r.refresh)
		defer refreshTicker.Stop()
		refreshC = refreshTicker.C
	}

	for {
		select {
		case <-ticker.C:
			r.Tick()
		case <-refreshC:
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			r.Reload(ctx)
			cancel()
		case <-r.stop:
			return
		}
	}
}

// Stop halts rotation and releases the tickers. Safe to call more than once
// and before Start.
func (r *BannerRotator) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		r.mu.RLock()
		started := r.started
		r.mu.RUnlock()
		if started {
			<-r.done
		}
	})
}

// Reload replaces the pool from the source.
func (r *BannerRotator) Reload(ctx context.Context) {
	items := r.source.BannerPool(ctx)
	r.SetItems(items)
	r.logger.Debug().Int("items", len(items)).Msg("Banner pool reloaded")
}

// SetItems replaces the pool and restarts from the first item.
func (r *BannerRotator) SetItems(items []models.BannerItem) {
	r.mu.Lock()
	r.items = append([]models.BannerItem(nil), items...)
	r.index = 0
	state := r.stateLocked(true)
	r.mu.Unlock()

	r.publish(state)
}

// Tick advances to the next item.
func (r *BannerRotator) Tick() {
	r.mu.Lock()
	if len(r.items) == 0 {
		r.mu.Unlock()
		return
	}
	r.index = (r.index + 1) % len(r.items)
	state := r.stateLocked(false)
	r.mu.Unlock()

	r.publish(state)
}

// State returns the current index and item along with the full pool.
func (r *BannerRotator) State() models.BannerState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked(true)
}

func (r *BannerRotator) stateLocked(withItems bool) models.BannerState {
	state := models.BannerState{Index: r.index, Total: len(r.items)}
	if len(r.items) > 0 {
		current := r.items[r.index]
		state.Current = &current
	}
	if withItems {
		state.Items = append([]models.BannerItem{}, r.items...)
	}
	return state
}

func (r *BannerRotator) publish(state models.BannerState) {
	if r.publisher != nil {
		r.publisher.PublishBanner(state)
	}
}
