package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"apod-gallery/pkg/config"
	"apod-gallery/pkg/facts"
	"apod-gallery/pkg/feed"
	"apod-gallery/pkg/models"
	"apod-gallery/pkg/window"
)

// ErrEntryNotFound is returned when no entry exists for a date
var ErrEntryNotFound = errors.New("entry not found")

// Service ties the feed source, the feed store and the window selector together
type Service struct {
	config      *config.Config
	source      feed.Source
	store       *feed.Store
	selector    window.Selector
	windowCache *cache.Cache

	mu      sync.RWMutex
	loadErr error
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	once           sync.Once
)

// NewService creates a service reading from source
func NewService(cfg *config.Config, source feed.Source) *Service {
	return &Service{
		config:      cfg,
		source:      source,
		store:       feed.NewStore(),
		selector:    window.New(cfg.MaxExtension),
		windowCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// InitService initializes the singleton service with the given configuration
func InitService(cfg *config.Config) error {
	var err error
	once.Do(func() {
		var source feed.Source
		source, err = feed.NewSource(cfg.FeedURL, cfg.Anonymous)
		if err != nil {
			return
		}
		defaultService = NewService(cfg, source)
	})
	return err
}

// Default returns the singleton service
func Default() *Service {
	return defaultService
}

// Reload fetches the default service's feed
func Reload(ctx context.Context) error {
	return defaultService.Reload(ctx)
}

// GetWindow returns the default service's window for start
func GetWindow(start string) (models.Window, error) {
	return defaultService.Window(start)
}

// GetEntry returns the default service's entry for date
func GetEntry(date string) (models.Entry, error) {
	return defaultService.Entry(date)
}

// GetDates returns all dates known to the default service
func GetDates() []string {
	return defaultService.Dates()
}

// Reload fetches the feed and replaces the store's index with it.
// A fetch that completes after a newer Reload began is discarded.
func (s *Service) Reload(ctx context.Context) error {
	gen := s.store.Begin()
	started := time.Now()

	entries, err := s.source.Fetch(ctx)
	fetchDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		feedFetches.WithLabelValues("error").Inc()
		log.WithFields(log.Fields{
			"generation": gen,
			"error":      err,
		}).Error("Feed fetch failed")

		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		return err
	}

	if err := s.store.Commit(gen, entries); err != nil {
		feedFetches.WithLabelValues("superseded").Inc()
		log.WithField("generation", gen).Warn("Discarding superseded feed")
		return err
	}

	feedFetches.WithLabelValues("ok").Inc()
	index, _ := s.store.Index()
	feedEntries.Set(float64(index.Len()))

	s.mu.Lock()
	s.loadErr = nil
	s.mu.Unlock()
	s.windowCache.Flush()

	log.WithFields(log.Fields{
		"generation": gen,
		"entries":    index.Len(),
	}).Info("Feed loaded")
	return nil
}

// Loaded reports whether a feed has been loaded successfully
func (s *Service) Loaded() bool {
	return s.store.Generation() > 0
}

// Window resolves the display window for start. An empty start selects the
// window ending at the latest entry; a range that cannot be filled falls back
// to the latest entries.
func (s *Service) Window(start string) (models.Window, error) {
	index, gen := s.store.Index()
	if gen == 0 {
		if err := s.lastError(); err != nil {
			return models.Window{}, err
		}
	}

	key := fmt.Sprintf("%d/%s", gen, start)
	if cached, found := s.windowCache.Get(key); found {
		return cached.(models.Window), nil
	}

	result, err := s.selector.Resolve(start, index)
	if err != nil {
		return models.Window{}, err
	}
	if result.Fallback {
		windowFallbacks.Inc()
		log.WithFields(log.Fields{
			"requested": start,
			"start":     result.Start,
		}).Info("Falling back to latest entries")
	}

	w := models.Window{
		RequestedStart: start,
		Start:          result.Start,
		Fallback:       result.Fallback,
		Entries:        result.Entries,
	}
	s.windowCache.Set(key, w, cache.DefaultExpiration)
	return w, nil
}

// Entry returns the entry for date
func (s *Service) Entry(date string) (models.Entry, error) {
	if _, err := window.ParseDate(date); err != nil {
		return models.Entry{}, err
	}
	index, gen := s.store.Index()
	if gen == 0 {
		if err := s.lastError(); err != nil {
			return models.Entry{}, err
		}
	}
	entry, ok := index.Get(date)
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, date)
	}
	return entry, nil
}

// Dates returns all indexed dates in ascending order
func (s *Service) Dates() []string {
	return s.store.AllDates()
}

// Fact returns a random fact
func (s *Service) Fact() string {
	return facts.Random(s.config.Facts)
}

func (s *Service) lastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}
