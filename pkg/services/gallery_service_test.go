package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apod-gallery/pkg/config"
	"apod-gallery/pkg/feed"
	"apod-gallery/pkg/models"
	"apod-gallery/pkg/services"
	"apod-gallery/pkg/window"
)

type stubSource struct {
	mu      sync.Mutex
	entries []models.Entry
	err     error
	calls   int
}

func (s *stubSource) Fetch(context.Context) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.entries, s.err
}

// gatedSource blocks the n-th Fetch call until gates[n] delivers its entries
type gatedSource struct {
	mu      sync.Mutex
	calls   int
	gates   []chan []models.Entry
	entered chan struct{}
}

func newGatedSource(n int) *gatedSource {
	s := &gatedSource{entered: make(chan struct{}, n)}
	for i := 0; i < n; i++ {
		s.gates = append(s.gates, make(chan []models.Entry, 1))
	}
	return s
}

func (s *gatedSource) Fetch(ctx context.Context) ([]models.Entry, error) {
	s.mu.Lock()
	gate := s.gates[s.calls]
	s.calls++
	s.mu.Unlock()

	s.entered <- struct{}{}
	select {
	case entries := <-gate:
		return entries, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func days(from string, n int) []models.Entry {
	entries := make([]models.Entry, 0, n)
	for i := 0; i < n; i++ {
		d, _ := window.AddDays(from, i)
		entries = append(entries, models.Entry{Date: d, Title: fmt.Sprintf("Day %d", i+1)})
	}
	return entries
}

func newService(source feed.Source) *services.Service {
	return services.NewService(&config.Config{MaxExtension: window.DefaultMaxExtension}, source)
}

func TestWindowAfterReload(t *testing.T) {
	svc := newService(&stubSource{entries: days("2024-01-01", 20)})
	require.NoError(t, svc.Reload(context.Background()))
	assert.True(t, svc.Loaded())

	win, err := svc.Window("2024-01-01")
	require.NoError(t, err)
	assert.False(t, win.Fallback)
	assert.Equal(t, "2024-01-01", win.Start)
	require.Len(t, win.Entries, 9)
	assert.Equal(t, "2024-01-09", win.Entries[8].Date)

	def, err := svc.Window("")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12", def.Start)
	assert.Equal(t, "2024-01-20", def.Entries[8].Date)
}

func TestWindowFallsBackSilently(t *testing.T) {
	svc := newService(&stubSource{entries: days("2024-01-01", 20)})
	require.NoError(t, svc.Reload(context.Background()))

	win, err := svc.Window("2024-06-01")

	require.NoError(t, err)
	assert.True(t, win.Fallback)
	assert.Equal(t, "2024-06-01", win.RequestedStart)
	assert.Equal(t, "2024-01-12", win.Start)
	assert.Len(t, win.Entries, 9)
}

func TestWindowErrors(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		svc := newService(&stubSource{err: fmt.Errorf("%w: boom", feed.ErrFetchFailure)})
		assert.ErrorIs(t, svc.Reload(context.Background()), feed.ErrFetchFailure)
		assert.False(t, svc.Loaded())

		_, err := svc.Window("")
		assert.ErrorIs(t, err, feed.ErrFetchFailure)
		_, err = svc.Entry("2024-01-01")
		assert.ErrorIs(t, err, feed.ErrFetchFailure)
	})

	t.Run("empty feed", func(t *testing.T) {
		svc := newService(&stubSource{entries: []models.Entry{}})
		require.NoError(t, svc.Reload(context.Background()))

		_, err := svc.Window("")
		assert.ErrorIs(t, err, window.ErrEmptyFeed)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc := newService(&stubSource{entries: days("2024-01-01", 20)})
		require.NoError(t, svc.Reload(context.Background()))

		_, err := svc.Window("01/02/2024")
		assert.ErrorIs(t, err, window.ErrInvalidDate)
		_, err = svc.Entry("tomorrow")
		assert.ErrorIs(t, err, window.ErrInvalidDate)
	})
}

func TestFailedReloadKeepsPreviousFeed(t *testing.T) {
	source := &stubSource{entries: days("2024-01-01", 20)}
	svc := newService(source)
	require.NoError(t, svc.Reload(context.Background()))

	source.err = errors.New("network down")
	assert.Error(t, svc.Reload(context.Background()))

	win, err := svc.Window("2024-01-01")
	require.NoError(t, err)
	assert.Len(t, win.Entries, 9)
}

func TestReloadReplacesWindows(t *testing.T) {
	source := &stubSource{entries: days("2024-01-01", 20)}
	svc := newService(source)
	require.NoError(t, svc.Reload(context.Background()))

	before, err := svc.Window("")
	require.NoError(t, err)

	source.entries = days("2024-03-01", 20)
	require.NoError(t, svc.Reload(context.Background()))

	after, err := svc.Window("")
	require.NoError(t, err)
	assert.NotEqual(t, before.Start, after.Start)
	assert.Equal(t, "2024-03-20", after.Entries[8].Date)
	assert.Equal(t, 2, source.calls)
}

func TestStaleReloadIsDiscarded(t *testing.T) {
	source := newGatedSource(2)
	svc := newService(source)

	olderDone := make(chan error, 1)
	go func() {
		olderDone <- svc.Reload(context.Background())
	}()
	<-source.entered

	newerDone := make(chan error, 1)
	go func() {
		newerDone <- svc.Reload(context.Background())
	}()
	<-source.entered

	// The newer reload completes first, the older one arrives late
	source.gates[1] <- days("2024-03-01", 20)
	require.NoError(t, <-newerDone)

	source.gates[0] <- days("2023-01-01", 20)
	assert.ErrorIs(t, <-olderDone, feed.ErrSuperseded)

	win, err := svc.Window("")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", win.Entries[8].Date)
}

func TestEntry(t *testing.T) {
	svc := newService(&stubSource{entries: days("2024-01-01", 3)})
	require.NoError(t, svc.Reload(context.Background()))

	entry, err := svc.Entry("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "Day 2", entry.Title)

	_, err = svc.Entry("2024-02-02")
	assert.ErrorIs(t, err, services.ErrEntryNotFound)

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, svc.Dates())
}

func TestFact(t *testing.T) {
	svc := services.NewService(&config.Config{Facts: []string{"Mars has two moons."}}, &stubSource{})

	assert.Equal(t, "Did you know? Mars has two moons.", svc.Fact())
}
