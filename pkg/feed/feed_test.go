package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apod-gallery/pkg/feed"
	"apod-gallery/pkg/models"
)

const sampleFeed = `[
  {"date": "2024-01-02", "title": "Second", "media_type": "video", "url": "https://www.youtube.com/watch?v=abc", "thumbnail_url": "https://img/thumb.jpg"},
  {"date": "2024-01-01", "title": "First", "media_type": "image", "url": "https://img/1.jpg", "hdurl": "https://img/1_hd.jpg", "explanation": "A galaxy."},
  {"date": "not a date", "title": "Broken"}
]`

func TestNewIndex(t *testing.T) {
	idx := feed.NewIndex([]models.Entry{
		{Date: "2024-01-03", Title: "C"},
		{Date: "2024-01-01", Title: "A"},
		{Date: "2024-01-02", Title: "B"},
		{Date: "2024-01-01", Title: "A again"},
		{Date: "01/04/2024", Title: "bad"},
		{Title: "no date"},
	})

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, idx.Dates())

	entry, ok := idx.Get("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, "A again", entry.Title)

	_, ok = idx.Get("01/04/2024")
	assert.False(t, ok)
}

func TestNilIndex(t *testing.T) {
	var idx *feed.Index

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Dates())
	_, ok := idx.Get("2024-01-01")
	assert.False(t, ok)
}

func TestStoreLoadReplacesIndex(t *testing.T) {
	store := feed.NewStore()
	assert.Equal(t, uint64(0), store.Generation())
	assert.Empty(t, store.AllDates())

	store.Load([]models.Entry{{Date: "2024-01-01"}, {Date: "2024-01-02"}})
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, store.AllDates())

	store.Load([]models.Entry{{Date: "2024-05-05"}})
	assert.Equal(t, []string{"2024-05-05"}, store.AllDates())
	assert.Equal(t, uint64(2), store.Generation())
}

func TestStoreAllDatesIsACopy(t *testing.T) {
	store := feed.NewStore()
	store.Load([]models.Entry{{Date: "2024-01-01"}})

	dates := store.AllDates()
	dates[0] = "changed"

	assert.Equal(t, []string{"2024-01-01"}, store.AllDates())
}

func TestStoreDropsSupersededCommit(t *testing.T) {
	store := feed.NewStore()

	first := store.Begin()
	second := store.Begin()

	require.NoError(t, store.Commit(second, []models.Entry{{Date: "2024-02-02"}}))

	// The older fetch arrives late and must not overwrite the newer data
	err := store.Commit(first, []models.Entry{{Date: "2024-01-01"}})
	assert.ErrorIs(t, err, feed.ErrSuperseded)

	idx, gen := store.Index()
	assert.Equal(t, second, gen)
	assert.Equal(t, []string{"2024-02-02"}, idx.Dates())
}

func TestStoreConcurrentCommits(t *testing.T) {
	store := feed.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		gen := store.Begin()
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Commit(gen, []models.Entry{{Date: "2024-01-01"}})
			store.AllDates()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(20), store.Generation())
}

func TestHTTPSourceFetch(t *testing.T) {
	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	source := &feed.HTTPSource{URL: server.URL}
	entries, err := source.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-01-02", entries[0].Date)
	assert.Equal(t, models.MediaVideo, entries[0].MediaType)
	assert.Equal(t, "https://img/thumb.jpg", entries[0].ThumbnailUrl)
	assert.Equal(t, "https://img/1_hd.jpg", entries[1].HdUrl)
	assert.Equal(t, "A galaxy.", entries[1].Explanation)

	sent := <-headers
	assert.Contains(t, sent.Get("Cache-Control"), "no-store")
	assert.Equal(t, "no-cache", sent.Get("Pragma"))
}

func TestHTTPSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"date": `))
			},
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"date": "2024-01-01"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := (&feed.HTTPSource{URL: server.URL}).Fetch(context.Background())
			assert.ErrorIs(t, err, feed.ErrFetchFailure)
		})
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := (&feed.HTTPSource{URL: url}).Fetch(context.Background())
	assert.ErrorIs(t, err, feed.ErrFetchFailure)
}

func TestNewSource(t *testing.T) {
	source, err := feed.NewSource(feed.DefaultURL, false)
	require.NoError(t, err)
	assert.IsType(t, &feed.HTTPSource{}, source)

	source, err = feed.NewSource("gs://my-bucket/feeds/apod.json", true)
	require.NoError(t, err)
	gcs, ok := source.(*feed.GCSSource)
	require.True(t, ok)
	assert.Equal(t, "my-bucket", gcs.Bucket)
	assert.Equal(t, "feeds/apod.json", gcs.Object)
	assert.True(t, gcs.Anonymous)

	for _, location := range []string{"gs://bucket-only", "gs:///object", "ftp://example.com/data.json", "data.json"} {
		_, err := feed.NewSource(location, false)
		assert.Error(t, err, location)
	}
}
