package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"apod-gallery/pkg/models"
)

// DefaultURL is the public APOD-shaped feed
const DefaultURL = "https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json"

// ErrFetchFailure is returned when the feed cannot be retrieved or decoded
var ErrFetchFailure = errors.New("failed to load feed")

// Source retrieves the complete raw feed
type Source interface {
	Fetch(ctx context.Context) ([]models.Entry, error)
}

// NewSource returns a source for the given location. gs://bucket/object
// locations are read from Cloud Storage, everything else over HTTP.
func NewSource(location string, anonymous bool) (Source, error) {
	if strings.HasPrefix(location, "gs://") {
		bucket, object, ok := strings.Cut(strings.TrimPrefix(location, "gs://"), "/")
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("invalid storage location: %s", location)
		}
		return &GCSSource{Bucket: bucket, Object: object, Anonymous: anonymous}, nil
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return nil, fmt.Errorf("unsupported feed location: %s", location)
	}
	return &HTTPSource{URL: location}, nil
}

// HTTPSource fetches the feed with a GET request, bypassing caches
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Fetch retrieves and decodes the feed
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Entry, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	log.WithField("url", s.URL).Info("Fetching feed")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailure, resp.StatusCode)
	}

	return decode(resp.Body)
}

// GCSSource reads the feed from a Cloud Storage object
type GCSSource struct {
	Bucket    string
	Object    string
	Anonymous bool
}

// Fetch reads and decodes the feed object
func (s *GCSSource) Fetch(ctx context.Context) ([]models.Entry, error) {
	var opts []option.ClientOption
	if s.Anonymous {
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create storage client: %v", ErrFetchFailure, err)
	}
	defer client.Close()

	log.WithFields(log.Fields{
		"bucket": s.Bucket,
		"object": s.Object,
	}).Info("Fetching feed")

	reader, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: Object(%q).NewReader: %v", ErrFetchFailure, s.Object, err)
	}
	defer reader.Close()

	return decode(reader)
}

func decode(r io.Reader) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode feed: %v", ErrFetchFailure, err)
	}
	return entries, nil
}
