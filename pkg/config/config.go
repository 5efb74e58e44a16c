package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"apod-gallery/pkg/feed"
	"apod-gallery/pkg/window"
)

// Config holds all configuration for the application
type Config struct {
	FeedURL      string
	Port         string
	MaxExtension int
	Anonymous    bool
	Facts        []string
}

// FileConfig is the optional TOML configuration file
type FileConfig struct {
	FeedURL      string   `toml:"feed_url"`
	MaxExtension *int     `toml:"max_extension_days,omitempty"`
	Anonymous    bool     `toml:"gcs_anonymous"`
	Facts        []string `toml:"facts,omitempty"`
}

// ErrInvalidMaxExtension is returned when MAX_EXTENSION_DAYS is not a non-negative integer
var ErrInvalidMaxExtension = errors.New("MAX_EXTENSION_DAYS must be a non-negative integer")

// Load loads configuration from the optional GALLERY_CONFIG file and environment
// variables. Environment variables take precedence over the file.
func Load() (*Config, error) {
	cfg := &Config{
		FeedURL:      feed.DefaultURL,
		Port:         "8080",
		MaxExtension: window.DefaultMaxExtension,
	}

	if path := os.Getenv("GALLERY_CONFIG"); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		file.apply(cfg)
	}

	if feedURL := os.Getenv("FEED_URL"); feedURL != "" {
		cfg.FeedURL = feedURL
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if ext := os.Getenv("MAX_EXTENSION_DAYS"); ext != "" {
		n, err := strconv.Atoi(ext)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMaxExtension, ext)
		}
		cfg.MaxExtension = n
	}

	if anon := os.Getenv("GCS_ANONYMOUS"); anon != "" {
		b, err := strconv.ParseBool(anon)
		if err != nil {
			return nil, fmt.Errorf("GCS_ANONYMOUS must be a boolean: %q", anon)
		}
		cfg.Anonymous = b
	}

	if cfg.MaxExtension < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxExtension, cfg.MaxExtension)
	}

	return cfg, nil
}

// LoadFile reads a TOML configuration file
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var file FileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &file, nil
}

func (f *FileConfig) apply(cfg *Config) {
	if f.FeedURL != "" {
		cfg.FeedURL = f.FeedURL
	}
	if f.MaxExtension != nil {
		cfg.MaxExtension = *f.MaxExtension
	}
	if f.Anonymous {
		cfg.Anonymous = true
	}
	if len(f.Facts) > 0 {
		cfg.Facts = f.Facts
	}
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting server at port %s\n", c.Port)
	fmt.Printf("Gallery URL: http://localhost:%s/gallery\n", c.Port)
	fmt.Printf("Window API: http://localhost:%s/api/window\n", c.Port)
}
