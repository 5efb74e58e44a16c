package cmd

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"apod-gallery/pkg/config"
	"apod-gallery/pkg/services"
)

// Configuration flags
var (
	feedURL      string
	portNumber   string
	configFile   string
	maxExtension int
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apod-gallery",
		Short: "APOD Gallery browses a feed of dated astronomy pictures",
		Long: `APOD Gallery is a command line application that loads a feed of dated media
entries and shows them nine at a time, starting from a chosen date. It can also
serve the gallery via a web interface.`,
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&feedURL, "feed-url", "u", "", "Set the FEED_URL (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Set the GALLERY_CONFIG file (overrides environment variable)")
	rootCmd.PersistentFlags().IntVarP(&maxExtension, "max-extension", "e", -1, "Set the MAX_EXTENSION_DAYS (overrides environment variable)")

	// Add commands to root
	rootCmd.AddCommand(newListDatesCmd())
	rootCmd.AddCommand(newShowWindowCmd())
	rootCmd.AddCommand(newShowEntryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newFactCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	if feedURL != "" {
		os.Setenv("FEED_URL", feedURL)
	}

	if portNumber != "" {
		os.Setenv("PORT", portNumber)
	}

	if configFile != "" {
		os.Setenv("GALLERY_CONFIG", configFile)
	}

	if maxExtension >= 0 {
		os.Setenv("MAX_EXTENSION_DAYS", strconv.Itoa(maxExtension))
	}

	// Load configuration from environment variables (potentially set above)
	return config.Load()
}

// loadFeed initializes the service and fetches the feed once
func loadFeed() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := services.InitService(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return services.Reload(ctx)
}
