package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"apod-gallery/pkg/config"
	"apod-gallery/pkg/handlers"
	"apod-gallery/pkg/services"
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the web server to serve the gallery via HTTP.

The feed is fetched once at startup. A failed fetch does not stop the server,
the gallery shows an error until POST /api/reload succeeds.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if err := services.InitService(cfg); err != nil {
				log.Fatalf("Failed to initialize service: %v", err)
			}
			serveWebsite(cfg)
		},
	}
}

// serveWebsite loads the feed and runs the web server until interrupted
func serveWebsite(cfg *config.Config) {
	svc := services.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Reload(ctx); err != nil {
		log.Errorf("Initial feed load failed: %v", err)
	}
	cancel()

	server := &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: handlers.NewRouter(svc),
	}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		log.Info("Gracefully shutting down...")
		shutdownServer(server, 10*time.Second)
	}()

	// Start server
	cfg.PrintServerStartMessage()
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}

// shutdownServer stops the server, waiting up to timeout for open requests
func shutdownServer(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
		return err
	}
	return nil
}
