package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"apod-gallery/pkg/services"
)

// newExportCmd creates a new command for exporting a window
func newExportCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "export [format]",
		Short: "Export a window of entries",
		Long:  `Export the window starting at --start in the specified format. Currently supported formats: json.`,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := loadFeed(); err != nil {
				log.Fatalf("Failed to load feed: %v", err)
			}

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			exportData(format, start)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date of the window (YYYY-MM-DD), defaults to the latest window")

	return cmd
}

// exportData exports the window in the specified format
func exportData(format, start string) {
	if format != "json" {
		fmt.Printf("Unsupported export format: %s\n", format)
		fmt.Println("Supported formats: json")
		os.Exit(1)
	}

	win, err := services.GetWindow(start)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(win, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
