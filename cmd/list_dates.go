package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"apod-gallery/pkg/services"
)

// newListDatesCmd creates a new command for listing all feed dates
func newListDatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-dates",
		Short: "List all dates in the feed",
		Long:  `List every date that has an entry in the feed, oldest first.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := loadFeed(); err != nil {
				log.Fatalf("Failed to load feed: %v", err)
			}
			listDates()
		},
	}
}

// listDates displays all dates of the feed
func listDates() {
	dates := services.GetDates()

	fmt.Println("Feed Dates:")
	fmt.Println("===========")

	for _, date := range dates {
		fmt.Println(date)
	}

	fmt.Println()
	fmt.Printf("Total: %d entries\n", len(dates))
}
