package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"apod-gallery/pkg/facts"
)

func newFactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fact",
		Short: "Print a random space fact",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			fmt.Println(facts.Random(cfg.Facts))
		},
	}
}
