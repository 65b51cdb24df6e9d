package main

import (
	"os"

	"github.com/gdg-garage/memorial-api/internal/config"
	"github.com/gdg-garage/memorial-api/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Memorial page API",
	Long:  `Serves memorial pages with RSVP collection, waitlist and capacity management.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load Configuration
		cfg = config.LoadConfig()
		logging.Setup(cfg.LogLevel, cfg.LogFormat)
	},
	RunE: runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
