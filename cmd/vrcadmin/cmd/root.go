package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/config"
	"github.com/nfrund/vrcadmin/internal/logging"
	"github.com/spf13/cobra"
)

var apiBaseURL string

var rootCmd = &cobra.Command{
	Use:   "vrcadmin",
	Short: "VRC volunteer administration",
	Long: `vrcadmin runs the volunteer admin web app and offers a few operator
commands against the same backend.

Available commands:
  serve          Run the web app
  volunteer      Look up volunteers and their assignments
  scan           Verify attendance from QR code images
  list-services  List the keys in the service registry

Use "vrcadmin [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logging.New()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "backend base URL (defaults to API_BASE_URL)")
}

// newClient builds a backend client for operator commands, which do not
// need the full web configuration.
func newClient() (*backend.Client, error) {
	base := apiBaseURL
	if base == "" {
		base = os.Getenv("API_BASE_URL")
	}
	if base == "" {
		base = config.DefaultAPIBaseURL
	}
	c, err := backend.New(base)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	return c, nil
}
