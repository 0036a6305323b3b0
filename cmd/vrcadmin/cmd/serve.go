package cmd

import (
	"github.com/nfrund/vrcadmin/internal/config"
	"github.com/nfrund/vrcadmin/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin web app",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()
		if apiBaseURL != "" {
			cfg.APIBaseURL = apiBaseURL
		}
		s, err := server.New(cfg)
		if err != nil {
			return err
		}
		if err := s.RegisterRoutes(); err != nil {
			return err
		}
		return s.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
