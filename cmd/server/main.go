package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/vrcadmin/internal/config"
	"github.com/nfrund/vrcadmin/internal/logging"
	"github.com/nfrund/vrcadmin/internal/server"
)

func main() {
	logging.New()
	cfg := config.New()

	s, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}
	if err := s.RegisterRoutes(); err != nil {
		slog.Error("Failed to register routes", "error", err)
		os.Exit(1)
	}
	if err := s.Start(context.Background()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
