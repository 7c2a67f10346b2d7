package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/yigit/gradplanner/internal/pkg/logger"
	"github.com/yigit/gradplanner/internal/server"
)

// @title Degree Planner API
// @version 1.0
// @description Tracks completed and planned courses against a curriculum and reports degree progress

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Values already in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Error details are logged within the setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
