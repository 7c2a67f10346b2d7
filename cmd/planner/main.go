// Command planner computes degree progress from transcript or backup files
// without a database.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/config"
	"github.com/yigit/gradplanner/internal/pkg/logger"
)

func main() {
	// .env is optional for the command line
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error loading .env: %s\n", err)
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.LogLevel(config.GetEnv("LOG_LEVEL", "warn")),
		Pretty: true,
		Output: os.Stderr,
	})

	catalogStore, err := catalog.Load(config.GetEnv("CATALOG_PATH", ""))
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to load catalog")
	}

	cli, err := newCommandLine(catalogStore, config.GetEnv("CATALOG_DEFAULT_CURRICULUM", ""), os.Stdout, lgr)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to set up command line")
	}

	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
