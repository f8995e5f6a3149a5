package main

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/PSeitz/veloci-sub001/api"
	"github.com/PSeitz/veloci-sub001/internal/engine"
)

// maxRequestBody bounds request bodies; index creation carries the whole index data.
const maxRequestBody = 256 << 20

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP search server",
		Long:  `Loads every index persisted in the data directory and serves the search API.`,
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	c.Flags().String(flagPort, "", "Port to run the server on (default 8080)")
	return c
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	searchEngine := engine.NewEngine(cfg)

	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.CORSMiddleware(), api.RequestSizeLimitMiddleware(maxRequestBody))
	api.SetupRoutes(router, searchEngine)

	slog.Info("starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
