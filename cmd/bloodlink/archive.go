package main

import (
	"fmt"
	"time"

	"bloodlink/internal/db"
	"bloodlink/internal/jobs"
	"bloodlink/internal/settings"
	"bloodlink/internal/store"

	"github.com/urfave/cli/v2"
)

var archiveCommand = &cli.Command{
	Name:  "archive",
	Usage: "Expire open requests older than the auto-archive window once and exit",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)

		pool, err := db.Connect(c.Context, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		provider := settings.NewProvider(store.NewSettingsRepository(pool), logger)
		archiver := jobs.NewArchiver(store.NewBloodRequestRepository(pool), provider, logger)

		_, err = archiver.Run(c.Context, time.Now())
		return err
	},
}
