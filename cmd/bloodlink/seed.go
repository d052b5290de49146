package main

import (
	"fmt"

	"bloodlink/internal/db"
	"bloodlink/internal/seed"
	"bloodlink/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with default settings and sample donors and requests",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the seed data without touching the database",
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Delete previously seeded requests before seeding",
		},
	},
	Action: func(c *cli.Context) error {
		data := seed.Sample()

		if c.Bool("dry-run") {
			pp.Println(data)
			return nil
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := c.Context

		// Connect to database
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("connected to database")

		if c.Bool("reset") {
			deleted, err := seed.Reset(ctx, pool)
			if err != nil {
				return err
			}
			logger.WithField("deleted", deleted).Info("seeded requests reset")
		}

		seeder := seed.NewSeeder(
			store.NewSettingsRepository(pool),
			store.NewDonorRepository(pool),
			store.NewBloodRequestRepository(pool),
			logger,
		)

		if err := seeder.Seed(ctx, data); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}

		logger.Info("seed complete")
		return nil
	},
}
