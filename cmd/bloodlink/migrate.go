package main

import (
	"fmt"

	"bloodlink/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the bloodlink schema, tables and indexes",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the schema instead of applying it",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Bool("dry-run") {
			fmt.Println(db.Schema())
			return nil
		}

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

		if err := db.Migrate(c.Context, pool); err != nil {
			return err
		}

		logger.Info("schema migrated")
		return nil
	},
}
