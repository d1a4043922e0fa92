package main

import (
	"context"
	"fmt"

	"foodrescue/internal/db"
	"foodrescue/internal/market"
	"foodrescue/internal/seed"
	"foodrescue/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the marketplace with demo donors, charities and listings",
	Action: func(c *cli.Context) error {
		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		config, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		if config.DatabaseURL == "" {
			instance, dsn, err := db.StartEmbedded(config)
			if err != nil {
				return err
			}
			defer func() {
				if err := instance.Stop(); err != nil {
					logger.WithError(err).Warn("failed to stop embedded postgres")
				}
			}()
			config.DatabaseURL = dsn
		}

		pool, err := db.Connect(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		logger.Info("Seeding demo marketplace...")
		if err := seed.Demo(ctx, market.New(ctx, store.NewPostgres(pool), logger)); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}

		logger.Info("Demo data seeded successfully")

		return nil
	},
}
