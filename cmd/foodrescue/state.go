package main

import (
	"context"
	"encoding/json"
	"fmt"

	"foodrescue/internal/db"
	"foodrescue/internal/store"
	"foodrescue/pkg/types"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// state pretty-prints the persisted namespaces, handy when poking at a
// local database.
var stateCommand = &cli.Command{
	Name:  "state",
	Usage: "Dump the persisted marketplace state",
	Action: func(c *cli.Context) error {
		logger := logrus.New()

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

		kv := store.NewPostgres(pool)

		var users []*types.User
		if err := dumpNamespace(ctx, kv, store.NamespaceUsers, &users); err != nil {
			return err
		}

		var listings []*types.Listing
		if err := dumpNamespace(ctx, kv, store.NamespaceListings, &listings); err != nil {
			return err
		}

		var session *types.User
		if err := dumpNamespace(ctx, kv, store.NamespaceSession, &session); err != nil {
			return err
		}

		return nil
	},
}

func dumpNamespace(ctx context.Context, kv store.KV, namespace string, out any) error {
	blob, err := kv.Get(ctx, namespace)
	if err != nil {
		return fmt.Errorf("read namespace %s: %w", namespace, err)
	}

	fmt.Printf("--- %s ---\n", namespace)
	if blob == nil {
		fmt.Println("(never written)")
		return nil
	}

	if err := json.Unmarshal(blob, out); err != nil {
		fmt.Printf("(malformed: %v)\n%s\n", err, blob)
		return nil
	}

	pp.Println(out)
	return nil
}
