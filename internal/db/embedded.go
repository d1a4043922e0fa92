package db

import (
	"fmt"
	"os"
	"path/filepath"

	"foodrescue/pkg/types"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
)

const (
	embeddedUser     = "foodrescue"
	embeddedPassword = "foodrescue_local"
	embeddedDatabase = "foodrescue"
)

// StartEmbedded boots a local Postgres under the configured data directory.
// This is the default mode: no DATABASE_URL means the whole app, database
// included, lives on the local machine. Returns the running instance and the
// connection string for it.
func StartEmbedded(config *types.Config) (*embeddedpostgres.EmbeddedPostgres, string, error) {
	dataDir := config.EmbeddedDataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create embedded data dir: %w", err)
	}

	instance := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(config.EmbeddedPort).
			Username(embeddedUser).
			Password(embeddedPassword).
			Database(embeddedDatabase).
			DataPath(dataDir).
			RuntimePath(filepath.Join(os.TempDir(), "foodrescue-pg-runtime")),
	)

	if err := instance.Start(); err != nil {
		return nil, "", fmt.Errorf("start embedded postgres: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@localhost:%d/%s?sslmode=disable",
		embeddedUser, embeddedPassword, config.EmbeddedPort, embeddedDatabase)

	return instance, dsn, nil
}
