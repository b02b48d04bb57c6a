// Command provision creates the expense database if absent: it opens the
// configured SQLite file, applies all pending migrations (tables,
// constraints, indexes, summary views) and seeds the default categories.
// Running it against an already provisioned database is a no-op.
package main

import (
	"context"

	"expenses/internal/cli"
	"expenses/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentProvision)

	repo := cli.InitRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	categories, err := repo.ListCategories(context.Background())
	if err != nil {
		logger.Error("Failed to read categories after provisioning", log.FieldError, err)
		return
	}

	defaults := 0
	for _, c := range categories {
		if c.IsDefault {
			defaults++
		}
	}

	logger.Info("Database provisioned",
		log.FieldDBPath, cfg.SQLiteDBPath,
		"categories", len(categories),
		"default_categories", defaults)
}
