package migrate

import (
	"context"
	"fmt"

	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/db"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// MaybeRunDev brings a dev database up to date on API startup when
// GRAMBAZAAR_DB_RUN_MIGRATIONS_DEV is set. Other environments migrate
// through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.DB.RunMigrationsDev {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, nil)
	if err != nil {
		return err
	}

	applied, err := runner.Up(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", applied), "migrate.dev.done")
	return nil
}
