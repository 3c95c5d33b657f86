package cmd

import (
	"context"
	"eventdesk/outbound/migration"
	"fmt"
)

func runMigrateCmd(ctx context.Context) error {
	cfg := newCfg("env")

	db := newDb(cfg)
	defer db.Close()

	if err := migration.Run(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
