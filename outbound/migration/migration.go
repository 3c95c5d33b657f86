package migration

import (
	"context"
	"embed"
	"eventdesk/common/constant"
	"fmt"
	"github.com/jackc/pgx/v5/pgconn"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// Names returns the embedded migration files in apply order.
func Names() ([]string, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Run applies every embedded migration. Statements are idempotent so Run is
// safe on every start.
func Run(ctx context.Context, db Execer) error {
	names, err := Names()
	if err != nil {
		return err
	}

	for _, name := range names {
		raw, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := db.Exec(ctx, string(raw)); err != nil {
			slog.ErrorContext(ctx, "failed to apply migration", slog.String("migration", name), slog.Any(constant.LogFieldErr, err))
			return fmt.Errorf("exec migration %s: %w", name, err)
		}

		slog.DebugContext(ctx, "migration applied", slog.String("migration", name))
	}

	slog.InfoContext(ctx, "migrations applied", slog.Int("count", len(names)))
	return nil
}
