package system

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/backup"
	"github.com/julianstephens/dosely/internal/cli"
)

type MigrateCmd struct {
	NoBackup bool `help:"Skip the database snapshot taken before pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersions()
	if err != nil {
		return err
	}

	if current < latest && !c.NoBackup && isSQLite(ctx.Store) {
		snapshot, err := backup.NewManager(ctx.Store.GetConfigPath()).Create("pre-migrate")
		if err != nil {
			return fmt.Errorf("failed to back up database before migrating: %w", err)
		}
		fmt.Printf("Backed up database to: %s\n", snapshot)
	}

	applied, err := ctx.Store.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if current, _, err = ctx.Store.SchemaVersions(); err != nil {
		return err
	}

	if applied == 0 {
		fmt.Printf("Database is up to date (schema version %d)\n", current)
		return nil
	}
	fmt.Printf("Applied %d migration(s), schema version is now %d\n", applied, current)
	return nil
}
