package system

import (
	"fmt"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/migration"
	"github.com/julianstephens/moments/internal/storage/sqlite"
)

type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Apply pending migrations." default:"1"`
	Status MigrateStatusCmd `cmd:"" help:"Show the schema version."`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the most recent migration."`
}

func runner(ctx *cli.Context) (*migration.Runner, error) {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("migrate command only supports SQLite storage")
	}
	return sqliteStore.Migrations()
}

type MigrateUpCmd struct{}

func (c *MigrateUpCmd) Run(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}

	count, err := r.ApplyMigrations(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}

type MigrateStatusCmd struct{}

func (c *MigrateStatusCmd) Run(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	st, err := r.Status()
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	ctx.Printf("Current version: %d\n", st.Current)
	ctx.Printf("Latest version:  %d\n", st.Latest)
	ctx.Printf("Pending:         %d\n", st.Pending)
	if st.Dirty {
		ctx.Println("⚠ Schema is dirty; a migration failed part-way.")
	}
	return nil
}

type MigrateDownCmd struct{}

func (c *MigrateDownCmd) Run(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	if err := r.Rollback(func(msg string) { ctx.Println(msg) }); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}
