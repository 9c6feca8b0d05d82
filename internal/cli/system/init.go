package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/repository"
)

type InitCmd struct {
	Force  bool `help:"Force reset by deleting existing database before initialization."`
	NoSeed bool `help:"Do not create the demo entries and disable demo seeding."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file lock
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	_, statErr := os.Stat(dbPath)
	created := os.IsNotExist(statErr)

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized moments storage at: %s\n", dbPath)

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if c.NoSeed && settings.SeedDemo {
		settings.SeedDemo = false
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	if created && settings.SeedDemo {
		n, err := ctx.Repo.SeedIfMissing(repository.DemoEntries())
		if err != nil {
			return err
		}
		ctx.Printf("Added %d demo moment(s).\n", n)
	}

	return nil
}
