package settings

import (
	"fmt"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/validation"
)

type SettingsCmd struct {
	Timezone string `name:"set-timezone" help:"IANA timezone used to bucket days (or Local)."`
	SeedDemo *bool  `help:"Create demo moments when a new database is initialized." negatable:""`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != "" {
		if err := validation.New().Field(validation.FieldTimezone, c.Timezone); err != nil {
			return err
		}
		settings.Timezone = c.Timezone
		updated = true
	}
	if c.SeedDemo != nil {
		settings.SeedDemo = *c.SeedDemo
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Timezone:  %s\n", settings.Timezone)
	ctx.Printf("  Seed demo: %v\n", settings.SeedDemo)
	if ctx.Timezone != "" {
		ctx.Printf("  (timezone overridden by environment: %s)\n", ctx.Timezone)
	}
	return nil
}
