package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/cli/backups"
	"github.com/julianstephens/moments/internal/cli/entries"
	"github.com/julianstephens/moments/internal/cli/reports"
	"github.com/julianstephens/moments/internal/cli/settings"
	"github.com/julianstephens/moments/internal/cli/system"
	"github.com/julianstephens/moments/internal/config"
	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/errors"
	"github.com/julianstephens/moments/internal/logger"
	"github.com/julianstephens/moments/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database file path." type:"path" default:"${db_path}"`
	Timezone string `help:"Display timezone (IANA name), overriding the stored setting." default:"${timezone}"`
	Debug    bool   `help:"Enable debug logging to stderr." default:"${debug}"`

	Init     system.InitCmd       `cmd:"" help:"Initialize moments storage."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Seed     system.SeedCmd       `cmd:"" help:"Add the demo moments that are missing."`
	Entry    entries.EntryCmd     `cmd:"" help:"Manage moments."`
	Log      entries.LogCmd       `cmd:"" help:"Record that a moment happened now."`
	Feed     entries.FeedCmd      `cmd:"" help:"Show recorded activities, newest first."`
	Stats    reports.StatsCmd     `cmd:"" help:"Show the last 7 days and today's breakdown."`
	Report   reports.ReportCmd    `cmd:"" help:"Export charts as HTML or PNG."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// selfLoading commands open the database themselves
var selfLoading = []string{"init", "tui", "migrate", "doctor"}

func main() {
	cfg := config.Load()

	parser, err := newParser(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	dbPath, err := config.ExpandPath(CLI.Config)
	if err != nil {
		errors.Fatal(fmt.Errorf("failed to resolve database path: %w", err))
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: config.ConfigDir(dbPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store := sqlite.NewStore(dbPath)
	defer store.Close()

	appCtx := cli.NewContext(store, CLI.Timezone)

	if !loadsItself(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func newParser(cfg config.Config) (*kong.Kong, error) {
	return kong.New(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Collect everyday moments and see how your week adds up"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"db_path":  cfg.DBPath,
			"timezone": cfg.Timezone,
			"debug":    fmt.Sprintf("%t", cfg.Debug),
		},
	)
}

func loadsItself(command string) bool {
	for _, name := range selfLoading {
		if command == name || strings.HasPrefix(command, name+" ") {
			return true
		}
	}
	return false
}
