package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/moments/internal/backup"
	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/config"
	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/logger"
	"github.com/julianstephens/moments/internal/session"
	"github.com/julianstephens/moments/internal/storage/sqlite"
	"github.com/julianstephens/moments/internal/utils"
	"github.com/julianstephens/moments/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks report a warning instead of failing the run
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Database integrity", run: checkIntegrity, needsDB: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Orphaned logs", run: checkOrphanLogs, needsDB: true, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Session lock", run: checkSession, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone, needsDB: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Printf("\nLog file: %s\n", logger.LogFile(config.ConfigDir(ctx.Store.GetConfigPath())))
	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func sqliteStore(ctx *cli.Context) (*sqlite.Store, error) {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("unsupported storage backend")
	}
	if s.GetDB() == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return s, nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	s, err := sqliteStore(ctx)
	if err != nil {
		return err
	}
	var result int
	if err := s.GetDB().QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	return r.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.Pending > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkIntegrity(ctx *cli.Context) error {
	s, err := sqliteStore(ctx)
	if err != nil {
		return err
	}
	result, err := s.IntegrityCheck()
	if err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported: %s", result)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	entries, err := ctx.Repo.Entries()
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}

	v := validation.New()
	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		if ids[e.ID] {
			return fmt.Errorf("duplicate entry ID found: %s", e.ID)
		}
		ids[e.ID] = true

		in := validation.EntryInput{
			Title:       e.Title,
			Description: e.Description,
			Category:    string(e.Category),
			Icon:        string(e.Icon),
		}
		if err := v.ValidateEntry(in); err != nil {
			return fmt.Errorf("entry %s (%q) is invalid: %w", e.ID, e.Title, err)
		}
	}
	return nil
}

func checkOrphanLogs(ctx *cli.Context) error {
	n, err := ctx.Store.CountOrphanLogs()
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%d log(s) reference deleted moments and show as %q", n, constants.OrphanTitle)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'moments backup create'")
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	status, err := session.Inspect(config.ConfigDir(ctx.Store.GetConfigPath()))
	if err != nil {
		return fmt.Errorf("unreadable lockfile %s: %w", status.Path, err)
	}
	if status.Stale {
		return fmt.Errorf("stale lockfile from pid %d (started %s); it is replaced on the next TUI start",
			status.PID, status.StartedAt.Format(time.RFC3339))
	}
	if status.Running {
		ctx.Printf("   TUI session running (pid %d)\n", status.PID)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	loc, err := utils.LocationFromSettings(settings, ctx.Timezone)
	if err != nil {
		return err
	}
	ctx.Printf("   Timezone: %s\n", loc)
	return nil
}
