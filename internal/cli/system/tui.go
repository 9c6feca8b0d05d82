package system

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/config"
	"github.com/julianstephens/moments/internal/logger"
	"github.com/julianstephens/moments/internal/repository"
	"github.com/julianstephens/moments/internal/session"
	"github.com/julianstephens/moments/internal/tui"
	"github.com/julianstephens/moments/internal/viewmodel"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()

	// First launch creates the database instead of failing on Load
	_, statErr := os.Stat(dbPath)
	created := os.IsNotExist(statErr)
	if created {
		if err := ctx.Store.Init(); err != nil {
			return err
		}
		logger.Info("created database", "path", dbPath)
	} else if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	release, err := session.Acquire(config.ConfigDir(dbPath), ctx.Now())
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("failed to remove session lockfile", "error", err)
		}
	}()

	if !created {
		ctx.PerformAutomaticBackup()
	}

	vm, err := viewmodel.New(context.Background(), ctx.Repo)
	if err != nil {
		return err
	}
	defer vm.Close()

	if created && settings.SeedDemo {
		vm.SeedDemoDefaults(repository.DemoEntries())
	}

	p := tea.NewProgram(tui.NewModel(vm, loc, ctx.Now), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
