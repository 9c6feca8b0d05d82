package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/moments/internal/backup"
	"github.com/julianstephens/moments/internal/logger"
	"github.com/julianstephens/moments/internal/repository"
	"github.com/julianstephens/moments/internal/storage"
	"github.com/julianstephens/moments/internal/utils"
)

type Context struct {
	Store storage.Provider
	Repo  *repository.Repository
	// Timezone overrides the stored timezone setting when non-empty
	Timezone string
	Out      io.Writer
	In       io.Reader
	Now      func() time.Time
}

// NewContext wires a repository over store and binds the process streams
func NewContext(store storage.Provider, timezone string) *Context {
	return &Context{
		Store:    store,
		Repo:     repository.New(store),
		Timezone: timezone,
		Out:      os.Stdout,
		In:       os.Stdin,
		Now:      time.Now,
	}
}

func (c *Context) Printf(format string, a ...any) {
	fmt.Fprintf(c.Out, format, a...)
}

func (c *Context) Println(a ...any) {
	fmt.Fprintln(c.Out, a...)
}

// Location resolves the display timezone from the override or stored settings
func (c *Context) Location() (*time.Location, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return utils.LocationFromSettings(settings, c.Timezone)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
