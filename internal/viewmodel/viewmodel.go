// Package viewmodel exposes entries and logs as observable state for the TUI
// and turns user intents into background writes.
package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/moments/internal/logger"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/repository"
	"github.com/julianstephens/moments/internal/stats"
)

// EntryView is an entry as shown on an activity card
type EntryView struct {
	models.Entry
}

func (e EntryView) Glyph() string { return e.Icon.Glyph() }

func (e EntryView) CategoryLabel() string { return e.Category.Label() }

func (e EntryView) Palette() models.Palette { return e.Category.Palette() }

// LogView is a log resolved against its entry, with placeholders for orphans
type LogView = stats.FeedItem

type ViewModel struct {
	repo *repository.Repository

	Entries *State[[]EntryView]
	Logs    *State[[]LogView]

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New loads the current data and starts following storage changes until
// ctx is cancelled or Close is called.
func New(ctx context.Context, repo *repository.Repository) (*ViewModel, error) {
	ctx, cancel := context.WithCancel(ctx)
	vm := &ViewModel{
		repo:    repo,
		Entries: NewState([]EntryView{}),
		Logs:    NewState([]LogView{}),
		cancel:  cancel,
	}

	changes, unsubscribe := repo.Store().Subscribe()
	if err := vm.refresh(); err != nil {
		unsubscribe()
		cancel()
		return nil, err
	}

	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if err := vm.refresh(); err != nil {
					logger.Error("failed to refresh view state", "error", err)
				}
			}
		}
	}()

	return vm, nil
}

func (vm *ViewModel) refresh() error {
	entries, err := vm.repo.Entries()
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	logs, err := vm.repo.Logs()
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}

	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = EntryView{Entry: e}
	}
	vm.Entries.Set(views)
	vm.Logs.Set(stats.Feed(logs, entries))
	return nil
}

// launch runs fn in the background. Tasks started before Close always run to
// completion; failures are logged and callers never see them.
func (vm *ViewModel) launch(task string, fn func() error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		logger.Warn("dropping task after close", "task", task)
		return
	}

	vm.wg.Add(1)
	go func() {
		defer vm.wg.Done()
		if err := fn(); err != nil {
			logger.Error("background task failed", "task", task, "error", err)
			return
		}
		logger.Debug("background task done", "task", task)
	}()
}

func (vm *ViewModel) AddEntry(title, description string, category models.Category, icon models.Icon) {
	vm.launch("add entry", func() error {
		_, err := vm.repo.AddEntry(title, description, category, icon)
		return err
	})
}

func (vm *ViewModel) DeleteEntry(id string) {
	vm.launch("delete entry", func() error {
		_, err := vm.repo.DeleteEntryByID(id)
		return err
	})
}

func (vm *ViewModel) AddLog(entryID string) {
	vm.launch("add log", func() error {
		_, err := vm.repo.AddLog(entryID)
		return err
	})
}

// SeedDemoDefaults inserts the given entries whose titles are not yet present
func (vm *ViewModel) SeedDemoDefaults(entries []models.Entry) {
	vm.launch("seed demo entries", func() error {
		n, err := vm.repo.SeedIfMissing(entries)
		if err == nil && n > 0 {
			logger.Info("seeded demo entries", "count", n)
		}
		return err
	})
}

// Close cancels the scope, waits for in-flight tasks and ends all subscriptions
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	vm.closed = true
	vm.mu.Unlock()

	vm.cancel()
	vm.wg.Wait()
	vm.Entries.closeAll()
	vm.Logs.closeAll()
}
