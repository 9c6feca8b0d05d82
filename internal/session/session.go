// Package session tracks the running TUI through a lockfile next to the
// database, so other commands can tell whether an interactive session holds it.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/moments/internal/constants"
)

const lockFileName = "moments.lock"

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrActive is returned by Acquire when a live session already holds the lock
var ErrActive = errors.New("another moments session is running")

// Status describes the lockfile found in a config directory
type Status struct {
	Path      string
	PID       int
	StartedAt time.Time
	// Running is set when the PID belongs to a live moments process
	Running bool
	// Stale is set when a lockfile exists but its process is gone
	Stale bool
}

// LockPath returns the lockfile location for configDir
func LockPath(configDir string) string {
	return filepath.Join(configDir, lockFileName)
}

// Inspect reads the lockfile in configDir. A missing file is not an error.
func Inspect(configDir string) (Status, error) {
	path := LockPath(configDir)
	status := Status{Path: path}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return status, nil
	}
	if err != nil {
		return status, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return status, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return status, errors.New("invalid process ID in lockfile")
	}
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return status, errors.New("invalid start time in lockfile")
	}
	status.PID = pid
	status.StartedAt = time.UnixMilli(millis)

	process, err := findProcessFunc(pid)
	if err == nil && process != nil && strings.HasPrefix(process.Executable(), constants.AppName) {
		status.Running = true
	} else {
		status.Stale = true
	}
	return status, nil
}

// Acquire writes a lockfile for the current process and returns a release
// func. A stale lockfile is replaced; a live one yields ErrActive.
func Acquire(configDir string, now time.Time) (func() error, error) {
	status, err := Inspect(configDir)
	if err == nil && status.Running && status.PID != getpidFunc() {
		return nil, fmt.Errorf("%w (pid %d)", ErrActive, status.PID)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}
	pid := getpidFunc()
	content := fmt.Sprintf("%d|%d\n", pid, now.UnixMilli())
	if err := os.WriteFile(status.Path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	return func() error {
		current, err := Inspect(configDir)
		if err != nil || current.PID != pid {
			return nil
		}
		if err := os.Remove(status.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}, nil
}
