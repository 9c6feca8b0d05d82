package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/moments/internal/logger"
	"github.com/julianstephens/moments/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix.
// Missing records get a hint pointing at the listing commands.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("Error: %v (see 'moments entry list')", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
