package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/corey/aoi/internal/adapters/bbolt"
	"github.com/corey/aoi/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns guidance for a locked run database. The usual
// holder is a long-running "aoi watch --save".
func diagnoseDBLock(db string) string {
	return fmt.Sprintf("run database %s is locked by another process\n"+
		"  → a running \"aoi watch --save\" holds it until stopped\n"+
		"  → find the process:  ps aux | grep 'aoi'\n"+
		"  → then retry your command", db)
}

// openRuns opens the project's run store, turning lock contention into an
// actionable error.
func openRuns(a *app.App) (*bbolt.Store, error) {
	store, err := a.OpenRuns()
	if isDBLockError(err) {
		return nil, errors.New(diagnoseDBLock(a.Paths.DB))
	}
	return store, err
}

// readRuns opens the run store read-only. found is false when the project has
// no run database yet; that is not an error for readers.
func readRuns(a *app.App) (store *bbolt.Store, found bool, err error) {
	store, err = a.ReadRuns()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case isDBLockError(err):
		return nil, false, errors.New(diagnoseDBLock(a.Paths.DB))
	case err != nil:
		return nil, false, err
	}
	return store, true, nil
}
