package organizer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"photosort/internal/faults"
	"photosort/internal/logging"
)

// LockPath returns the run lock location for a destination root.
func LockPath(destination string) string {
	return filepath.Join(destination, StateDirName, "run.lock")
}

// acquireLock prevents two runs from writing into the same destination.
func (o *Organizer) acquireLock() (func(), error) {
	path := LockPath(o.opts.Destination)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "organizer", "lock", "create state directory", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "organizer", "lock", "acquire run lock", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrConfiguration, "organizer", "lock",
			fmt.Sprintf("another run is already organizing into %s", o.opts.Destination), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release run lock", logging.String("path", path), logging.Error(err))
		}
	}, nil
}
