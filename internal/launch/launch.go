// Package launch spawns helper programs for a set of locations.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"vfsutil/internal/logging"
	"vfsutil/pkg/location"
)

// ErrNoCommand is returned when argv is empty.
var ErrNoCommand = errors.New("no command given")

// Command prepares argv for execution with files appended as arguments.
// Native files are passed as paths, everything else as URIs. The working
// directory is set on the command itself; the calling process never changes
// its own directory. A zero workDir inherits the caller's directory.
func Command(ctx context.Context, argv []string, workDir location.Location, files []location.Location) (*exec.Cmd, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrNoCommand
	}

	args := append([]string{}, argv[1:]...)
	for _, f := range files {
		if p, ok := f.Path(); ok {
			args = append(args, p)
		} else {
			args = append(args, f.URI())
		}
	}

	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Env = os.Environ()

	if !workDir.IsZero() {
		dir, ok := workDir.Path()
		if !ok {
			return nil, fmt.Errorf("working directory must be a local path: %s", workDir.URI())
		}
		cmd.Dir = dir
	}
	return cmd, nil
}

// Start spawns argv for files without waiting for it to exit. The caller
// owns the returned command and should Wait on it.
func Start(ctx context.Context, argv []string, workDir location.Location, files []location.Location) (*exec.Cmd, error) {
	cmd, err := Command(ctx, argv, workDir, files)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	logging.Debug("Started helper", "command", argv[0], "pid", cmd.Process.Pid, "dir", cmd.Dir, "files", len(files))
	return cmd, nil
}
