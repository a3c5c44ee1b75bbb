package fileops

import (
	"errors"
	"fmt"
	"io/fs"

	"vfsutil/pkg/location"
)

// ErrExists is reported for an existing destination. It matches fs.ErrExist
// with errors.Is.
var ErrExists error = existsErr{}

var (
	ErrNotFound     = fs.ErrNotExist
	ErrNotSupported = errors.New("operation not supported")
	ErrNoParent     = errors.New("destination has no parent")
	ErrSameFile     = errors.New("source and destination are the same file")
)

type existsErr struct{}

func (existsErr) Error() string { return "file exists" }

func (existsErr) Is(target error) bool { return target == fs.ErrExist }

// nativePath returns the OS path of loc or ErrNotSupported.
func nativePath(loc location.Location) (string, error) {
	p, ok := loc.Path()
	if !ok {
		return "", fmt.Errorf("%w for non-local location %s", ErrNotSupported, loc.URI())
	}
	return p, nil
}
