package fileops

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"vfsutil/pkg/location"
)

// IsSymlink checks if a given location is a symbolic link without following
// it.
func (m *Manager) IsSymlink(loc location.Location) (bool, error) {
	p, err := nativePath(loc)
	if err != nil {
		return false, err
	}
	info, err := m.lstat(p)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return info.Mode()&fs.ModeSymlink != 0, nil
}

// SymlinkTarget returns the location a symlink points to. An absolute link
// target is used as is; a relative one is resolved against the directory
// containing the link. Only the immediate target is returned, so the result
// may itself be a symlink or not exist.
//
// Failures are logged as warnings, since a dangling or unreadable link is
// something the user usually wants to hear about.
func (m *Manager) SymlinkTarget(link location.Location) (location.Location, error) {
	target, err := m.readlink(link)
	if err != nil {
		m.logger.Warn("Symlink target loading failed", "path", link.String(), "error", err)
		return location.Location{}, err
	}

	parent, ok := link.Parent()
	if !ok {
		return location.Location{}, fmt.Errorf("%w: %s", ErrNoParent, link)
	}
	return parent.ResolveRelative(target), nil
}

func (m *Manager) readlink(link location.Location) (string, error) {
	p, err := nativePath(link)
	if err != nil {
		return "", err
	}
	reader, ok := m.fs.(afero.LinkReader)
	if !ok {
		return "", fmt.Errorf("%w: filesystem cannot read symlinks", ErrNotSupported)
	}
	target, err := reader.ReadlinkIfPossible(p)
	if err != nil {
		return "", fmt.Errorf("failed to read symlink: %w", err)
	}
	return target, nil
}

// ResolvedPath returns the absolute, canonical path of loc with every
// symlink resolved. All path components must exist. afero has no symlink
// evaluation, so this only works on a Manager backed by the OS filesystem
// and returns ErrNotSupported otherwise.
func (m *Manager) ResolvedPath(loc location.Location) (string, error) {
	p, err := nativePath(loc)
	if err != nil {
		return "", err
	}
	if _, ok := m.fs.(*afero.OsFs); !ok {
		return "", fmt.Errorf("%w: resolving symlinks needs the OS filesystem", ErrNotSupported)
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		m.logger.Warn("Failed to resolve path", "path", p, "error", err)
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	return abs, nil
}

// CreateSymlink creates link pointing at the path computed by
// location.LinkPathForSymlink.
func (m *Manager) CreateSymlink(target, link location.Location) error {
	linkPath, err := nativePath(link)
	if err != nil {
		return err
	}
	linker, ok := m.fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("%w: filesystem cannot create symlinks", ErrNotSupported)
	}
	if err := linker.SymlinkIfPossible(location.LinkPathForSymlink(target, link), linkPath); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}
