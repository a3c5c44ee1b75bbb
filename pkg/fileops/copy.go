package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"

	"vfsutil/pkg/location"
)

// CopyFlags modifies how Copy treats the destination and symlinks.
type CopyFlags uint

const (
	// CopyOverwrite replaces an existing destination instead of failing.
	CopyOverwrite CopyFlags = 1 << iota
	// CopyNoFollowSymlinks copies a symlink source as a symlink.
	CopyNoFollowSymlinks
)

// ProgressFunc receives the number of bytes written so far and the total
// size of the file being copied.
type ProgressFunc func(current, total int64)

// CopyOptions configures Manager.Copy.
type CopyOptions struct {
	Flags CopyFlags
	// UsePartial stages regular files under PartialName before renaming
	// them into place.
	UsePartial bool
	Progress   ProgressFunc
}

const (
	partialSuffix  = ".partial~"
	maxPartialBase = 100
	unnamedFile    = "UNNAMED"
)

// PartialName returns the staging name used for base while a partial-safe
// copy is in flight. base is capped at 100 bytes, never splitting a UTF-8
// sequence.
func PartialName(base string) string {
	if base == "" || base == "/" {
		base = unnamedFile
	}
	if len(base) > maxPartialBase {
		cut := maxPartialBase
		for cut > 0 && !utf8.RuneStart(base[cut]) {
			cut--
		}
		base = base[:cut]
	}
	return base + partialSuffix
}

// Copy copies src to dst.
//
// With opts.UsePartial set and a regular-file source, the data is written to
// a sibling partial file which is renamed to dst only after the copy
// succeeded; on any failure the partial file is deleted and dst is never
// visible in a half-written state. An existing dst is removed first when
// CopyOverwrite is set, otherwise Copy fails with ErrExists and leaves dst
// untouched. Overwriting the source with itself fails with ErrSameFile.
//
// Non-regular sources, and every source when UsePartial is unset, are copied
// directly.
func (m *Manager) Copy(ctx context.Context, src, dst location.Location, opts CopyOptions) error {
	srcPath, err := nativePath(src)
	if err != nil {
		return err
	}
	dstPath, err := nativePath(dst)
	if err != nil {
		return err
	}
	if location.IsRoot(dst) {
		return fmt.Errorf("%w: %s", ErrNoParent, dstPath)
	}
	if opts.Flags&CopyOverwrite != 0 && m.sameFile(srcPath, dstPath) {
		return fmt.Errorf("%w: %s", ErrSameFile, dstPath)
	}
	defer m.logger.LogPerformance("copy", time.Now())

	usePartial := false
	if opts.UsePartial {
		info, err := m.statSource(srcPath, opts.Flags)
		usePartial = err == nil && info.Mode().IsRegular()
	}

	if !usePartial {
		err := m.copyDirect(ctx, srcPath, dstPath, opts)
		m.logger.LogFileOperation("copy", srcPath, dstPath, err)
		return err
	}

	err = m.copyPartial(ctx, srcPath, dstPath, dst.Basename(), opts)
	m.logger.LogFileOperation("copy-partial", srcPath, dstPath, err)
	return err
}

func (m *Manager) copyPartial(ctx context.Context, srcPath, dstPath, base string, opts CopyOptions) error {
	if m.exists(dstPath) {
		if opts.Flags&CopyOverwrite == 0 {
			return existsError(dstPath)
		}
		if err := m.fs.Remove(dstPath); err != nil {
			return fmt.Errorf("failed to remove existing destination: %w", err)
		}
	}

	partialPath := filepath.Join(filepath.Dir(dstPath), PartialName(base))

	// Leftover from an earlier interrupted copy
	if m.exists(partialPath) {
		if err := m.fs.Remove(partialPath); err != nil {
			m.logger.Debug("Failed to remove stale partial file", "path", partialPath, "error", err)
		}
	}

	err := m.copyFile(ctx, srcPath, partialPath, opts.Flags|CopyOverwrite, opts.Progress)
	if err == nil {
		if renameErr := m.fs.Rename(partialPath, dstPath); renameErr != nil {
			err = fmt.Errorf("failed to rename partial file: %w", renameErr)
		}
	}

	if err != nil {
		// The partial file may already be gone; the copy error is what matters.
		if rmErr := m.fs.Remove(partialPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			m.logger.Debug("Failed to clean up partial file", "path", partialPath, "error", rmErr)
		}
		return err
	}
	return nil
}

func (m *Manager) copyDirect(ctx context.Context, srcPath, dstPath string, opts CopyOptions) error {
	info, err := m.statSource(srcPath, opts.Flags)
	if err != nil {
		return fmt.Errorf("failed to query source: %w", err)
	}

	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		return m.copySymlink(srcPath, dstPath, opts.Flags)
	case mode.IsDir():
		return m.copyDirectory(dstPath, mode, opts.Flags)
	case mode.IsRegular():
		return m.copyFile(ctx, srcPath, dstPath, opts.Flags, opts.Progress)
	default:
		return fmt.Errorf("%w: cannot copy special file %s", ErrNotSupported, srcPath)
	}
}

// copyDirectory creates dstPath only; children are the caller's business.
func (m *Manager) copyDirectory(dstPath string, mode fs.FileMode, flags CopyFlags) error {
	if info, err := m.lstat(dstPath); err == nil {
		if info.IsDir() || flags&CopyOverwrite == 0 {
			return existsError(dstPath)
		}
		if err := m.fs.Remove(dstPath); err != nil {
			return fmt.Errorf("failed to remove existing destination: %w", err)
		}
	}
	if err := m.fs.Mkdir(dstPath, mode.Perm()); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

func (m *Manager) copySymlink(srcPath, dstPath string, flags CopyFlags) error {
	reader, ok := m.fs.(afero.LinkReader)
	if !ok {
		return fmt.Errorf("%w: filesystem cannot read symlinks", ErrNotSupported)
	}
	linker, ok := m.fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("%w: filesystem cannot create symlinks", ErrNotSupported)
	}

	target, err := reader.ReadlinkIfPossible(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read symlink: %w", err)
	}
	if m.exists(dstPath) {
		if flags&CopyOverwrite == 0 {
			return existsError(dstPath)
		}
		if err := m.fs.Remove(dstPath); err != nil {
			return fmt.Errorf("failed to remove existing destination: %w", err)
		}
	}
	if err := linker.SymlinkIfPossible(target, dstPath); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}

// copyFile streams srcPath into dstPath, checking ctx between chunks.
func (m *Manager) copyFile(ctx context.Context, srcPath, dstPath string, flags CopyFlags, progress ProgressFunc) error {
	in, err := m.fs.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to query source: %w", err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if flags&CopyOverwrite != 0 {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	out, err := m.fs.OpenFile(dstPath, flag, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return existsError(dstPath)
		}
		return fmt.Errorf("error opening file %q: %w", dstPath, err)
	}

	if err := m.stream(ctx, in, out, info.Size(), progress); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}

func (m *Manager) stream(ctx context.Context, in io.Reader, out io.Writer, total int64, progress ProgressFunc) error {
	buf := make([]byte, m.bufferSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write file contents: %w", err)
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read file contents: %w", readErr)
		}
	}
}

func (m *Manager) statSource(path string, flags CopyFlags) (os.FileInfo, error) {
	if flags&CopyNoFollowSymlinks != 0 {
		return m.lstat(path)
	}
	return m.fs.Stat(path)
}

// sameFile reports whether both paths name the same existing file once
// symlinks are followed.
func (m *Manager) sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	infoA, err := m.fs.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := m.fs.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

func (m *Manager) lstat(path string) (os.FileInfo, error) {
	if l, ok := m.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return m.fs.Stat(path)
}

// existsError mirrors the error a direct copy reports for an existing
// destination.
func existsError(path string) error {
	return fmt.Errorf("error opening file %q: %w", path, ErrExists)
}
