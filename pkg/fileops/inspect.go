package fileops

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"vfsutil/pkg/location"
)

// Checksum returns the hex SHA-256 digest of the file at loc.
func (m *Manager) Checksum(ctx context.Context, loc location.Location) (string, error) {
	p, err := nativePath(loc)
	if err != nil {
		return "", err
	}
	f, err := m.fs.Open(p)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	defer m.logger.LogPerformance("checksum", time.Now())

	h := sha256.New()
	if err := m.stream(ctx, f, h, 0, nil); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CompareChecksum reports whether a and b have identical contents by
// comparing their checksums. A failure to read either file is an error, not
// a mismatch.
func (m *Manager) CompareChecksum(ctx context.Context, a, b location.Location) (bool, error) {
	sumA, err := m.Checksum(ctx, a)
	if err != nil {
		return false, fmt.Errorf("checksum of %s: %w", a, err)
	}
	sumB, err := m.Checksum(ctx, b)
	if err != nil {
		return false, fmt.Errorf("checksum of %s: %w", b, err)
	}
	return sumA == sumB, nil
}

// SetExecutableFlags adds execute permission for user, group and others.
// Nothing is written when all three bits are already set.
func (m *Manager) SetExecutableFlags(loc location.Location) error {
	p, err := nativePath(loc)
	if err != nil {
		return err
	}
	info, err := m.lstat(p)
	if err != nil {
		return fmt.Errorf("failed to query file mode: %w", err)
	}

	oldMode := info.Mode()
	newMode := oldMode | 0o111
	if newMode == oldMode {
		return nil
	}
	if err := m.fs.Chmod(p, newMode); err != nil {
		return fmt.Errorf("failed to set executable flags: %w", err)
	}
	return nil
}

// IsDesktopFile reports whether loc is a regular file with a .desktop
// extension. Symlinks are not followed.
func (m *Manager) IsDesktopFile(loc location.Location) bool {
	if !strings.HasSuffix(loc.Basename(), ".desktop") {
		return false
	}
	p, err := nativePath(loc)
	if err != nil {
		return false
	}
	info, err := m.lstat(p)
	return err == nil && info.Mode().IsRegular()
}

// ContentType sniffs the MIME type of the file at loc.
func (m *Manager) ContentType(loc location.Location) (string, error) {
	p, err := nativePath(loc)
	if err != nil {
		return "", err
	}
	f, err := m.fs.Open(p)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(io.LimitReader(f, 3072))
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	return mtype.String(), nil
}
