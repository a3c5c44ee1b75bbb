package fileops

import (
	"github.com/spf13/afero"

	"vfsutil/internal/logging"
)

// Manager performs file operations on top of an afero filesystem.
type Manager struct {
	fs         afero.Fs
	logger     *logging.AppLogger
	bufferSize int
}

const defaultBufferSize = 64 * 1024

// NewManager returns a Manager backed by fsys. A nil fsys means the OS
// filesystem and a nil logger means the process default logger.
func NewManager(fsys afero.Fs, logger *logging.AppLogger) *Manager {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Manager{
		fs:         fsys,
		logger:     logger,
		bufferSize: defaultBufferSize,
	}
}

// Fs returns the underlying filesystem.
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

func (m *Manager) exists(path string) bool {
	_, err := m.lstat(path)
	return err == nil
}
