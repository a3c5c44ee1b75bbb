package volume

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"vfsutil/pkg/location"
)

// ErrNotSupported is returned when a query cannot be answered for a location
// or on the current platform.
var ErrNotSupported = errors.New("operation not supported")

// Space describes the capacity of a filesystem in bytes. Free counts only
// blocks available to unprivileged users.
type Space struct {
	Free uint64
	Size uint64
}

// Used returns the number of bytes not available to unprivileged users.
func (s Space) Used() uint64 {
	if s.Free > s.Size {
		return 0
	}
	return s.Size - s.Free
}

// FreeSpace queries the filesystem holding loc.
func FreeSpace(loc location.Location) (Space, error) {
	p, ok := loc.Path()
	if !ok {
		return Space{}, fmt.Errorf("%w: %s", ErrNotSupported, loc.URI())
	}
	return statfs(p)
}

// FreeSpaceString formats the used and free space of the filesystem holding
// loc, e.g. "12 GB used (40%)  |  18 GB free (60%)". Sizes use IEC units
// when binary is set. The result is empty when the query fails or the
// filesystem reports no size.
func FreeSpaceString(loc location.Location, binary bool) string {
	space, err := FreeSpace(loc)
	if err != nil {
		return ""
	}
	return formatSpace(space, binary)
}

func formatSpace(s Space, binary bool) string {
	if s.Size == 0 {
		return ""
	}
	format := humanize.Bytes
	if binary {
		format = humanize.IBytes
	}
	used := s.Used()
	return fmt.Sprintf("%s used (%.0f%%)  |  %s free (%.0f%%)",
		format(used), float64(used)*100/float64(s.Size),
		format(s.Free), float64(s.Free)*100/float64(s.Size))
}
