package location

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
)

// DefaultSupportedSchemes are the schemes understood without any extra
// backend configuration.
var DefaultSupportedSchemes = []string{"file", "trash", "recent", "computer", "network"}

// Home returns the user's home directory.
func Home() Location {
	return NewForPath(xdg.Home)
}

// Root returns file:///.
func Root() Location {
	return MustParse("file:///")
}

// Recent returns recent:///.
func Recent() Location {
	return MustParse("recent:///")
}

// Trash returns trash:///.
func Trash() Location {
	return MustParse("trash:///")
}

// Computer returns computer://, which is canonically computer:///.
func Computer() Location {
	return MustParse("computer://")
}

// Network returns network://, which is canonically network:///.
func Network() Location {
	return MustParse("network://")
}

// Desktop returns the XDG desktop user directory.
func Desktop() Location {
	return NewForPath(xdg.UserDirs.Desktop)
}

// Bookmarks returns the GTK 3 bookmarks file under the XDG config home.
func Bookmarks() Location {
	return NewForPath(filepath.Join(xdg.ConfigHome, "gtk-3.0", "bookmarks"))
}

func IsTrashed(l Location) bool  { return l.HasScheme("trash") }
func IsInRecent(l Location) bool { return l.HasScheme("recent") }

func IsHome(l Location) bool     { return l.Equal(Home()) }
func IsTrash(l Location) bool    { return l.URI() == "trash:///" }
func IsRecent(l Location) bool   { return l.URI() == "recent:///" }
func IsComputer(l Location) bool { return l.URI() == "computer:///" }
func IsNetwork(l Location) bool  { return l.URI() == "network:///" }

// IsInXDGDataDir reports whether l is a native location below one of the
// system data directories from XDG_DATA_DIRS.
func IsInXDGDataDir(l Location) bool {
	return isBelowAny(l, xdg.DataDirs)
}

func isBelowAny(l Location, dirs []string) bool {
	p, ok := l.Path()
	if !ok {
		return false
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsURISchemeSupported reports whether scheme is in supported, or in
// DefaultSupportedSchemes when supported is empty.
func IsURISchemeSupported(scheme string, supported []string) bool {
	if scheme == "" {
		return false
	}
	if len(supported) == 0 {
		supported = DefaultSupportedSchemes
	}
	return slices.ContainsFunc(supported, func(s string) bool {
		return strings.EqualFold(s, scheme)
	})
}
