// Package volume answers questions about the storage behind a location:
// which mount encloses it, whether that mount is a local device, what kind
// of device it is and how much space is left on it.
package volume

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/moby/sys/mountinfo"
	"github.com/spf13/afero"

	"vfsutil/internal/logging"
	"vfsutil/pkg/location"
)

// Mount is a single entry of the mount table.
type Mount struct {
	Root    string // mount point
	Device  string // mount source, e.g. /dev/sdb1 or host:/export
	FSType  string
	Options string // comma separated per-mount options
}

// Lister returns the current mount table.
type Lister func() ([]Mount, error)

var networkFSTypes = []string{
	"nfs", "nfs4", "cifs", "smb3", "smbfs", "sshfs", "fuse.sshfs",
	"afs", "ncpfs", "9p", "davfs", "fuse.rclone", "fuse.gvfsd-fuse",
}

var removableRoots = []string{"/media", "/run/media"}

// SystemMounts reads the mount table of the running process.
func SystemMounts() ([]Mount, error) {
	infos, err := mountinfo.GetMounts(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read mount table: %w", err)
	}
	mounts := make([]Mount, 0, len(infos))
	for _, info := range infos {
		mounts = append(mounts, Mount{
			Root:    info.Mountpoint,
			Device:  info.Source,
			FSType:  info.FSType,
			Options: info.Options,
		})
	}
	return mounts, nil
}

// IsNetwork reports whether the mount is backed by a network filesystem.
func (m Mount) IsNetwork() bool {
	return slices.Contains(networkFSTypes, m.FSType)
}

func (m Mount) hasOption(name string) bool {
	return slices.Contains(strings.Split(m.Options, ","), name)
}

func (m Mount) isFuse() bool {
	return m.FSType == "fuse" || strings.HasPrefix(m.FSType, "fuse.")
}

// IsUserVisible reports whether the mount is one a file manager would show:
// removable media, anything under /mnt, network shares, FUSE mounts in the
// user's home and entries explicitly tagged with x-gvfs-show.
func (m Mount) IsUserVisible() bool {
	if m.Root == "/" {
		return false
	}
	if m.hasOption("x-gvfs-show") {
		return true
	}
	if m.hasOption("x-gvfs-hide") {
		return false
	}
	if underAny(m.Root, removableRoots...) || underAny(m.Root, "/mnt") {
		return true
	}
	if m.IsNetwork() {
		return true
	}
	return m.isFuse() && underAny(m.Root, xdg.Home)
}

// CanUnmount reports whether the user is expected to detach the mount:
// removable media, network shares and FUSE mounts can, fixed mounts under
// /mnt cannot.
func (m Mount) CanUnmount() bool {
	if !m.IsUserVisible() {
		return false
	}
	if m.IsNetwork() || m.isFuse() {
		return true
	}
	return underAny(m.Root, removableRoots...) || m.hasOption("x-gvfs-show")
}

// IconName guesses the freedesktop icon name for the mount from its device,
// mount point and filesystem type.
func (m Mount) IconName() string {
	dev := strings.ToLower(m.Device)
	root := strings.ToLower(m.Root)

	switch {
	case m.IsNetwork():
		return "folder-remote"
	case m.FSType == "iso9660" || m.FSType == "udf" ||
		strings.Contains(dev, "cdrom") || strings.Contains(dev, "/sr"):
		return "media-optical"
	case strings.Contains(dev, "floppy") || strings.Contains(root, "floppy"):
		return "media-floppy"
	case strings.Contains(root, "ipod"):
		return "multimedia-player"
	case strings.Contains(root, "camera"):
		return "camera-photo"
	case strings.Contains(root, "memstick") || strings.Contains(root, "memory_stick") ||
		strings.Contains(dev, "mmcblk"):
		return "media-flash"
	case underAny(m.Root, removableRoots...):
		return "drive-removable-media"
	default:
		return "drive-harddisk"
	}
}

// underAny reports whether path is one of roots or below one of them.
func underAny(path string, roots ...string) bool {
	for _, root := range roots {
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

// Table resolves locations against a mount table.
type Table struct {
	fs     afero.Fs
	list   Lister
	logger *logging.AppLogger
}

// NewTable creates a Table. A nil fsys uses the OS filesystem, a nil list
// reads the system mount table and a nil logger uses the default logger.
func NewTable(fsys afero.Fs, list Lister, logger *logging.AppLogger) *Table {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if list == nil {
		list = SystemMounts
	}
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Table{fs: fsys, list: list, logger: logger}
}

// EnclosingMount returns the deepest user-visible mount containing loc.
// The boolean is false when no such mount exists, which is the case for
// files on the root filesystem and other system mounts.
func (t *Table) EnclosingMount(loc location.Location) (Mount, bool, error) {
	if !loc.IsNative() {
		return Mount{}, false, nil
	}
	mounts, err := t.list()
	if err != nil {
		return Mount{}, false, err
	}

	var best Mount
	found := false
	for _, m := range mounts {
		if !m.IsUserVisible() {
			continue
		}
		if !location.IsDescendant(loc, location.NewForPath(m.Root)) {
			continue
		}
		if !found || len(m.Root) > len(best.Root) {
			best, found = m, true
		}
	}
	return best, found, nil
}

// IsOnLocalDevice reports whether loc lives on a local device. Only "file"
// locations qualify. The location itself may not exist yet, in which case
// its nearest existing ancestor is used. A location is local when no
// user-visible mount encloses it or when that mount cannot be unmounted.
func (t *Table) IsOnLocalDevice(loc location.Location) bool {
	if loc.Scheme() != "file" {
		return false
	}

	var target location.Location
	for cur, ok := loc, true; ok; cur, ok = cur.Parent() {
		p, native := cur.Path()
		if !native {
			return false
		}
		if _, err := t.fs.Stat(p); err == nil {
			target = cur
			break
		}
	}
	if target.IsZero() {
		return false
	}

	mount, found, err := t.EnclosingMount(target)
	if err != nil {
		t.logger.Debug("Mount table unavailable, assuming local device", "location", target.String(), "error", err)
		return true
	}
	if !found {
		return true
	}
	return !mount.CanUnmount()
}

// GuessDeviceType returns a human readable device type for the mount
// enclosing loc, or "" when there is none or its icon is not recognised.
func (t *Table) GuessDeviceType(loc location.Location) (string, error) {
	mount, found, err := t.EnclosingMount(loc)
	if err != nil || !found {
		return "", err
	}
	return GuessDeviceType(mount.IconName()), nil
}
