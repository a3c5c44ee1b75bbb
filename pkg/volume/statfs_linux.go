package volume

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func statfs(path string) (Space, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Space{}, fmt.Errorf("failed to query filesystem of %s: %w", path, err)
	}
	block := uint64(st.Frsize)
	if block == 0 {
		block = uint64(st.Bsize)
	}
	return Space{
		Free: st.Bavail * block,
		Size: st.Blocks * block,
	}, nil
}

// MetadataSupported reports whether extended attributes can be listed on
// the filesystem holding path.
func MetadataSupported(path string) bool {
	_, err := unix.Listxattr(path, nil)
	return err == nil
}
