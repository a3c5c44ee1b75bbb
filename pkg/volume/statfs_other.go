//go:build !linux

package volume

func statfs(string) (Space, error) {
	return Space{}, ErrNotSupported
}

// MetadataSupported reports whether extended attributes can be listed on
// the filesystem holding path. Always false on this platform.
func MetadataSupported(string) bool {
	return false
}
