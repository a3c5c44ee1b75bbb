package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vfsutil/pkg/location"
)

// ValidateChildName checks that name can be used as a single path element
// inside a directory.
//
// Usage example:
//
//	if err := fileops.ValidateChildName(name); err != nil {
//	    return fmt.Errorf("invalid name: %w", err)
//	}
//	dst := dir.Child(name)
func ValidateChildName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid file name: %q", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("file name contains path separators: %q", name)
	}
	return nil
}

// ValidateWithinRoots checks that loc is one of roots or nested below one of
// them. An empty roots list allows everything.
//
// The comparison works on locations, not strings, so "/srv/data2" is not
// considered to be inside "/srv/data". Native locations and roots are
// compared after resolving symlinks on the OS filesystem, so a link inside a
// root cannot lead outside of it. For a location that does not exist yet the
// nearest existing ancestor is resolved.
func ValidateWithinRoots(loc location.Location, roots []location.Location) error {
	if loc.IsZero() {
		return fmt.Errorf("location cannot be empty")
	}
	if len(roots) == 0 {
		return nil
	}
	resolved, err := canonicalLocation(loc)
	if err != nil {
		return fmt.Errorf("location cannot be validated: %w", err)
	}
	for _, root := range roots {
		canonicalRoot, err := canonicalLocation(root)
		if err != nil {
			canonicalRoot = root // Use original if symlink resolution fails
		}
		if location.IsDescendant(resolved, canonicalRoot) {
			return nil
		}
	}
	return fmt.Errorf("location is not within any allowed root: %s", loc)
}

// canonicalLocation resolves symlinks in a native location. Non-native
// locations are returned unchanged.
func canonicalLocation(loc location.Location) (location.Location, error) {
	p, ok := loc.Path()
	if !ok {
		return loc, nil
	}
	resolved, err := resolveExisting(p)
	if err != nil {
		return location.Location{}, err
	}
	return location.NewForPath(resolved), nil
}

// resolveExisting runs filepath.EvalSymlinks on the longest existing prefix
// of p and appends the missing components unchanged. A prefix that exists
// but cannot be resolved, such as a dangling symlink, is an error.
func resolveExisting(p string) (string, error) {
	cur := filepath.Clean(p)
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if _, lerr := os.Lstat(cur); lerr == nil {
			return "", fmt.Errorf("cannot resolve %s: %w", cur, err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return filepath.Clean(p), nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}
