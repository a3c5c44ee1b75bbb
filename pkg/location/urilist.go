package location

import (
	"strings"
)

// ListFromString splits a text/uri-list (RFC 2483) into locations. Comment
// lines, blank lines and surrounding whitespace are discarded, as are entries
// that do not parse as absolute URIs. It returns nil when no URI is found.
func ListFromString(s string) []Location {
	var list []Location
	for _, line := range strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		loc, err := NewForURI(line)
		if err != nil {
			continue
		}
		list = append(list, loc)
	}
	return list
}

// ListToStrings returns one URI per location. Native locations are always
// written as file:// URIs built from their path.
func ListToStrings(list []Location) []string {
	uris := make([]string, 0, len(list))
	for _, l := range list {
		if p, ok := l.Path(); ok {
			uris = append(uris, NewForPath(p).URI())
			continue
		}
		uris = append(uris, l.URI())
	}
	return uris
}

// ListToString joins list into a text/uri-list document.
func ListToString(list []Location) string {
	var b strings.Builder
	for _, uri := range ListToStrings(list) {
		b.WriteString(uri)
		b.WriteString("\r\n")
	}
	return b.String()
}

// ListParents returns the distinct parent folders of list in first-seen
// order. Roots contribute nothing.
func ListParents(list []Location) []Location {
	var parents []Location
	for _, l := range list {
		parent, ok := l.Parent()
		if !ok {
			continue
		}
		seen := false
		for _, p := range parents {
			if p.Equal(parent) {
				seen = true
				break
			}
		}
		if !seen {
			parents = append(parents, parent)
		}
	}
	return parents
}

// LinkPathForSymlink returns the path a symlink at link must contain to
// point at target. When either side is native that is simply the target's
// path; for two remote locations it is the target's absolute path within its
// own filesystem root.
func LinkPathForSymlink(target, link Location) string {
	if target.IsNative() || link.IsNative() {
		p, _ := target.Path()
		return p
	}
	rel, _ := FilesystemRoot(target).RelativePath(target)
	return "/" + rel
}
