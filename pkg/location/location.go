// Package location provides an immutable, URI-backed handle for filesystem and
// virtual-filesystem paths.
//
// A Location is either native (scheme "file", no host) and maps onto an OS
// path, or virtual (trash:///, recent:///, sftp://host/dir, ...) and is only
// meaningful to whatever backend serves that scheme. Locations are compared by
// canonical identity, so "file:///tmp/a/", "file:///tmp//a" and "/tmp/a" are
// the same location.
package location

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidURI is returned when a string cannot be turned into a Location.
var ErrInvalidURI = errors.New("invalid uri")

const schemeFile = "file"

// Location identifies a filesystem or virtual-filesystem path.
//
// The zero value is an empty location; use IsZero to detect it.
type Location struct {
	scheme string
	user   string // escaped userinfo, without the trailing '@'
	host   string
	path   string // decoded, cleaned, always starts with '/'
}

// NewForPath returns the native location for an OS path. Relative paths are
// resolved against the process working directory.
func NewForPath(p string) Location {
	if p == "" {
		p = string(filepath.Separator)
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return Location{
		scheme: schemeFile,
		path:   cleanPath(filepath.ToSlash(p)),
	}
}

// NewForURI parses an absolute URI such as "file:///etc/hosts",
// "trash:///" or "sftp://user@example.com/home/user".
func NewForURI(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w %q: %v", ErrInvalidURI, raw, err)
	}
	if u.Scheme == "" {
		return Location{}, fmt.Errorf("%w %q: missing scheme", ErrInvalidURI, raw)
	}

	p := u.Path
	if u.Opaque != "" {
		// "scheme:foo" without slashes
		unescaped, err := url.PathUnescape(u.Opaque)
		if err != nil {
			return Location{}, fmt.Errorf("%w %q: %v", ErrInvalidURI, raw, err)
		}
		p = unescaped
	}

	loc := Location{
		scheme: strings.ToLower(u.Scheme),
		host:   strings.ToLower(u.Host),
		path:   cleanPath(p),
	}
	if u.User != nil {
		loc.user = u.User.String()
	}
	if loc.scheme == schemeFile && loc.host == "localhost" {
		loc.host = ""
	}
	return loc, nil
}

// MustParse is like NewForURI but panics on error. It is meant for constant
// URIs only.
func MustParse(raw string) Location {
	loc, err := NewForURI(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// ParseCommandline interprets a user-supplied argument. Anything that looks
// like "scheme://..." is parsed as a URI, "~/..." is expanded against the home
// directory and everything else is treated as a path.
func ParseCommandline(arg string) (Location, error) {
	if hasURIScheme(arg) {
		return NewForURI(arg)
	}
	if arg == "~" {
		return Home(), nil
	}
	if strings.HasPrefix(arg, "~/") {
		return Home().ResolveRelative(arg[2:]), nil
	}
	return NewForPath(arg), nil
}

func hasURIScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for n, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case n > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// IsZero reports whether l is the empty location.
func (l Location) IsZero() bool {
	return l.scheme == ""
}

// Scheme returns the lowercased URI scheme.
func (l Location) Scheme() string {
	return l.scheme
}

// HasScheme reports whether l uses the given scheme (case-insensitive).
func (l Location) HasScheme(scheme string) bool {
	return strings.EqualFold(l.scheme, scheme)
}

// Host returns the host part, including any port.
func (l Location) Host() string {
	return l.host
}

// IsNative reports whether l maps onto a local OS path.
func (l Location) IsNative() bool {
	return l.scheme == schemeFile && l.host == ""
}

// Path returns the OS path for native locations.
func (l Location) Path() (string, bool) {
	if !l.IsNative() {
		return "", false
	}
	return filepath.FromSlash(l.path), true
}

// URIPath returns the decoded path component, which exists for every
// location, native or not.
func (l Location) URIPath() string {
	return l.path
}

// URI returns the escaped URI form of l.
func (l Location) URI() string {
	if l.IsZero() {
		return ""
	}
	return l.authority() + (&url.URL{Path: l.path}).EscapedPath()
}

// ParseName returns the form a user would type: the OS path for native
// locations, otherwise the URI with an unescaped path.
func (l Location) ParseName() string {
	if p, ok := l.Path(); ok {
		return p
	}
	if l.IsZero() {
		return ""
	}
	return l.authority() + l.path
}

func (l Location) authority() string {
	var b strings.Builder
	b.WriteString(l.scheme)
	b.WriteString("://")
	if l.user != "" {
		b.WriteString(l.user)
		b.WriteByte('@')
	}
	b.WriteString(l.host)
	return b.String()
}

// String returns the native path when there is one, the URI otherwise.
func (l Location) String() string {
	if p, ok := l.Path(); ok {
		return p
	}
	return l.URI()
}

// Basename returns the last path element. The root of any scheme has the
// base name "/". The zero location has none.
func (l Location) Basename() string {
	if l.IsZero() {
		return ""
	}
	if l.path == "/" {
		return "/"
	}
	return path.Base(l.path)
}

// Parent returns the containing location. The second result is false when l
// is the root of its scheme.
func (l Location) Parent() (Location, bool) {
	if l.IsZero() || l.path == "/" {
		return Location{}, false
	}
	parent := l
	parent.path = path.Dir(l.path)
	return parent, true
}

// Child returns the location of name inside l.
func (l Location) Child(name string) Location {
	child := l
	child.path = cleanPath(path.Join(l.path, filepath.ToSlash(name)))
	return child
}

// ResolveRelative resolves rel against l. An absolute rel replaces the path
// while keeping the scheme and host.
func (l Location) ResolveRelative(rel string) Location {
	rel = filepath.ToSlash(rel)
	out := l
	if strings.HasPrefix(rel, "/") {
		out.path = cleanPath(rel)
	} else {
		out.path = cleanPath(path.Join(l.path, rel))
	}
	return out
}

// RelativePath returns the path of descendant relative to l, or false when
// descendant is not strictly below l.
func (l Location) RelativePath(descendant Location) (string, bool) {
	if !sameRoot(l, descendant) || l.path == descendant.path {
		return "", false
	}
	prefix := l.path
	if prefix != "/" {
		prefix += "/"
	}
	if !strings.HasPrefix(descendant.path, prefix) {
		return "", false
	}
	return descendant.path[len(prefix):], true
}

// Equal reports whether l and other identify the same location.
func (l Location) Equal(other Location) bool {
	return sameRoot(l, other) && l.path == other.path
}

func sameRoot(a, b Location) bool {
	return a.scheme == b.scheme && a.host == b.host && a.user == b.user
}

// IsDescendant reports whether descendant is ancestor or nested anywhere
// below it. The parent chain of descendant is walked until a match is found
// or the root is passed.
func IsDescendant(descendant, ancestor Location) bool {
	if descendant.IsZero() || ancestor.IsZero() {
		return false
	}
	for cur, ok := descendant, true; ok; cur, ok = cur.Parent() {
		if cur.Equal(ancestor) {
			return true
		}
	}
	return false
}

// IsRoot reports whether l has no parent.
func IsRoot(l Location) bool {
	_, ok := l.Parent()
	return !ok
}

// FilesystemRoot walks up from l to the root of its scheme and host.
func FilesystemRoot(l Location) Location {
	root := l
	for parent, ok := l.Parent(); ok; parent, ok = parent.Parent() {
		root = parent
	}
	return root
}
