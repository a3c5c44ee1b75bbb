package location

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DisplayName returns a human readable name for l: "Trash" for the trash
// root, "File System" for any other root, the base name when it is valid
// UTF-8 and a percent-escaped base name otherwise. It returns "?" when l has
// no base name at all.
func DisplayName(l Location) string {
	base := l.Basename()
	switch {
	case base == "":
		return "?"
	case IsTrash(l):
		return "Trash"
	case base == "/":
		return "File System"
	case utf8.ValidString(base):
		return base
	default:
		return escapeInvalidUTF8(base)
	}
}

// RemoteDisplayName formats a remote mount point as "<path> on <host>",
// dropping login names and passwords from the host when the host looks like
// a domain name. Native locations, and anything that cannot be parsed, fall
// back to DisplayName, so the result is never empty.
func RemoteDisplayName(mount Location) string {
	if !mount.IsNative() && !mount.IsZero() {
		if name := remoteDisplayName(mount.Scheme(), mount.URI()); name != "" {
			return name
		}
	}
	return DisplayName(mount)
}

func remoteDisplayName(scheme, uri string) string {
	if scheme == "" || !strings.HasPrefix(uri, scheme) {
		return ""
	}

	s := strings.TrimLeft(uri[len(scheme):], ":/")
	start := 0
	pathIdx := strings.IndexByte(s, '/')
	firstDot := strings.IndexByte(s, '.')

	if firstDot >= 0 {
		// "user:password@host.example.com" -> "host.example.com"
		for _, c := range []byte{':', '@'} {
			i := strings.IndexByte(s[start:], c)
			if i < 0 {
				continue
			}
			i += start
			if (pathIdx < 0 || i < pathIdx) && i < firstDot {
				start = i + 1
			}
		}
	}

	var host, p string
	if pathIdx >= 0 {
		host, p = s[start:pathIdx], s[pathIdx:]
	} else {
		host, p = s[start:], "/"
	}

	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return fmt.Sprintf("%s on %s", p, host)
}

// escapeInvalidUTF8 percent-escapes everything except unreserved characters,
// the sub-delimiters allowed in a path and valid multi-byte UTF-8 sequences.
func escapeInvalidUTF8(s string) string {
	const allowed = "!$&'()*+,;=:@/-._~"
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			fmt.Fprintf(&b, "%%%02X", s[i])
		case size > 1:
			b.WriteString(s[i : i+size])
		case isAlnum(byte(r)) || strings.IndexByte(allowed, byte(r)) >= 0:
			b.WriteByte(byte(r))
		default:
			fmt.Fprintf(&b, "%%%02X", s[i])
		}
		i += size
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
