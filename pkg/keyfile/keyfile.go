// Package keyfile reads and writes desktop-entry style key files
// ("[Group]" headers followed by "Key=Value" lines) stored at a location.
package keyfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"

	"vfsutil/pkg/location"
)

// ErrNotSupported is returned for locations that have no local path.
var ErrNotSupported = errors.New("key files are only supported on local locations")

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		// ';' separates list values (MimeType=a;b;) rather than starting a comment
		IgnoreInlineComment:      true,
		// a trailing backslash is part of the value, e.g. Path=C:\\
		IgnoreContinuation:       true,
		KeyValueDelimiters:       "=",
		KeyValueDelimiterOnWrite: "=",
		PreserveSurroundedQuote:  true,
	}
}

// New returns an empty key file configured for desktop-entry syntax.
func New() *ini.File {
	return ini.Empty(loadOptions())
}

// Parse parses key file data. Empty data yields an empty key file. Comments
// and translated keys such as "Name[de]" are kept.
func Parse(data []byte) (*ini.File, error) {
	if len(data) == 0 {
		return New(), nil
	}
	f, err := ini.LoadSources(loadOptions(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}
	return f, nil
}

// Query loads and parses the whole key file at loc.
func Query(ctx context.Context, fsys afero.Fs, loc location.Location) (*ini.File, error) {
	p, ok := loc.Path()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSupported, loc.URI())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return Parse(data)
}

// Marshal serialises kf as plain "Key=Value" lines. Values are written
// verbatim: ini quoting ("""...""" or `...`) has no meaning in desktop
// entries. Comments are kept and an empty default section is skipped.
func Marshal(kf *ini.File) []byte {
	var buf bytes.Buffer
	for _, sec := range kf.Sections() {
		keys := sec.Keys()
		isDefault := sec.Name() == ini.DefaultSection
		if isDefault && len(keys) == 0 && sec.Comment == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		writeComment(&buf, sec.Comment)
		if !isDefault {
			buf.WriteString("[" + sec.Name() + "]\n")
		}
		for _, key := range keys {
			writeComment(&buf, key.Comment)
			buf.WriteString(key.Name() + "=" + escapeLineBreaks(key.Value()) + "\n")
		}
	}
	return buf.Bytes()
}

func writeComment(buf *bytes.Buffer, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] != '#' && line[0] != ';' {
			line = "# " + line
		}
		buf.WriteString(line + "\n")
	}
}

// escapeLineBreaks keeps a value on one line using the \n escape of the
// desktop entry format.
func escapeLineBreaks(value string) string {
	return strings.NewReplacer("\r", "\\r", "\n", "\\n").Replace(value)
}

// Write replaces the contents of the file at loc with kf. The new contents
// are written to a temporary sibling first and renamed into place, so
// readers never see a truncated file. No backup is kept.
func Write(ctx context.Context, fsys afero.Fs, loc location.Location, kf *ini.File) error {
	p, ok := loc.Path()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSupported, loc.URI())
	}

	data := Marshal(kf)
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := fs.FileMode(0o644)
	if info, err := fsys.Stat(p); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(p), "."+filepath.Base(p)+"-")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	var written bool
	defer func() {
		if !written {
			fsys.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync key file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set key file permissions: %w", err)
	}
	if err := fsys.Rename(tmpPath, p); err != nil {
		return fmt.Errorf("failed to replace key file: %w", err)
	}

	written = true
	return nil
}
