// Package fileops implements the file-manager side of copying, comparing and
// inspecting files addressed by location.Location.
//
// All I/O goes through an afero.Fs so the same code runs against the OS
// filesystem in production and an in-memory filesystem in tests. Only native
// locations can be operated on; anything else fails with ErrNotSupported.
//
// # Partial-safe copy
//
// Manager.Copy with UsePartial set never exposes a half-written file under
// the destination name. Regular files are first written to a sibling
// "<name>.partial~" and renamed into place once complete:
//
//	m := fileops.NewManager(afero.NewOsFs(), logger)
//	err := m.Copy(ctx, src, dst, fileops.CopyOptions{
//	    Flags:      fileops.CopyOverwrite,
//	    UsePartial: true,
//	})
//
// On failure or cancellation the partial file is removed and the original
// error is returned. Directories, symlinks and copies with UsePartial unset
// are copied directly.
//
// # Errors
//
// ErrExists reads "file exists" and matches fs.ErrExist; ErrNotFound is an
// alias of fs.ErrNotExist. errors.Is works the same on errors produced here
// and on raw OS errors. Overwriting a file with itself fails with
// ErrSameFile. Cancellation surfaces as context.Canceled.
package fileops
