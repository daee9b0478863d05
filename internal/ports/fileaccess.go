// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by FileAccess.Open when the named file does not exist.
// Adapters wrap it, so callers test with errors.Is.
var ErrNotFound = errors.New("file not found")

// FileAccess exposes a flat namespace of named resource files supplied by the
// host: a directory, an application-bundled asset set, a bbolt asset store.
// Names are plain file names ("presets.json", "de-AT.json"); no directory
// traversal semantics are implied.
//
// Implementations must be safe for concurrent use. Any timeout policy belongs
// here, not in the domain: the context is passed through for that purpose.
type FileAccess interface {
	// Exists reports whether name can be opened. An error means the backing
	// store could not be consulted at all, not that the file is missing.
	Exists(ctx context.Context, name string) (bool, error)

	// Open returns a readable stream for name. The caller closes it.
	// Returns an error wrapping ErrNotFound if name is absent.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
