// Package dirfs implements ports.FileAccess over an fs.FS. The same adapter
// serves a directory on disk (os.DirFS), assets compiled into the binary
// (embed.FS) and in-memory fixtures (fstest.MapFS) in tests.
package dirfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/corey/osmnames/internal/ports"
)

// Access resolves flat file names inside dir of fsys.
type Access struct {
	fsys fs.FS
	dir  string
}

var _ ports.FileAccess = (*Access)(nil)

// New serves files from dir inside fsys. Use "." or "" for the root.
func New(fsys fs.FS, dir string) *Access {
	if dir == "" {
		dir = "."
	}
	return &Access{fsys: fsys, dir: dir}
}

// Dir serves files from a directory on the local filesystem.
func Dir(root string) *Access {
	return New(os.DirFS(root), ".")
}

// resolve joins name onto the base directory. Names are flat: anything with a
// separator or a parent reference is rejected.
func (a *Access) resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return path.Join(a.dir, name), nil
}

// Exists reports whether name is a regular file.
func (a *Access) Exists(_ context.Context, name string) (bool, error) {
	p, err := a.resolve(name)
	if err != nil {
		return false, err
	}
	info, err := fs.Stat(a.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

// Open opens name for reading.
func (a *Access) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := a.fsys.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", name, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// List returns the names of the regular files directly inside the base
// directory, in lexical order.
func (a *Access) List() ([]string, error) {
	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", a.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
