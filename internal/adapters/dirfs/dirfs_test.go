package dirfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/osmnames/internal/ports"
)

func TestAccess_ExistsAndOpen(t *testing.T) {
	fsys := fstest.MapFS{
		"assets/presets.json": {Data: []byte("{}")},
		"assets/de.json":      {Data: []byte(`{"x": {}}`)},
		"assets/sub/en.json":  {Data: []byte("{}")},
	}
	a := New(fsys, "assets")
	ctx := context.Background()

	ok, err := a.Exists(ctx, "de.json")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Exists(ctx, "fr.json")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.Exists(ctx, "sub")
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")

	r, err := a.Open(ctx, "de.json")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, `{"x": {}}`, string(data))

	_, err = a.Open(ctx, "fr.json")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAccess_RejectsPaths(t *testing.T) {
	a := New(fstest.MapFS{"presets.json": {Data: []byte("{}")}}, "")
	ctx := context.Background()
	for _, name := range []string{"", ".", "..", "../presets.json", "sub/en.json", `a\b`} {
		_, err := a.Exists(ctx, name)
		assert.Error(t, err, name)
		_, err = a.Open(ctx, name)
		assert.Error(t, err, name)
	}
}

func TestAccess_List(t *testing.T) {
	fsys := fstest.MapFS{
		"b.json":     {Data: []byte("{}")},
		"a.json":     {Data: []byte("{}")},
		"sub/c.json": {Data: []byte("{}")},
	}
	names, err := New(fsys, ".").List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "presets.json"), []byte("{}"), 0o644))

	ok, err := Dir(dir).Exists(context.Background(), "presets.json")
	require.NoError(t, err)
	assert.True(t, ok)
}
