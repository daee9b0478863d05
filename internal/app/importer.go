package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pitabwire/util"

	"github.com/corey/osmnames/internal/adapters/bbolt"
	"github.com/corey/osmnames/internal/adapters/zstd"
	"github.com/corey/osmnames/internal/domain/collection"
	"github.com/corey/osmnames/internal/ports"
)

// ImportResult holds statistics from an ImportCatalog run.
type ImportResult struct {
	Files   int
	Presets int
}

// Lister enumerates the documents a source offers.
type Lister interface {
	ports.FileAccess
	List() ([]string, error)
}

// CatalogFiles keeps the names that look like preset documents: JSON files,
// optionally zstd-compressed.
func CatalogFiles(names []string) []string {
	var out []string
	for _, name := range names {
		if path.Ext(strings.TrimSuffix(name, zstd.Ext)) == ".json" {
			out = append(out, name)
		}
	}
	return out
}

// ImportOptions controls ImportCatalog.
type ImportOptions struct {
	// BaseFile names the base preset document. Empty means the default.
	BaseFile string

	// Compress stores plain documents zstd-compressed under name+".zst".
	Compress bool

	// Replace swaps out the whole data set, dropping documents the new
	// catalog lacks. Without it documents are added or overwritten.
	Replace bool
}

// ImportCatalog validates the catalog in src and copies its documents into one
// data set of store in a single transaction. The base file must parse,
// otherwise nothing is written and an existing set is left as it was.
// Documents that are already compressed are copied as they are; when both
// x.json and x.json.zst are present under Compress, the plain one is used,
// matching what the decompressing reader serves.
func ImportCatalog(ctx context.Context, store *bbolt.Store, set string, src Lister, opts ImportOptions) (ImportResult, error) {
	var res ImportResult

	names, err := src.List()
	if err != nil {
		return res, err
	}
	names = CatalogFiles(names)

	// Readers of the imported set go through the decompressing wrapper, so
	// validate the source the same way.
	coll, err := collection.Load(ctx, zstd.Wrap(src), collection.WithBaseFile(opts.BaseFile))
	if err != nil {
		return res, fmt.Errorf("validate catalog: %w", err)
	}
	res.Presets = coll.Len()

	docs, err := readCatalog(ctx, src, names, opts.Compress)
	if err != nil {
		return res, err
	}

	if opts.Replace {
		err = store.ReplaceSet(set, docs)
	} else {
		err = store.PutAll(set, docs)
	}
	if err != nil {
		return res, err
	}
	res.Files = len(docs)

	util.Log(ctx).
		WithField("set", set).
		WithField("files", res.Files).
		WithField("presets", res.Presets).
		WithField("replace", opts.Replace).
		Info("catalog imported")
	return res, nil
}

// readCatalog loads the named documents, compressing plain ones if asked.
func readCatalog(ctx context.Context, src ports.FileAccess, names []string, compress bool) (map[string][]byte, error) {
	plain := make(map[string]bool, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, zstd.Ext) {
			plain[name] = true
		}
	}

	docs := make(map[string][]byte, len(names))
	for _, name := range names {
		compressed := strings.HasSuffix(name, zstd.Ext)
		if compress && compressed && plain[strings.TrimSuffix(name, zstd.Ext)] {
			util.Log(ctx).WithField("file", name).Debug("compressed duplicate skipped")
			continue
		}

		data, err := readDocument(ctx, src, name)
		if err != nil {
			return nil, err
		}
		if compress && !compressed {
			data, err = zstd.Compress(data)
			if err != nil {
				return nil, fmt.Errorf("compress %s: %w", name, err)
			}
			name += zstd.Ext
		}
		docs[name] = data
	}
	return docs, nil
}

func readDocument(ctx context.Context, src ports.FileAccess, name string) ([]byte, error) {
	r, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
