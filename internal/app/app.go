// Package app wires together the adapters and domain logic: it selects the
// FileAccess backend from config, loads the preset collection and exposes the
// dictionary built on it.
package app

import (
	"context"
	"fmt"

	"github.com/pitabwire/util"

	"github.com/corey/osmnames/internal/adapters/bbolt"
	"github.com/corey/osmnames/internal/adapters/dirfs"
	"github.com/corey/osmnames/internal/adapters/zstd"
	"github.com/corey/osmnames/internal/config"
	"github.com/corey/osmnames/internal/domain/collection"
	"github.com/corey/osmnames/internal/domain/dictionary"
	"github.com/corey/osmnames/internal/domain/locale"
	"github.com/corey/osmnames/internal/ports"
	"github.com/corey/osmnames/presets"
)

// App holds the loaded catalog and the resources backing it.
type App struct {
	Config     config.Config
	Access     ports.FileAccess
	Collection *collection.Collection
	Dictionary *dictionary.Dictionary
	Locale     locale.Locale // default locale for queries

	store *bbolt.Store // nil unless Config selects the asset store
}

// New selects the backend, parses the base presets and validates the default
// locale. The returned App must be closed.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	loc, err := locale.Parse(cfg.Locale)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Locale: loc}

	switch cfg.Source() {
	case config.SourceStore:
		store, err := bbolt.OpenReadOnly(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = store
		a.Access = store.Access(cfg.DataSet)
	case config.SourceDir:
		a.Access = dirfs.Dir(cfg.DataDir)
	default:
		a.Access = dirfs.New(presets.FS, presets.Dir)
	}

	if cfg.Compressed {
		a.Access = zstd.Wrap(a.Access)
	}

	util.Log(ctx).WithField("source", string(cfg.Source())).Debug("loading presets")

	a.Collection, err = collection.Load(ctx, a.Access, collection.WithBaseFile(cfg.BaseFile))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Dictionary = dictionary.New(a.Collection)
	return a, nil
}

// ResolveLocale parses tag, falling back to the configured default when tag
// is empty.
func (a *App) ResolveLocale(tag string) (locale.Locale, error) {
	if tag == "" {
		return a.Locale, nil
	}
	return locale.Parse(tag)
}

// Close releases the asset store if one is open. Safe to call more than once.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
