// Package collection resolves the preset catalog for a requested locale.
//
// The base presets are parsed once when the Collection is loaded. Each distinct
// locale requested afterwards gets its own merged view: a copy of the base set
// with every existing localization file of the locale's fallback chain applied
// from most general to most specific. Views are built once and cached for the
// lifetime of the Collection; later changes to the underlying files are not
// picked up.
package collection

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/pitabwire/util"
	"golang.org/x/sync/singleflight"

	"github.com/corey/osmnames/internal/domain/locale"
	"github.com/corey/osmnames/internal/domain/preset"
	"github.com/corey/osmnames/internal/ports"
)

// DefaultBaseFile is the name of the base preset document.
const DefaultBaseFile = "presets.json"

// ErrNotFound is returned by Get for ids absent from the base collection.
var ErrNotFound = errors.New("preset not found")

// Option configures Load.
type Option func(*options)

type options struct {
	baseFile string
}

// WithBaseFile overrides the base document name.
func WithBaseFile(name string) Option {
	return func(o *options) {
		if name != "" {
			o.baseFile = name
		}
	}
}

// view is one resolved id -> preset mapping. It is never modified after it
// becomes visible to readers.
type view struct {
	byID   map[string]preset.Preset
	sorted []preset.Preset
}

func newView(byID map[string]preset.Preset) *view {
	sorted := slices.Collect(maps.Values(byID))
	slices.SortFunc(sorted, func(a, b preset.Preset) int { return cmp.Compare(a.ID, b.ID) })
	return &view{byID: byID, sorted: sorted}
}

// Collection is the queryable preset catalog. It is safe for concurrent use.
type Collection struct {
	access   ports.FileAccess
	baseFile string
	base     *view

	mu       sync.RWMutex
	views    map[locale.Locale]*view
	overlays map[string]preset.Localization // parsed files, by file name
	group    singleflight.Group
}

// Load parses the base preset document eagerly. A missing, unreadable or
// malformed base document is fatal: there is no usable collection without it.
// Entries with empty or wildcard tags are dropped and logged.
func Load(ctx context.Context, access ports.FileAccess, opts ...Option) (*Collection, error) {
	o := options{baseFile: DefaultBaseFile}
	for _, opt := range opts {
		opt(&o)
	}

	log := util.Log(ctx).WithField("file", o.baseFile)

	r, err := access.Open(ctx, o.baseFile)
	if err != nil {
		return nil, fmt.Errorf("open base presets %s: %w", o.baseFile, err)
	}
	defer r.Close()

	presets, dropped, err := preset.ParsePresets(r)
	if err != nil {
		return nil, fmt.Errorf("parse base presets %s: %w", o.baseFile, err)
	}

	for _, d := range dropped {
		log.WithField("preset", d.ID).WithField("reason", d.Reason).Warn("preset dropped")
	}
	log.WithField("presets", len(presets)).WithField("dropped", len(dropped)).Debug("base presets loaded")

	base := newView(presets)
	return &Collection{
		access:   access,
		baseFile: o.baseFile,
		base:     base,
		views:    map[locale.Locale]*view{locale.Root: base},
		overlays: make(map[string]preset.Localization),
	}, nil
}

// Get returns the preset with the given id as seen in loc. Pass locale.Root
// for the unlocalized base set. Unknown ids yield an error wrapping
// ErrNotFound; a localization file that fails to parse yields a load error.
func (c *Collection) Get(ctx context.Context, id string, loc locale.Locale) (preset.Preset, error) {
	v, err := c.view(ctx, loc)
	if err != nil {
		return preset.Preset{}, err
	}
	p, ok := v.byID[id]
	if !ok {
		return preset.Preset{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p.Clone(), nil
}

// GetAll returns every preset of loc's merged view ordered by id. No
// searchable filtering is applied; that is left to the caller.
func (c *Collection) GetAll(ctx context.Context, loc locale.Locale) ([]preset.Preset, error) {
	v, err := c.view(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]preset.Preset, len(v.sorted))
	for i, p := range v.sorted {
		out[i] = p.Clone()
	}
	return out, nil
}

// Len returns the number of presets in the base set.
func (c *Collection) Len() int {
	return len(c.base.sorted)
}

// Locales returns the locales whose views are currently cached, Root
// excluded, ordered by their string form.
func (c *Collection) Locales() []locale.Locale {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]locale.Locale, 0, len(c.views))
	for loc := range c.views {
		if !loc.IsRoot() {
			out = append(out, loc)
		}
	}
	slices.SortFunc(out, func(a, b locale.Locale) int { return cmp.Compare(a.String(), b.String()) })
	return out
}

// view returns the cached view for loc, building it on first request.
// Concurrent first requests for the same locale share one build.
func (c *Collection) view(ctx context.Context, loc locale.Locale) (*view, error) {
	c.mu.RLock()
	v, ok := c.views[loc]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := c.group.Do(flightKey(loc), func() (any, error) {
		built, err := c.merge(ctx, loc)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.views[loc]; ok {
			return existing, nil
		}
		c.views[loc] = built
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*view), nil
}

// flightKey identifies loc for singleflight. It keeps both fields apart so
// distinct cache keys never share a build.
func flightKey(loc locale.Locale) string {
	return loc.Language + "\x00" + loc.Region
}

// merge builds the view for loc from a copy of the base set.
func (c *Collection) merge(ctx context.Context, loc locale.Locale) (*view, error) {
	names, err := locale.Resolve(ctx, c.access, loc)
	if err != nil {
		return nil, fmt.Errorf("resolve locale %s: %w", loc, err)
	}

	byID := maps.Clone(c.base.byID)
	for _, name := range names {
		overlay, err := c.overlay(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", loc, err)
		}
		overlay.Apply(byID)
	}

	util.Log(ctx).WithField("locale", loc.String()).WithField("files", names).Debug("localized view built")
	return newView(byID), nil
}

// overlay returns the parsed localization file name, parsing it at most once
// per successful load. Failed parses are not cached.
func (c *Collection) overlay(ctx context.Context, name string) (preset.Localization, error) {
	c.mu.RLock()
	l, ok := c.overlays[name]
	c.mu.RUnlock()
	if ok {
		return l, nil
	}

	r, err := c.access.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open localization %s: %w", name, err)
	}
	defer r.Close()

	l, err = preset.ParseLocalization(r)
	if err != nil {
		return nil, fmt.Errorf("parse localization %s: %w", name, err)
	}

	c.mu.Lock()
	c.overlays[name] = l
	c.mu.Unlock()
	return l, nil
}
