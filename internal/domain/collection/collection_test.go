package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/osmnames/internal/adapters/dirfs"
	"github.com/corey/osmnames/internal/domain/locale"
	"github.com/corey/osmnames/internal/domain/preset"
	"github.com/corey/osmnames/internal/ports"
)

// =============================================================================
// Fixtures
// =============================================================================

const somePresetsMin = `{
	"some/id": {"tags": {"a": "b", "c": "d"}, "geometry": ["point"]},
	"another/id": {"tags": {"a": "c"}},
	"yet/another/id": {"tags": {"a": "d"}},
	"wild/id": {"tags": {"a": "*"}}
}`

const (
	localizationsEN   = `{"some/id": {"name": "Bakery"}}`
	localizationsDE   = `{"some/id": {"name": "Bäckerei", "terms": ["x"]}, "another/id": {"name": "Gullideckel"}}`
	localizationsDEAT = `{"some/id": {"name": "Backhusl"}, "yet/another/id": {"name": "Brückle"}}`
)

var (
	english = locale.New("en", "")
	german  = locale.New("de", "")
	germany = locale.New("de", "DE")
	austria = locale.New("de", "AT")
)

// countingAccess wraps a FileAccess and counts Open calls per name.
type countingAccess struct {
	ports.FileAccess
	mu    sync.Mutex
	opens map[string]int
}

func (c *countingAccess) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()
	return c.FileAccess.Open(ctx, name)
}

func (c *countingAccess) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

func files(kv ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for i := 0; i+1 < len(kv); i += 2 {
		fsys[kv[i]] = &fstest.MapFile{Data: []byte(kv[i+1])}
	}
	return fsys
}

func load(t *testing.T, fsys fstest.MapFS) *Collection {
	t.Helper()
	c, err := Load(context.Background(), dirfs.New(fsys, "."))
	require.NoError(t, err)
	return c
}

func name(t *testing.T, c *Collection, id string, loc locale.Locale) string {
	t.Helper()
	p, err := c.Get(context.Background(), id, loc)
	require.NoError(t, err)
	return p.Name
}

// =============================================================================
// Load
// =============================================================================

func TestLoad_MissingBaseIsFatal(t *testing.T) {
	_, err := Load(context.Background(), dirfs.New(fstest.MapFS{}, "."))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLoad_MalformedBaseIsFatal(t *testing.T) {
	_, err := Load(context.Background(), dirfs.New(files("presets.json", `["nope"]`), "."))
	require.Error(t, err)

	var de *preset.DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestLoad_CustomBaseFile(t *testing.T) {
	fsys := files("base.json", `{"x": {"tags": {"a": "b"}}}`)
	c, err := Load(context.Background(), dirfs.New(fsys, "."), WithBaseFile("base.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestLoad_BaseParsedOnce(t *testing.T) {
	access := &countingAccess{
		FileAccess: dirfs.New(files("presets.json", somePresetsMin, "de.json", localizationsDE), "."),
		opens:      map[string]int{},
	}
	c, err := Load(context.Background(), access)
	require.NoError(t, err)

	ctx := context.Background()
	for _, loc := range []locale.Locale{locale.Root, german, germany, austria} {
		_, err := c.GetAll(ctx, loc)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, access.count("presets.json"))
}

// =============================================================================
// Base set
// =============================================================================

func TestGetAll_WildcardPresetsAbsentEverywhere(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"de.json", `{"wild/id": {"name": "Wild"}}`,
	))
	ctx := context.Background()

	for _, loc := range []locale.Locale{locale.Root, german, austria, english} {
		all, err := c.GetAll(ctx, loc)
		require.NoError(t, err)
		assert.Len(t, all, 3, "locale %q", loc)
		for _, p := range all {
			assert.NotEqual(t, "wild/id", p.ID)
		}
		_, err = c.Get(ctx, "wild/id", loc)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestGetAll_AddTagsDefaultsToTags(t *testing.T) {
	c := load(t, files("presets.json", somePresetsMin))
	all, err := c.GetAll(context.Background(), locale.Root)
	require.NoError(t, err)
	for _, p := range all {
		assert.Equal(t, p.Tags, p.AddTags, p.ID)
	}
}

func TestGetAll_SortedByID(t *testing.T) {
	c := load(t, files("presets.json", somePresetsMin))
	all, err := c.GetAll(context.Background(), locale.Root)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "another/id", all[0].ID)
	assert.Equal(t, "some/id", all[1].ID)
	assert.Equal(t, "yet/another/id", all[2].ID)
}

func TestGetAll_IncludesUnsearchable(t *testing.T) {
	c := load(t, files("presets.json", `{"x": {"tags": {"a": "b"}, "searchable": false}}`))
	all, err := c.GetAll(context.Background(), locale.Root)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Searchable)
}

func TestGet_UnknownIDIsNotFound(t *testing.T) {
	c := load(t, files("presets.json", somePresetsMin, "de.json", localizationsDE))
	_, err := c.Get(context.Background(), "no/such/id", german)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_BaseNameKeptWithoutLocalization(t *testing.T) {
	c := load(t, files(
		"presets.json", `{"x": {"tags": {"a": "b"}, "name": "Base name", "terms": ["base"]}}`,
		"de.json", `{"x": {"terms": ["lokal"]}}`,
	))
	ctx := context.Background()

	p, err := c.Get(ctx, "x", german)
	require.NoError(t, err)
	assert.Equal(t, "Base name", p.Name)
	assert.Equal(t, []string{"lokal"}, p.Terms)

	p, err = c.Get(ctx, "x", locale.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, p.Terms)
}

func TestGet_ReturnsCopies(t *testing.T) {
	c := load(t, files("presets.json", somePresetsMin))
	ctx := context.Background()

	p, err := c.Get(ctx, "some/id", locale.Root)
	require.NoError(t, err)
	p.Tags["a"] = "mutated"
	p.Name = "mutated"

	again, err := c.Get(ctx, "some/id", locale.Root)
	require.NoError(t, err)
	assert.Equal(t, "b", again.Tags["a"])
	assert.Empty(t, again.Name)
}

// =============================================================================
// Localization merge
// =============================================================================

func TestLocalization_PresetsAndLocalization(t *testing.T) {
	c := load(t, files(
		"presets.json", `{"some/id": {"tags": {"a": "b", "c": "d"}}}`,
		"en.json", `{"some/id": {"name": "bar", "terms": ["a", "b"]}}`,
	))
	ctx := context.Background()

	p, err := c.Get(ctx, "some/id", english)
	require.NoError(t, err)
	assert.Equal(t, "some/id", p.ID)
	assert.Equal(t, map[string]string{"a": "b", "c": "d"}, p.Tags)
	assert.Equal(t, []preset.Geometry{preset.Point}, p.Geometry)
	assert.Equal(t, "bar", p.Name)
	assert.Equal(t, []string{"a", "b"}, p.Terms)
}

func TestLocalization_NameOnlyKeepsEmptyTerms(t *testing.T) {
	c := load(t, files(
		"presets.json", `{"some/id": {"tags": {"a": "b"}}}`,
		"en.json", `{"some/id": {"name": "bar"}}`,
	))
	p, err := c.Get(context.Background(), "some/id", english)
	require.NoError(t, err)
	assert.Equal(t, "bar", p.Name)
	assert.Empty(t, p.Terms)
}

func TestLocalization_TwoLanguages(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"en.json", localizationsEN,
		"de.json", localizationsDE,
	))

	// de-DE.json does not exist, so de-DE falls back to de.json
	assert.Equal(t, "Bäckerei", name(t, c, "some/id", germany))
	assert.Equal(t, "Gullideckel", name(t, c, "another/id", germany))
	assert.Equal(t, "Bakery", name(t, c, "some/id", english))
	assert.Equal(t, "Bäckerei", name(t, c, "some/id", german))
	assert.Empty(t, name(t, c, "some/id", locale.Root))
}

func TestLocalization_MergeRegionOntoLanguage(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"de.json", localizationsDE,
		"de-AT.json", localizationsDEAT,
	))
	ctx := context.Background()

	assert.Equal(t, "Bäckerei", name(t, c, "some/id", german))
	assert.Equal(t, "Gullideckel", name(t, c, "another/id", germany))
	assert.Equal(t, "Backhusl", name(t, c, "some/id", austria))
	assert.Equal(t, "Gullideckel", name(t, c, "another/id", austria))
	assert.Equal(t, "Brückle", name(t, c, "yet/another/id", austria))
	assert.Empty(t, name(t, c, "yet/another/id", german))

	// de-AT leaves terms unset, de's terms are inherited
	p, err := c.Get(ctx, "some/id", austria)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, p.Terms)
}

func TestLocalization_SpecificLocaleNamesAtLeastAsMany(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"de.json", localizationsDE,
		"de-AT.json", localizationsDEAT,
	))
	ctx := context.Background()

	named := func(loc locale.Locale) int {
		all, err := c.GetAll(ctx, loc)
		require.NoError(t, err)
		n := 0
		for _, p := range all {
			if p.HasName() {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 2, named(german))
	assert.Equal(t, 3, named(austria))
}

func TestLocalization_NoOverlayFilesYieldsBaseSet(t *testing.T) {
	c := load(t, files("presets.json", somePresetsMin, "de.json", localizationsDE))
	ctx := context.Background()

	base, err := c.GetAll(ctx, locale.Root)
	require.NoError(t, err)
	french, err := c.GetAll(ctx, locale.New("fr", "FR"))
	require.NoError(t, err)
	assert.Equal(t, base, french)
	for _, p := range french {
		assert.Empty(t, p.Name)
		assert.Empty(t, p.Terms)
	}
}

func TestLocalization_BaseUnchangedAfterMerge(t *testing.T) {
	c := load(t, files("presets.json", somePresetsMin, "de.json", localizationsDE))
	ctx := context.Background()

	_, err := c.GetAll(ctx, german)
	require.NoError(t, err)

	p, err := c.Get(ctx, "some/id", locale.Root)
	require.NoError(t, err)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Terms)
}

func TestLocalization_OverlayParsedOncePerFile(t *testing.T) {
	access := &countingAccess{
		FileAccess: dirfs.New(files(
			"presets.json", somePresetsMin,
			"de.json", localizationsDE,
			"de-AT.json", localizationsDEAT,
		), "."),
		opens: map[string]int{},
	}
	c, err := Load(context.Background(), access)
	require.NoError(t, err)
	ctx := context.Background()

	for _, loc := range []locale.Locale{german, germany, austria, austria, german} {
		_, err := c.GetAll(ctx, loc)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, access.count("de.json"))
	assert.Equal(t, 1, access.count("de-AT.json"))
	assert.Equal(t, []locale.Locale{german, austria, germany}, c.Locales())
}

func TestLocalization_BrokenOverlayScopedToLocale(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"de.json", localizationsDE,
		"de-AT.json", `{"some/id": "not an object"}`,
	))
	ctx := context.Background()

	_, err := c.GetAll(ctx, austria)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "de-AT.json")

	// other locales are unaffected, including ones sharing de.json
	assert.Equal(t, "Bäckerei", name(t, c, "some/id", german))
	assert.Equal(t, "Bäckerei", name(t, c, "some/id", germany))

	// the failed locale is not cached and fails again
	_, err = c.Get(ctx, "some/id", austria)
	require.Error(t, err)
	assert.NotContains(t, c.Locales(), austria)
}

func TestLocalization_TwoInstancesEqual(t *testing.T) {
	fsys := files("presets.json", somePresetsMin, "de.json", localizationsDE)
	a := load(t, fsys)
	b := load(t, fsys)
	ctx := context.Background()

	for _, loc := range []locale.Locale{locale.Root, german} {
		x, err := a.GetAll(ctx, loc)
		require.NoError(t, err)
		y, err := b.GetAll(ctx, loc)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

// =============================================================================
// Concurrency
// =============================================================================

func TestConcurrentFirstRequests(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"de.json", localizationsDE,
		"de-AT.json", localizationsDEAT,
	))
	ctx := context.Background()

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc := austria
			if i%2 == 0 {
				loc = german
			}
			p, err := c.Get(ctx, "some/id", loc)
			if err != nil {
				failures.Add(1)
				return
			}
			want := "Backhusl"
			if loc == german {
				want = "Bäckerei"
			}
			if p.Name != want || len(p.Terms) != 1 {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Zero(t, failures.Load())
}

func TestConcurrentLocalesWithSameStringStayApart(t *testing.T) {
	c := load(t, files(
		"presets.json", somePresetsMin,
		"de.json", localizationsDE,
		"de-AT.json", localizationsDEAT,
	))
	ctx := context.Background()

	// Renders as "de-AT" but is a different cache key with a different chain.
	literal := locale.Locale{Language: "de-AT"}
	require.NotEqual(t, flightKey(literal), flightKey(austria))

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc, want := austria, "Gullideckel"
			if i%2 == 0 {
				loc, want = literal, ""
			}
			p, err := c.Get(ctx, "another/id", loc)
			if err != nil || p.Name != want {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Zero(t, failures.Load())
}

// failingExists reports an error for every existence check.
type failingExists struct {
	ports.FileAccess
}

func (failingExists) Exists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("backend offline")
}

func TestLocalization_ExistsErrorSurfaces(t *testing.T) {
	access := failingExists{dirfs.New(files("presets.json", somePresetsMin), ".")}
	c, err := Load(context.Background(), access)
	require.NoError(t, err)

	_, err = c.GetAll(context.Background(), german)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend offline")

	// the base view never consults the backend
	all, err := c.GetAll(context.Background(), locale.Root)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
