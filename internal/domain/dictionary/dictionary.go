// Package dictionary answers the two questions editing tools ask of a preset
// catalog: "which presets describe a feature with these tags?" and "which
// presets start with what the user typed?". Both run against one locale's
// merged view of a collection.
//
// Matching is exact: a preset's whole tag signature must be present in the
// feature's tags, and term lookup is a prefix test on case- and
// diacritic-folded text. There is no fuzzy matching.
package dictionary

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/corey/osmnames/internal/domain/locale"
	"github.com/corey/osmnames/internal/domain/preset"
)

// Source is the part of a collection the dictionary reads.
type Source interface {
	GetAll(ctx context.Context, loc locale.Locale) ([]preset.Preset, error)
}

// Query narrows a lookup.
type Query struct {
	Locale locale.Locale

	// Geometry restricts results to presets applicable to it. Empty means any.
	Geometry preset.Geometry

	// Country is an ISO 3166 code. Presets restricted to other countries are
	// left out; with no country only unrestricted presets qualify.
	Country string

	IncludeSuggestions  bool
	IncludeUnsearchable bool

	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// Dictionary looks presets up by tags or by search term.
type Dictionary struct {
	src Source
}

// New creates a Dictionary over src, typically a *collection.Collection.
func New(src Source) *Dictionary {
	return &Dictionary{src: src}
}

func (q Query) admits(p preset.Preset) bool {
	if !q.IncludeUnsearchable && !p.Searchable {
		return false
	}
	if !q.IncludeSuggestions && p.Suggestion {
		return false
	}
	if q.Geometry != "" && !p.HasGeometry(q.Geometry) {
		return false
	}
	return p.AvailableIn(q.Country)
}

func (q Query) limit(ps []preset.Preset) []preset.Preset {
	if q.Limit > 0 && len(ps) > q.Limit {
		return ps[:q.Limit]
	}
	return ps
}

// ByTags returns the presets whose complete tag signature is contained in
// tags. More specific presets (more tags) come first, then higher match
// score, then id.
func (d *Dictionary) ByTags(ctx context.Context, tags map[string]string, q Query) ([]preset.Preset, error) {
	all, err := d.src.GetAll(ctx, q.Locale)
	if err != nil {
		return nil, err
	}

	var out []preset.Preset
	for _, p := range all {
		if q.admits(p) && contains(tags, p.Tags) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b preset.Preset) int {
		if c := cmp.Compare(len(b.Tags), len(a.Tags)); c != 0 {
			return c
		}
		if c := cmp.Compare(b.MatchScore, a.MatchScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return q.limit(out), nil
}

func contains(tags, signature map[string]string) bool {
	for k, v := range signature {
		if got, ok := tags[k]; !ok || got != v {
			return false
		}
	}
	return true
}

// rank orders term hits: whole name first, then a word of the name, then a
// search term.
type rank int

const (
	rankName rank = iota
	rankNameWord
	rankTerm
	noMatch
)

type hit struct {
	p    preset.Preset
	rank rank
}

// ByTerm returns presets whose localized name, a word of it, or one of its
// terms starts with term after case and diacritic folding. An empty term
// matches nothing.
func (d *Dictionary) ByTerm(ctx context.Context, term string, q Query) ([]preset.Preset, error) {
	prefix := Fold(term)
	if prefix == "" {
		return nil, nil
	}

	all, err := d.src.GetAll(ctx, q.Locale)
	if err != nil {
		return nil, err
	}

	var hits []hit
	for _, p := range all {
		if !q.admits(p) {
			continue
		}
		if r := match(p, prefix); r != noMatch {
			hits = append(hits, hit{p: p, rank: r})
		}
	}

	slices.SortStableFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		if c := cmp.Compare(b.p.MatchScore, a.p.MatchScore); c != 0 {
			return c
		}
		if c := cmp.Compare(a.p.Name, b.p.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.p.ID, b.p.ID)
	})

	out := make([]preset.Preset, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return q.limit(out), nil
}

func match(p preset.Preset, prefix string) rank {
	name := Fold(p.Name)
	if name != "" {
		if strings.HasPrefix(name, prefix) {
			return rankName
		}
		for _, w := range words(name) {
			if strings.HasPrefix(w, prefix) {
				return rankNameWord
			}
		}
	}
	for _, t := range p.Terms {
		if strings.HasPrefix(Fold(t), prefix) {
			return rankTerm
		}
	}
	return noMatch
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Fold lower-cases s and strips combining marks, so "Bäckerei" and "backerei"
// compare equal. Transformers carry state, so each call builds its own.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
