// Package preset holds the map-feature preset model and the decoders for the
// two document kinds it is built from: the base preset collection and the
// per-locale localization overlays.
//
// A Preset is identified by its ID and describes a feature by a fixed tag
// signature. Only Name and Terms are localizable; every other field comes
// from the base document and never changes after load.
package preset

import (
	"fmt"
	"maps"
	"slices"
)

// Geometry is one of the fixed geometry kinds a preset can apply to.
type Geometry string

const (
	Point    Geometry = "point"
	Vertex   Geometry = "vertex"
	Line     Geometry = "line"
	Area     Geometry = "area"
	Relation Geometry = "relation"
)

// Geometries lists every valid Geometry in canonical order.
var Geometries = []Geometry{Point, Vertex, Line, Area, Relation}

// ParseGeometry maps a document token to a Geometry.
func ParseGeometry(s string) (Geometry, error) {
	g := Geometry(s)
	if slices.Contains(Geometries, g) {
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGeometry, s)
}

// Wildcard is the tag value placeholder meaning "any value". Presets using it
// cannot be matched by a concrete signature and are dropped on load.
const Wildcard = "*"

// Default field values applied when the base document omits a field.
const (
	DefaultMatchScore = 1.0
	DefaultSearchable = true
)

// Preset is a named, taggable feature definition with a concrete tag signature.
type Preset struct {
	ID           string            `json:"id"                     yaml:"id"`
	Tags         map[string]string `json:"tags"                   yaml:"tags"`
	Geometry     []Geometry        `json:"geometry"               yaml:"geometry"`
	CountryCodes []string          `json:"countryCodes,omitempty" yaml:"countryCodes,omitempty"`
	Name         string            `json:"name,omitempty"         yaml:"name,omitempty"`
	Suggestion   bool              `json:"suggestion,omitempty"   yaml:"suggestion,omitempty"`
	Terms        []string          `json:"terms"                  yaml:"terms"`
	MatchScore   float64           `json:"matchScore"             yaml:"matchScore"`
	Searchable   bool              `json:"searchable"             yaml:"searchable"`
	AddTags      map[string]string `json:"addTags"                yaml:"addTags"`
}

// HasName reports whether a name was supplied by the base document or a
// localization overlay.
func (p Preset) HasName() bool {
	return p.Name != ""
}

// HasGeometry reports whether p applies to g.
func (p Preset) HasGeometry(g Geometry) bool {
	return slices.Contains(p.Geometry, g)
}

// AvailableIn reports whether p may be used in the given country. Presets
// without country codes are unrestricted; an empty country matches only those.
func (p Preset) AvailableIn(country string) bool {
	if len(p.CountryCodes) == 0 {
		return true
	}
	return slices.Contains(p.CountryCodes, country)
}

// Clone returns a deep copy of p so callers cannot mutate shared state.
func (p Preset) Clone() Preset {
	p.Tags = maps.Clone(p.Tags)
	p.AddTags = maps.Clone(p.AddTags)
	p.Geometry = slices.Clone(p.Geometry)
	p.CountryCodes = slices.Clone(p.CountryCodes)
	p.Terms = slices.Clone(p.Terms)
	if p.Terms == nil {
		p.Terms = []string{}
	}
	return p
}

// concrete reports whether tags is non-empty and free of wildcard values.
func concrete(tags map[string]string) bool {
	if len(tags) == 0 {
		return false
	}
	for _, v := range tags {
		if v == Wildcard {
			return false
		}
	}
	return true
}
