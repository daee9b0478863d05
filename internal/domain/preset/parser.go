package preset

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Dropped records a base entry that was skipped during load because its tag
// signature is not concrete. Dropping is not an error.
type Dropped struct {
	ID     string
	Reason string
}

// ParsePresets decodes a base preset collection: an object keyed by preset id.
//
// Entries with empty tags or a wildcard tag value are left out and reported
// in the returned Dropped list. Any structural problem, including a geometry
// token outside the enumeration, fails the whole document. Duplicate ids
// resolve to the last occurrence.
func ParsePresets(r io.Reader) (map[string]Preset, []Dropped, error) {
	data, err := readDocument(r)
	if err != nil {
		return nil, nil, err
	}

	entries, err := object(rootPath, data)
	if err != nil {
		return nil, nil, err
	}

	presets := make(map[string]Preset, len(entries))
	var dropped []Dropped

	for id, raw := range entries {
		p, err := parsePreset(rootPath.key(id), id, raw)
		if err != nil {
			return nil, nil, err
		}
		if !concrete(p.Tags) {
			dropped = append(dropped, Dropped{ID: id, Reason: dropReason(p.Tags)})
			continue
		}
		presets[id] = p
	}

	slices.SortFunc(dropped, func(a, b Dropped) int { return cmp.Compare(a.ID, b.ID) })

	return presets, dropped, nil
}

func dropReason(tags map[string]string) string {
	if len(tags) == 0 {
		return "no tags"
	}
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		if tags[k] == Wildcard {
			return fmt.Sprintf("wildcard value for tag %q", k)
		}
	}
	return "tags not concrete"
}

// parsePreset decodes one entry and applies field defaults.
func parsePreset(p path, id string, raw json.RawMessage) (Preset, error) {
	fields, err := object(p, raw)
	if err != nil {
		return Preset{}, err
	}

	preset := Preset{
		ID:           id,
		Tags:         map[string]string{},
		Geometry:     []Geometry{Point},
		CountryCodes: []string{},
		Terms:        []string{},
		MatchScore:   DefaultMatchScore,
		Searchable:   DefaultSearchable,
	}

	if v := fields["tags"]; !isNull(v) {
		if preset.Tags, err = stringMap(p.field("tags"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["geometry"]; !isNull(v) {
		if preset.Geometry, err = geometryList(p.field("geometry"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["countryCodes"]; !isNull(v) {
		if preset.CountryCodes, err = stringList(p.field("countryCodes"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["name"]; !isNull(v) {
		if preset.Name, err = stringValue(p.field("name"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["suggestion"]; !isNull(v) {
		if preset.Suggestion, err = boolValue(p.field("suggestion"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["terms"]; !isNull(v) {
		if preset.Terms, err = stringList(p.field("terms"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["matchScore"]; !isNull(v) {
		if preset.MatchScore, err = numberValue(p.field("matchScore"), v); err != nil {
			return Preset{}, err
		}
	}

	if v := fields["searchable"]; !isNull(v) {
		if preset.Searchable, err = boolValue(p.field("searchable"), v); err != nil {
			return Preset{}, err
		}
	}

	// addTags falls back to tags only when the source leaves it out.
	if v := fields["addTags"]; !isNull(v) {
		if preset.AddTags, err = stringMap(p.field("addTags"), v); err != nil {
			return Preset{}, err
		}
	} else {
		preset.AddTags = maps.Clone(preset.Tags)
	}

	return preset, nil
}

// geometryList decodes an ordered set of geometry tokens. Repeats are
// collapsed; an empty array keeps the point default.
func geometryList(p path, raw json.RawMessage) ([]Geometry, error) {
	tokens, err := stringList(p, raw)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return []Geometry{Point}, nil
	}
	out := make([]Geometry, 0, len(tokens))
	for i, tok := range tokens {
		g, err := ParseGeometry(tok)
		if err != nil {
			return nil, p.index(i).fail("geometry", err)
		}
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	return out, nil
}
