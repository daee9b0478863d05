package preset

import (
	"io"
	"slices"
)

// LocalizedFields is a sparse override for one preset. A nil Name or Terms
// means "do not override"; an explicit empty terms array does override.
type LocalizedFields struct {
	Name  *string
	Terms []string
}

// Localization maps preset ids to their overrides for one locale file.
// Ids unknown to the base collection are kept and ignored on Apply, since
// overlays may be authored against a different base version.
type Localization map[string]LocalizedFields

// ParseLocalization decodes a localization document: an object keyed by
// preset id whose values carry optional name and terms.
func ParseLocalization(r io.Reader) (Localization, error) {
	data, err := readDocument(r)
	if err != nil {
		return nil, err
	}

	entries, err := object(rootPath, data)
	if err != nil {
		return nil, err
	}

	loc := make(Localization, len(entries))
	for id, raw := range entries {
		p := rootPath.key(id)
		fields, err := object(p, raw)
		if err != nil {
			return nil, err
		}

		var lf LocalizedFields
		if v := fields["name"]; !isNull(v) {
			name, err := stringValue(p.field("name"), v)
			if err != nil {
				return nil, err
			}
			lf.Name = &name
		}
		if v := fields["terms"]; !isNull(v) {
			if lf.Terms, err = stringList(p.field("terms"), v); err != nil {
				return nil, err
			}
		}
		loc[id] = lf
	}
	return loc, nil
}

// Apply overlays l onto presets in place, field by field. A field the
// overlay leaves unset keeps whatever an earlier layer put there.
func (l Localization) Apply(presets map[string]Preset) {
	for id, lf := range l {
		p, ok := presets[id]
		if !ok {
			continue
		}
		if lf.Name != nil {
			p.Name = *lf.Name
		}
		if lf.Terms != nil {
			p.Terms = slices.Clone(lf.Terms)
		}
		presets[id] = p
	}
}
