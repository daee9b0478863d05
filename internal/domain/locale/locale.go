// Package locale turns a requested display locale into the ordered chain of
// localization file names that may apply to it. The chain runs from the most
// general file (language only) to the most specific (language-region), which
// is also the order overlays are merged in.
package locale

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/corey/osmnames/internal/ports"
)

// fileExt is appended to every candidate localization file name.
const fileExt = ".json"

// Locale is a (language, region) pair. It is comparable and is used directly
// as a cache key, so two locales are the same entry only when both fields
// match exactly. The zero value means "no locale": the unlocalized base view.
type Locale struct {
	Language string // lower-case ISO 639 code, e.g. "de"
	Region   string // upper-case ISO 3166 code, e.g. "AT"; empty if absent
}

// Root is the zero Locale. Requests made with it see base presets only.
var Root = Locale{}

// New builds a Locale from a literal language/region pair. Only letter case
// is normalized (language lower, region upper), matching the capitalization
// used in localization file names.
func New(lang, region string) Locale {
	return Locale{
		Language: strings.ToLower(strings.TrimSpace(lang)),
		Region:   strings.ToUpper(strings.TrimSpace(region)),
	}
}

// Parse reads a BCP 47 tag ("de", "de-AT", "pt_BR"). An empty string yields
// Root. Subtags are taken as written: deprecated codes such as "iw" or "mo"
// are not replaced, and regions are only kept when the tag states one, so
// x/text's inferred regions ("de" -> DE) are not part of the requested locale.
func Parse(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Root, nil
	}

	tag, err := language.Raw.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return Root, fmt.Errorf("parse locale %q: %w", s, err)
	}

	base, conf := tag.Base()
	if conf == language.No {
		return Root, fmt.Errorf("parse locale %q: no language", s)
	}

	loc := Locale{Language: base.String()}
	if region, conf := tag.Region(); conf == language.Exact {
		loc.Region = region.String()
	}
	return loc, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Locale {
	loc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsRoot reports whether l is the zero Locale.
func (l Locale) IsRoot() bool {
	return l.Language == ""
}

// String renders "de", "de-AT", or "" for Root.
func (l Locale) String() string {
	if l.Region == "" {
		return l.Language
	}
	return l.Language + "-" + l.Region
}

// FileNames returns every candidate localization file for l, most general
// first: "de.json" then "de-AT.json". Root has no candidates.
func (l Locale) FileNames() []string {
	if l.IsRoot() {
		return nil
	}
	names := []string{l.Language + fileExt}
	if l.Region != "" {
		names = append(names, l.Language+"-"+l.Region+fileExt)
	}
	return names
}

// Resolve filters the fallback chain of l down to the files access reports
// as existing, preserving general-to-specific order. Missing files are
// silently omitted; an empty result means a base-only view.
func Resolve(ctx context.Context, access ports.FileAccess, l Locale) ([]string, error) {
	var found []string
	for _, name := range l.FileNames() {
		ok, err := access.Exists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", name, err)
		}
		if ok {
			found = append(found, name)
		}
	}
	return found, nil
}
