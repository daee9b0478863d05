package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corey/osmnames/internal/domain/preset"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// writePresets renders ps to w in the given format.
func writePresets(w io.Writer, format string, ps []preset.Preset) error {
	switch format {
	case formatJSON:
		return writeJSON(w, ps)
	case formatYAML:
		return writeYAML(w, ps)
	default:
		_, err := io.WriteString(w, formatPresetList(ps))
		return err
	}
}

// writePreset renders a single preset with all of its fields.
func writePreset(w io.Writer, format string, p preset.Preset) error {
	switch format {
	case formatJSON:
		return writeJSON(w, p)
	case formatYAML:
		return writeYAML(w, p)
	default:
		_, err := io.WriteString(w, formatPresetDetail(p))
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// formatPresetList renders one line per preset:
//
//	⚡ 3 presets
//	  amenity/bench  Bench  amenity=bench  [point vertex line]
func formatPresetList(ps []preset.Preset) string {
	var sb strings.Builder
	noun := "presets"
	if len(ps) == 1 {
		noun = "preset"
	}
	fmt.Fprintf(&sb, "%s⚡ %d %s%s\n", colorBold, len(ps), noun, colorReset)

	width := 0
	for _, p := range ps {
		width = max(width, len(p.ID))
	}
	for _, p := range ps {
		fmt.Fprintf(&sb, "  %s%-*s%s  %s  %s%s%s  %s[%s]%s",
			colorCyan, width, p.ID, colorReset,
			displayName(p),
			colorGreen, formatTags(p.Tags), colorReset,
			colorGray, formatGeometry(p.Geometry), colorReset)
		if p.Suggestion {
			fmt.Fprintf(&sb, "  %ssuggestion%s", colorYellow, colorReset)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatPresetDetail renders every field of p.
func formatPresetDetail(p preset.Preset) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ %s%s\n", colorBold, p.ID, colorReset)
	fmt.Fprintf(&sb, "  Name:        %s\n", displayName(p))
	fmt.Fprintf(&sb, "  Tags:        %s%s%s\n", colorGreen, formatTags(p.Tags), colorReset)
	fmt.Fprintf(&sb, "  Add tags:    %s\n", formatTags(p.AddTags))
	fmt.Fprintf(&sb, "  Geometry:    %s\n", formatGeometry(p.Geometry))
	fmt.Fprintf(&sb, "  Terms:       %s\n", strings.Join(p.Terms, ", "))
	fmt.Fprintf(&sb, "  Match score: %g\n", p.MatchScore)
	fmt.Fprintf(&sb, "  Searchable:  %t\n", p.Searchable)
	fmt.Fprintf(&sb, "  Suggestion:  %t\n", p.Suggestion)
	if len(p.CountryCodes) > 0 {
		fmt.Fprintf(&sb, "  Countries:   %s\n", strings.Join(p.CountryCodes, ", "))
	}
	return sb.String()
}

func displayName(p preset.Preset) string {
	if p.HasName() {
		return p.Name
	}
	return colorGray + "(unnamed)" + colorReset
}

// formatTags renders tags as sorted key=value pairs.
func formatTags(tags map[string]string) string {
	pairs := make([]string, 0, len(tags))
	for k, v := range tags {
		pairs = append(pairs, k+"="+v)
	}
	slices.Sort(pairs)
	return strings.Join(pairs, " ")
}

func formatGeometry(gs []preset.Geometry) string {
	parts := make([]string, len(gs))
	for i, g := range gs {
		parts[i] = string(g)
	}
	return strings.Join(parts, " ")
}
