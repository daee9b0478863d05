package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/osmnames/internal/app"
	"github.com/corey/osmnames/internal/domain/dictionary"
	"github.com/corey/osmnames/internal/domain/preset"
)

// queryFlags are the filters shared by match and find.
type queryFlags struct {
	geometry     string
	country      string
	suggestions  bool
	unsearchable bool
	limit        int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.geometry, "geometry", "g", "", "Only presets for this geometry (point, vertex, line, area, relation)")
	fl.StringVarP(&f.country, "country", "c", "", "ISO 3166 country code for region-restricted presets")
	fl.BoolVar(&f.suggestions, "suggestions", false, "Include brand and operator suggestions")
	fl.BoolVar(&f.unsearchable, "unsearchable", false, "Include presets hidden from search")
	fl.IntVarP(&f.limit, "limit", "n", 0, "Maximum number of results (0 = all)")
}

func (f *queryFlags) query(a *app.App) (dictionary.Query, error) {
	q := dictionary.Query{
		Locale:              a.Locale,
		Country:             f.country,
		IncludeSuggestions:  f.suggestions,
		IncludeUnsearchable: f.unsearchable,
		Limit:               f.limit,
	}
	if f.geometry != "" {
		g, err := preset.ParseGeometry(f.geometry)
		if err != nil {
			return q, err
		}
		q.Geometry = g
	}
	return q, nil
}
