package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/osmnames/internal/domain/preset"
)

var listSearchable bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all presets",
	Long:  "Lists every preset in the catalog, ordered by id, with names in the selected locale.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listSearchable, "searchable", false, "Only presets offered in search")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ps, err := a.Collection.GetAll(cmd.Context(), a.Locale)
	if err != nil {
		return err
	}
	if listSearchable {
		ps = searchableOnly(ps)
	}
	return writePresets(cmd.OutOrStdout(), flagFormat, ps)
}

func searchableOnly(ps []preset.Preset) []preset.Preset {
	out := ps[:0]
	for _, p := range ps {
		if p.Searchable {
			out = append(out, p)
		}
	}
	return out
}
