package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var findFlags queryFlags

var findCmd = &cobra.Command{
	Use:   "find <term>",
	Short: "Search presets by name or term",
	Long:  "Lists presets whose localized name or search terms start with the given text. Case and accents are ignored.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFind,
}

func init() {
	findFlags.register(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := findFlags.query(a)
	if err != nil {
		return err
	}
	ps, err := a.Dictionary.ByTerm(cmd.Context(), strings.Join(args, " "), q)
	if err != nil {
		return err
	}
	return writePresets(cmd.OutOrStdout(), flagFormat, ps)
}
