package cmd

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id> [locale]",
	Short: "Show one preset",
	Long:  "Shows a preset by id with its name and terms in the given locale, or the default locale when none is given.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tag := ""
	if len(args) == 2 {
		tag = args[1]
	}
	loc, err := a.ResolveLocale(tag)
	if err != nil {
		return err
	}
	p, err := a.Collection.Get(cmd.Context(), args[0], loc)
	if err != nil {
		return err
	}
	return writePreset(cmd.OutOrStdout(), flagFormat, p)
}
