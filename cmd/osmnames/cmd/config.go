package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/osmnames/internal/adapters/bbolt"
	"github.com/corey/osmnames/internal/config"
	"github.com/corey/osmnames/internal/domain/locale"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the effective settings, the catalog source and the locales it provides.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s⚡ osmnames config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Source:     %s\n", describeSource(cfg))
	fmt.Fprintf(out, "  Base file:  %s\n", cfg.BaseFile)
	fmt.Fprintf(out, "  Compressed: %t\n", cfg.Compressed)
	fmt.Fprintf(out, "  Log level:  %s\n", cfg.LogLevel)
	if cfg.Source() == config.SourceStore {
		printSets(out)
	}

	a, err := openApp(cmd)
	if err != nil {
		fmt.Fprintf(out, "  Catalog:    %s✗ %v%s\n", colorYellow, err, colorReset)
		return nil
	}
	defer a.Close()

	tag := a.Locale.String()
	if a.Locale.IsRoot() {
		tag = "(base names)"
	}
	fmt.Fprintf(out, "  Locale:     %s\n", tag)
	fmt.Fprintf(out, "  Catalog:    %s✓ %d presets%s\n", colorGreen, a.Collection.Len(), colorReset)

	overlays, err := locale.Resolve(cmd.Context(), a.Access, a.Locale)
	if err != nil {
		return err
	}
	if len(overlays) == 0 {
		overlays = []string{"(none)"}
	}
	fmt.Fprintf(out, "  Overlays:   %s\n", strings.Join(overlays, " "))
	return nil
}

func describeSource(c config.Config) string {
	switch c.Source() {
	case config.SourceStore:
		return fmt.Sprintf("store %s (set %s)", c.StorePath, c.DataSet)
	case config.SourceDir:
		return "directory " + c.DataDir
	default:
		return "bundled catalog"
	}
}

// printSets lists the data sets of the configured store.
func printSets(out io.Writer) {
	store, err := bbolt.OpenReadOnly(cfg.StorePath)
	if err != nil {
		fmt.Fprintf(out, "  Sets:       %s✗ %v%s\n", colorYellow, err, colorReset)
		return
	}
	defer store.Close()

	sets, err := store.Sets()
	if err != nil {
		fmt.Fprintf(out, "  Sets:       %s✗ %v%s\n", colorYellow, err, colorReset)
		return
	}
	fmt.Fprintf(out, "  Sets:       %s\n", strings.Join(sets, " "))
}
