package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/osmnames/internal/adapters/bbolt"
	"github.com/corey/osmnames/internal/adapters/dirfs"
	"github.com/corey/osmnames/internal/app"
	"github.com/corey/osmnames/presets"
)

var (
	importCompress bool
	importReplace  bool
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Copy a preset catalog into the asset store",
	Long: "Validates the catalog in dir (the bundled catalog when omitted) and writes its JSON " +
		"documents into one data set of the bbolt store given by --store.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the whole data set, dropping documents the new catalog lacks")
	importCmd.Flags().BoolVar(&importCompress, "compress", false, "Store documents zstd-compressed (read them back with --compressed)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if cfg.StorePath == "" {
		return errors.New("import needs an asset store: set --store or OSMNAMES_STORE_PATH")
	}

	src := dirfs.New(presets.FS, presets.Dir)
	from := "bundled catalog"
	if len(args) == 1 {
		src = dirfs.Dir(args[0])
		from = args[0]
	}

	store, err := bbolt.NewStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := app.ImportCatalog(cmd.Context(), store, cfg.DataSet, src, app.ImportOptions{
		BaseFile: cfg.BaseFile,
		Compress: importCompress,
		Replace:  importReplace,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s⚡ imported %s%s\n", colorBold, from, colorReset)
	fmt.Fprintf(out, "  Store:    %s\n", cfg.StorePath)
	fmt.Fprintf(out, "  Set:      %s\n", cfg.DataSet)
	fmt.Fprintf(out, "  Files:    %d\n", res.Files)
	fmt.Fprintf(out, "  Presets:  %d\n", res.Presets)
	if importCompress {
		fmt.Fprintf(out, "  %sRead with --compressed or OSMNAMES_COMPRESSED=true%s\n", colorGray, colorReset)
	}
	return nil
}
