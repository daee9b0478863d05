package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/osmnames/internal/app"
	"github.com/corey/osmnames/internal/config"
	"github.com/corey/osmnames/internal/domain/collection"
)

var (
	flagDataDir    string
	flagStorePath  string
	flagDataSet    string
	flagBaseFile   string
	flagLocale     string
	flagCompressed bool
	flagLogLevel   string
	flagFormat     string
)

// cfg is the effective configuration: environment first, flags on top.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:               "osmnames",
	Short:             "Localized map-feature preset names",
	Long:              "Looks up map-feature presets by id, tags or search term and shows their localized names.",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagDataDir, "data", "", "Directory with presets.json and locale files (env OSMNAMES_DATA_DIR)")
	f.StringVar(&flagStorePath, "store", "", "bbolt asset store (env OSMNAMES_STORE_PATH)")
	f.StringVar(&flagDataSet, "set", "", "Data set inside the asset store (env OSMNAMES_DATA_SET)")
	f.StringVar(&flagBaseFile, "base", "", "Base preset file name (env OSMNAMES_BASE_FILE)")
	f.StringVarP(&flagLocale, "locale", "l", "", "Display locale, e.g. de-AT (env OSMNAMES_LOCALE)")
	f.BoolVar(&flagCompressed, "compressed", false, "Accept zstd-compressed .zst documents (env OSMNAMES_COMPRESSED)")
	f.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (env OSMNAMES_LOG_LEVEL)")
	f.StringVarP(&flagFormat, "format", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

// ExitCode maps an error to a process exit status: 2 for unknown presets,
// 1 for everything else.
func ExitCode(err error) int {
	if errors.Is(err, collection.ErrNotFound) {
		return 2
	}
	return 1
}

// loadConfig reads the environment, applies explicitly set flags and
// installs the logger on the command context.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.FromEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("store") {
		cfg.StorePath = flagStorePath
	}
	if flags.Changed("set") {
		cfg.DataSet = flagDataSet
	}
	if flags.Changed("base") {
		cfg.BaseFile = flagBaseFile
	}
	if flags.Changed("locale") {
		cfg.Locale = flagLocale
	}
	if flags.Changed("compressed") {
		cfg.Compressed = flagCompressed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	switch flagFormat {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", flagFormat)
	}

	cmd.SetContext(app.WithLogger(cmd.Context(), cfg, cmd.ErrOrStderr()))
	return nil
}

// openApp loads the catalog selected by cfg. Callers close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), cfg)
}
