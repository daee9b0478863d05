package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var matchFlags queryFlags

var matchCmd = &cobra.Command{
	Use:   "match <key=value>...",
	Short: "Find presets describing a set of tags",
	Long:  "Lists presets whose complete tag signature is present in the given tags, most specific first.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMatch,
}

func init() {
	matchFlags.register(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	tags, err := parseTags(args)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := matchFlags.query(a)
	if err != nil {
		return err
	}
	ps, err := a.Dictionary.ByTags(cmd.Context(), tags, q)
	if err != nil {
		return err
	}
	return writePresets(cmd.OutOrStdout(), flagFormat, ps)
}

// parseTags turns key=value arguments into a tag map. Later keys win.
func parseTags(args []string) (map[string]string, error) {
	tags := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid tag %q: want key=value", arg)
		}
		tags[k] = v
	}
	return tags, nil
}
