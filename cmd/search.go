package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find verses containing text",
	Long: `Search verse text for a case-insensitive substring. At most 100 verses are
returned, ordered by identifier.

Examples:
  biblewing search love
  biblewing search "let there be light" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	study, _, err := openStudy(cmd)
	if err != nil {
		return err
	}

	result, err := study.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	ui.RenderSearchResults(cmd.OutOrStdout(), result.Query, result.Verses)
	return nil
}
