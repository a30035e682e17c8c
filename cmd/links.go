package cmd

import (
	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/ui"
)

var linksCmd = &cobra.Command{
	Use:   "links <uid>",
	Short: "List the entities linked to a verse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		study, settings, err := openStudy(cmd)
		if err != nil {
			return err
		}
		links, err := study.Links(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), links)
		}
		ui.RenderLinks(cmd.OutOrStdout(), links, ui.NewPalette(settings.Display.Colors))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}
