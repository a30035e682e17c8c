package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/ui"
)

var verseCmd = &cobra.Command{
	Use:   "verse <uid>",
	Short: "Show a verse with its linked entities and commentary",
	Long: `Show one verse by its identifier together with everything linked to it:
people, places, topics, events, word studies, commentary and the audio file.

Examples:
  biblewing verse VR-KJV-010101-AA
  biblewing verse VR-KJV-430316-AA --json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerse,
}

func init() {
	rootCmd.AddCommand(verseCmd)
}

func runVerse(cmd *cobra.Command, args []string) error {
	study, settings, err := openStudy(cmd)
	if err != nil {
		return err
	}

	result, err := study.Verse(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, result)
	}

	ui.RenderVerse(out, result.Verse)
	fmt.Fprintln(out)
	ui.RenderLinks(out, result.Links, ui.NewPalette(settings.Display.Colors))
	ui.RenderCommentary(out, result.Commentary)
	if result.AudioPath != "" {
		fmt.Fprintln(out, ui.StyleSubtle.Render("Audio: " + result.AudioPath))
	}
	return nil
}
