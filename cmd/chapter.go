package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/ui"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter <book> <chapter>",
	Short: "Print a chapter",
	Long: `Print every verse of a chapter in order. Book names typed in lowercase are
title-cased, so "1 john" finds "1 John".

Examples:
  biblewing chapter genesis 1
  biblewing chapter "1 John" 4 --no-numbers`,
	Args: cobra.MinimumNArgs(2),
	RunE: runChapter,
}

func init() {
	rootCmd.AddCommand(chapterCmd)
	chapterCmd.Flags().Bool("no-numbers", false, "Hide verse numbers")
}

func runChapter(cmd *cobra.Command, args []string) error {
	// Multi-word books may be passed unquoted: chapter 1 john 4.
	book := strings.Join(args[:len(args)-1], " ")
	chapter, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return fmt.Errorf("invalid chapter %q: must be a number", args[len(args)-1])
	}

	study, settings, err := openStudy(cmd)
	if err != nil {
		return err
	}

	verses, err := study.Chapter(cmd.Context(), book, chapter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, verses)
	}
	book = app.NormalizeBook(book)
	if len(verses) == 0 {
		fmt.Fprintln(out, ui.StyleSubtle.Render(fmt.Sprintf("No verses found for %s %d.", book, chapter)))
		return nil
	}

	noNumbers, _ := cmd.Flags().GetBool("no-numbers")
	ui.RenderChapter(out, book, chapter, verses, settings.Display.ShowLineNumbers && !noNumbers)
	return nil
}
