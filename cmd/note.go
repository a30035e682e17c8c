package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/notes"
	"github.com/josephgoksu/BibleWing/internal/ui"
)

var noteCmd = &cobra.Command{
	Use:   "note <uid>...",
	Short: "Export verses as Markdown study notes",
	Long: `Write one Markdown note per verse into the notes directory (notes.dir,
default ./notes). Each note carries frontmatter with the linked entity
identifiers and wiki-links to every linked entity.

Existing notes are left untouched unless --force is given.

Examples:
  biblewing note VR-KJV-010101-AA
  biblewing note VR-KJV-010101-AA VR-KJV-010102-AA --out ~/vault/Bible
  biblewing note VR-KJV-010101-AA --print`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.Flags().StringP("out", "o", "", "Notes directory (overrides notes.dir)")
	noteCmd.Flags().BoolP("force", "f", false, "Overwrite existing notes")
	noteCmd.Flags().Bool("print", false, "Print the note instead of writing it")
}

type noteResult struct {
	UID     string `json:"uid"`
	Path    string `json:"path,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

func runNote(cmd *cobra.Command, args []string) error {
	s, settings, err := openStore(cmd)
	if err != nil {
		return err
	}

	dir := settings.Notes.Dir
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		dir = out
	}
	study := app.NewStudyApp(
		app.NewContext(s, settings, nil),
		app.WithVault(notes.NewOSVault(dir)),
	)

	w := cmd.OutOrStdout()
	if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
		for _, id := range args {
			note, err := study.Note(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(w, note)
		}
		return nil
	}

	force, _ := cmd.Flags().GetBool("force")
	var results []noteResult
	for _, id := range args {
		path, err := study.ExportNote(cmd.Context(), id, force)
		switch {
		case errors.Is(err, notes.ErrNoteExists):
			results = append(results, noteResult{UID: id, Path: path, Skipped: true})
			if !isJSON() {
				fmt.Fprintln(w, ui.StyleWarning.Render("Skipped "+path+" (exists, use --force to overwrite)"))
			}
		case err != nil:
			return fmt.Errorf("%s: %w", id, err)
		default:
			results = append(results, noteResult{UID: id, Path: path})
			if !isJSON() {
				fmt.Fprintln(w, ui.StyleSuccess.Render("✓ ")+path)
			}
		}
	}

	if isJSON() {
		return printJSON(w, results)
	}
	return nil
}

