package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/store"
	"github.com/josephgoksu/BibleWing/internal/ui"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the Bible database",
	Long: `Create the schema and load datasets into the configured database
(database.type: sqlite or postgresql).`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the tables if they do not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, settings, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := s.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), map[string]string{"status": "ok", "backend": settings.Database.Type})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render("✓ Schema ready ("+s.Dialect().Name()+")"))
		return nil
	},
}

var dbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a YAML or JSON dataset",
	Long: `Import verses, named entities, lexicon entries, commentary, verse links and
audio mappings from a YAML (.yaml, .yml) or JSON (.json) file.

The dataset is validated first and written in a single transaction. Rows
are upserted by uid, so importing the same file twice is safe.

Example:
  biblewing db import genesis.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runDBImport,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbImportCmd)
}

func runDBImport(cmd *cobra.Command, args []string) error {
	ds, err := store.LoadDataset(afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}

	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	stats, err := s.Import(cmd.Context(), ds)
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, stats)
	}
	fmt.Fprintln(out, ui.StyleSuccess.Render("✓ Imported "+args[0]))
	fmt.Fprintf(out, "  verses: %d  entities: %d  lexicon: %d  commentary: %d  links: %d  audio: %d\n",
		stats.Verses, stats.Entities, stats.Lexicon, stats.Commentary, stats.Links, stats.Audio)
	return nil
}
