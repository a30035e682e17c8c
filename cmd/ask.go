/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/ui"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the study assistant a question",
	Long: `Send a question to the configured AI provider (llm.provider: openai,
anthropic, gemini or ollama). With --verse, the verse and up to
ai.contextVerses neighbours on each side are sent as context.

API keys are read from llm.apiKeys.<provider> or the provider's usual
environment variable (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).

Examples:
  biblewing ask "Who wrote Genesis?"
  biblewing ask "What does 'created' mean here?" --verse VR-KJV-010101-AA`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().String("verse", "", "Verse uid to use as context")
}

func runAsk(cmd *cobra.Command, args []string) error {
	study, _, err := openStudy(cmd)
	if err != nil {
		return err
	}

	verseUID, _ := cmd.Flags().GetString("verse")
	result, err := study.Ask(cmd.Context(), strings.Join(args, " "), verseUID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, result)
	}
	if result.Verse != nil {
		fmt.Fprintln(out, ui.StyleSubtle.Render(fmt.Sprintf("Context: %s (%d verses)", ui.Reference(*result.Verse), len(result.Context))))
	}
	ui.RenderAnswer(out, result.Answer)
	return nil
}
