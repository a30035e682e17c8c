/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/config"
	"github.com/josephgoksu/BibleWing/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version.
	version = "0.1.0"

	// rec owns shutdown for the current run: the store registers its
	// Disconnect here and a panic still releases it.
	rec = logger.NewRecorder(config.GetCrashLogDir(), version)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "biblewing",
	Short: "BibleWing - Bible study from the command line",
	Long: `BibleWing reads scripture from a local SQLite file or a PostgreSQL server,
resolves the people, places, topics, events and word studies linked to each
verse, and exports verses as Markdown study notes.

Examples:
  biblewing verse VR-KJV-010101-AA
  biblewing chapter genesis 1
  biblewing search "let there be light"
  biblewing note VR-KJV-010101-AA
  biblewing ask "What does 'created' mean here?" --verse VR-KJV-010101-AA
  biblewing db import bible.yaml
  biblewing mcp
  biblewing serve --port 5001`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rec.SetDir(config.GetCrashLogDir())
		rec.SetCommand(cmd.CommandPath())
		rec.SetLastInput(strings.Join(args, " "))

		slog.SetDefault(logger.New(os.Stderr, isVerbose()))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer rec.HandlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if cerr := rec.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.biblewing.yaml or $HOME/.biblewing.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")

	rootCmd.Version = version
}
