package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/config"
	"github.com/josephgoksu/BibleWing/internal/store"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// openStore loads settings and connects the configured backend. The store
// is disconnected when the run ends, including on panic.
func openStore(cmd *cobra.Command) (*store.SQLStore, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cmd.Context(), settings.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", settings.Database.Type, err)
	}
	rec.OnExit("store", s.Disconnect)
	slog.Debug("database connected", "backend", s.Dialect().Name())
	return s, settings, nil
}

// openStudy opens the store and wraps it in the study app.
func openStudy(cmd *cobra.Command) (*app.StudyApp, *config.Settings, error) {
	s, settings, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	return app.NewStudyApp(app.NewContext(s, settings, slog.Default())), settings, nil
}
