// Package config loads BibleWing settings from config files, the environment
// and flags through Viper. All default values are defined here.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/josephgoksu/BibleWing/internal/store"
)

const (
	// ConfigName is the config file looked up in ./ and $HOME (.biblewing.yaml).
	ConfigName = ".biblewing"
	// EnvPrefix prefixes environment overrides, e.g. BIBLEWING_DATABASE_TYPE.
	EnvPrefix = "BIBLEWING"
)

// Settings is the validated application configuration.
type Settings struct {
	Database store.Config    `mapstructure:"database"`
	Display  DisplaySettings `mapstructure:"display"`
	AI       AISettings      `mapstructure:"ai"`
	Audio    AudioSettings   `mapstructure:"audio"`
	Notes    NotesSettings   `mapstructure:"notes"`
	Verbose  bool            `mapstructure:"verbose"`
}

type DisplaySettings struct {
	DefaultTranslation string      `mapstructure:"defaultTranslation" validate:"required,uppercase"`
	ShowLineNumbers    bool        `mapstructure:"showLineNumbers"`
	Colors             ColorScheme `mapstructure:"colors"`
}

// ColorScheme assigns a hex color to each linked-entity category.
type ColorScheme struct {
	People  string `mapstructure:"people" validate:"hexcolor"`
	Places  string `mapstructure:"places" validate:"hexcolor"`
	Topics  string `mapstructure:"topics" validate:"hexcolor"`
	Events  string `mapstructure:"events" validate:"hexcolor"`
	Lexicon string `mapstructure:"lexicon" validate:"hexcolor"`
}

type AISettings struct {
	// ContextVerses is how many verses on each side of the current one are
	// sent along with a question.
	ContextVerses int `mapstructure:"contextVerses" validate:"min=0,max=20"`
}

type AudioSettings struct {
	BasePath string `mapstructure:"basePath"`
}

type NotesSettings struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// DefaultColors is the built-in palette.
var DefaultColors = ColorScheme{
	People:  "#4A90E2",
	Places:  "#50C878",
	Topics:  "#9B59B6",
	Events:  "#FF9500",
	Lexicon: "#FFD700",
}

var validate = validator.New()

// SetDefaults registers every default on the global Viper instance. Keys
// must be known to Viper for environment overrides to reach Unmarshal.
func SetDefaults() {
	viper.SetDefault("database.type", store.BackendSQLite)
	viper.SetDefault("database.resolveConcurrency", 0)
	viper.SetDefault("database.sqlite.path", "./local_bible.db")
	viper.SetDefault("database.postgresql.host", "localhost")
	viper.SetDefault("database.postgresql.port", 5432)
	viper.SetDefault("database.postgresql.database", "bible_db")
	viper.SetDefault("database.postgresql.user", "")
	viper.SetDefault("database.postgresql.password", "")
	viper.SetDefault("database.postgresql.sslmode", "disable")

	viper.SetDefault("display.defaultTranslation", store.DefaultTranslation)
	viper.SetDefault("display.showLineNumbers", true)
	viper.SetDefault("display.colors.people", DefaultColors.People)
	viper.SetDefault("display.colors.places", DefaultColors.Places)
	viper.SetDefault("display.colors.topics", DefaultColors.Topics)
	viper.SetDefault("display.colors.events", DefaultColors.Events)
	viper.SetDefault("display.colors.lexicon", DefaultColors.Lexicon)

	viper.SetDefault("ai.contextVerses", 3)

	viper.SetDefault("audio.basePath", "./public/audio")

	viper.SetDefault("notes.dir", "./notes")

	setLLMDefaults()
}

// BindEnv makes BIBLEWING_* variables override config keys.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Load unmarshals and validates the settings from the global Viper instance.
func Load() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	s.Database.Translation = s.Display.DefaultTranslation
	return &s, nil
}
