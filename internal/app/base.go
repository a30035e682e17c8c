// Package app provides the application layer that orchestrates study
// operations. CLI commands and MCP tools are thin adapters over it, so both
// surfaces return the same results for the same input.
package app

import (
	"log/slog"

	"github.com/josephgoksu/BibleWing/internal/config"
	"github.com/josephgoksu/BibleWing/internal/llm"
	"github.com/josephgoksu/BibleWing/internal/store"
)

// Context holds shared dependencies for all app services.
type Context struct {
	Store    store.Store
	LLMCfg   llm.Config
	Settings *config.Settings
	Logger   *slog.Logger
}

// NewContext creates an app context with standard initialization.
// LLM config loading is best-effort: reading still works when it fails, and
// Ask reports the missing configuration when it is used.
func NewContext(s store.Store, settings *config.Settings, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		logger.Warn("llm config unavailable", "error", err)
		llmCfg = llm.Config{}
	}
	return NewContextWithConfig(s, settings, llmCfg, logger)
}

// NewContextWithConfig creates an app context with explicit LLM config.
func NewContextWithConfig(s store.Store, settings *config.Settings, llmCfg llm.Config, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{Store: s, LLMCfg: llmCfg, Settings: settings, Logger: logger}
}
