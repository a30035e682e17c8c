// Package ai answers study questions through the configured chat model,
// supplying the passage being read as context.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/josephgoksu/BibleWing/internal/llm"
	"github.com/josephgoksu/BibleWing/internal/store"
)

const systemPrompt = `You are a helpful Bible study assistant. You have access to the full text of scripture,
commentary, lexicon data, and cross-references. Your role is to help users understand and explore
the Bible through thoughtful analysis, historical context, and theological insights.

When answering questions:
- Be respectful and thoughtful
- Cite specific verses when relevant
- Provide historical and cultural context
- Explain original language meanings when helpful
- Draw connections to other passages
- Remain objective and scholarly

Format your responses in Markdown for clarity.`

// QueryContext is the passage a question is asked about. All fields are
// optional.
type QueryContext struct {
	CurrentVerse      *store.Verse
	SurroundingVerses []store.Verse
	AdditionalContext string
}

func (qc QueryContext) empty() bool {
	return qc.CurrentVerse == nil && len(qc.SurroundingVerses) == 0 && qc.AdditionalContext == ""
}

// Assistant sends questions to the provider selected in its config.
type Assistant struct {
	cfg      llm.Config
	newModel llm.ChatModelFactory
	logger   *slog.Logger
}

// Option customizes an Assistant.
type Option func(*Assistant)

// WithModelFactory replaces llm.NewChatModel.
func WithModelFactory(f llm.ChatModelFactory) Option {
	return func(a *Assistant) { a.newModel = f }
}

// WithLogger sets the assistant's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// NewAssistant creates an assistant for cfg. No provider is contacted until
// Query is called.
func NewAssistant(cfg llm.Config, opts ...Option) *Assistant {
	a := &Assistant{cfg: cfg, newModel: llm.NewChatModel, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Query asks message with qc as context and returns the model's answer.
//
// A missing API key for the selected provider is a *ConfigurationError. A
// failed provider call is an *UpstreamAPIError.
func (a *Assistant) Query(ctx context.Context, message string, qc QueryContext) (string, error) {
	if a.cfg.Provider.RequiresAPIKey() && strings.TrimSpace(a.cfg.APIKey) == "" {
		return "", &ConfigurationError{Provider: a.cfg.Provider, Reason: "API key not configured"}
	}

	chat, err := a.newModel(ctx, a.cfg)
	if err != nil {
		return "", &ConfigurationError{Provider: a.cfg.Provider, Reason: fmt.Sprintf("client could not be created: %v", err)}
	}

	a.logger.Debug("ai query", "provider", a.cfg.Provider, "model", a.cfg.Model, "context_verses", len(qc.SurroundingVerses))

	resp, err := chat.Generate(ctx, BuildMessages(message, qc))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", newUpstreamError(a.cfg.Provider, err)
	}
	if resp == nil || resp.Content == "" {
		return "", newUpstreamError(a.cfg.Provider, nil)
	}
	return resp.Content, nil
}

// BuildMessages returns the conversation sent for one question: the system
// prompt with the passage appended, then the user's message.
func BuildMessages(message string, qc QueryContext) []*schema.Message {
	system := systemPrompt
	if !qc.empty() {
		system += "\n\n" + FormatContext(qc)
	}
	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(message),
	}
}

// FormatContext renders the passage block. Surrounding verses are listed in
// a fenced block with "→ " marking the current verse; without them the
// current verse alone is quoted.
func FormatContext(qc QueryContext) string {
	var sb strings.Builder
	sb.WriteString("Current passage context:\n\n")

	if len(qc.SurroundingVerses) > 0 {
		sb.WriteString("```\n")
		for _, v := range qc.SurroundingVerses {
			marker := "  "
			if qc.CurrentVerse != nil && v.UID == qc.CurrentVerse.UID {
				marker = "→ "
			}
			sb.WriteString(fmt.Sprintf("%s%s %d:%d - %s\n", marker, v.Book, v.Chapter, v.Verse, v.Text))
		}
		sb.WriteString("```\n\n")
	} else if qc.CurrentVerse != nil {
		v := qc.CurrentVerse
		sb.WriteString(fmt.Sprintf("%s %d:%d\n", v.Book, v.Chapter, v.Verse))
		sb.WriteString(fmt.Sprintf("\"%s\"\n\n", v.Text))
	}

	if qc.AdditionalContext != "" {
		sb.WriteString(qc.AdditionalContext)
	}
	return sb.String()
}
