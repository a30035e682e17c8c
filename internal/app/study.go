package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/BibleWing/internal/ai"
	"github.com/josephgoksu/BibleWing/internal/config"
	"github.com/josephgoksu/BibleWing/internal/notes"
	"github.com/josephgoksu/BibleWing/internal/store"
	"github.com/josephgoksu/BibleWing/internal/uid"
)

// ErrVerseNotFound is returned when a well-formed verse uid has no row.
var ErrVerseNotFound = errors.New("verse not found")

// VerseResult is everything known about one verse.
type VerseResult struct {
	Verse      store.Verse           `json:"verse"`
	Links      store.LinkedEntitySet `json:"links"`
	Commentary []store.Commentary    `json:"commentary"`
	AudioPath  string                `json:"audio_path,omitempty"`
}

// SearchResult wraps SearchVerses with the metadata both surfaces print.
type SearchResult struct {
	Query     string        `json:"query"`
	Verses    []store.Verse `json:"verses"`
	Total     int           `json:"total"`
	Truncated bool          `json:"truncated"`
}

// AskResult is an answer together with the passage that was sent.
type AskResult struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Verse    *store.Verse  `json:"verse,omitempty"`
	Context  []store.Verse `json:"context,omitempty"`
}

// StudyApp provides verse lookup, note export and AI questions.
type StudyApp struct {
	ctx       *Context
	vault     *notes.Vault
	assistant *ai.Assistant
}

// StudyOption customizes a StudyApp.
type StudyOption func(*StudyApp)

// WithVault replaces the vault built from the notes settings.
func WithVault(v *notes.Vault) StudyOption {
	return func(a *StudyApp) { a.vault = v }
}

// WithAssistant replaces the assistant built from the LLM config.
func WithAssistant(as *ai.Assistant) StudyOption {
	return func(a *StudyApp) { a.assistant = as }
}

// NewStudyApp creates a new study application service.
func NewStudyApp(c *Context, opts ...StudyOption) *StudyApp {
	a := &StudyApp{ctx: c}
	for _, opt := range opts {
		opt(a)
	}
	if a.vault == nil {
		a.vault = notes.NewOSVault(c.Settings.Notes.Dir)
	}
	if a.assistant == nil {
		a.assistant = ai.NewAssistant(c.LLMCfg, ai.WithLogger(c.Logger))
	}
	return a
}

func (a *StudyApp) requireVerse(ctx context.Context, verseUID string) (*store.Verse, error) {
	verseUID = strings.TrimSpace(verseUID)
	if _, ok := uid.ParseVerse(verseUID); !ok {
		if err := uid.Validate(verseUID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%q is not a verse identifier", verseUID)
	}
	v, err := a.ctx.Store.GetVerse(ctx, verseUID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVerseNotFound, verseUID)
	}
	return v, nil
}

// Verse loads a verse with its linked entities, commentary and audio path.
// The audio path is joined onto the configured base path.
func (a *StudyApp) Verse(ctx context.Context, verseUID string) (*VerseResult, error) {
	v, err := a.requireVerse(ctx, verseUID)
	if err != nil {
		return nil, err
	}

	links, err := a.ctx.Store.GetLinkedEntities(ctx, v.UID)
	if err != nil {
		return nil, fmt.Errorf("resolve links: %w", err)
	}
	comments, err := a.ctx.Store.GetCommentary(ctx, v.UID)
	if err != nil {
		return nil, fmt.Errorf("load commentary: %w", err)
	}
	audio, err := a.ctx.Store.GetAudioPath(ctx, v.UID)
	if err != nil {
		return nil, fmt.Errorf("load audio path: %w", err)
	}

	return &VerseResult{
		Verse:      *v,
		Links:      links,
		Commentary: comments,
		AudioPath:  config.ResolveAudioPath(a.ctx.Settings.Audio.BasePath, audio),
	}, nil
}

// Links resolves the linked entities of a verse.
func (a *StudyApp) Links(ctx context.Context, verseUID string) (store.LinkedEntitySet, error) {
	v, err := a.requireVerse(ctx, verseUID)
	if err != nil {
		return store.LinkedEntitySet{}, err
	}
	return a.ctx.Store.GetLinkedEntities(ctx, v.UID)
}

// Chapter returns the verses of one chapter in verse order.
func (a *StudyApp) Chapter(ctx context.Context, book string, chapter int) ([]store.Verse, error) {
	book = NormalizeBook(book)
	if book == "" {
		return nil, errors.New("book is required")
	}
	if chapter < 1 {
		return nil, fmt.Errorf("chapter must be at least 1, got %d", chapter)
	}
	return a.ctx.Store.GetVersesByChapter(ctx, book, chapter)
}

var minorWords = map[string]bool{"of": true, "the": true, "and": true}

// NormalizeBook title-cases a book name typed in lowercase, so "1 john" and
// "song of solomon" match the stored "1 John" and "Song of Solomon". Input
// that already contains capitals is only trimmed.
func NormalizeBook(book string) string {
	book = strings.Join(strings.Fields(book), " ")
	if book != strings.ToLower(book) {
		return book
	}
	caser := cases.Title(language.English)
	words := strings.Fields(book)
	for i, w := range words {
		if i > 0 && minorWords[w] {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// Search runs a substring search over verse text.
func (a *StudyApp) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}
	verses, err := a.ctx.Store.SearchVerses(ctx, query)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Query:     query,
		Verses:    verses,
		Total:     len(verses),
		Truncated: len(verses) == store.SearchLimit,
	}, nil
}

// Note renders the study note of a verse without writing it.
func (a *StudyApp) Note(ctx context.Context, verseUID string) (string, error) {
	v, err := a.requireVerse(ctx, verseUID)
	if err != nil {
		return "", err
	}
	links, err := a.ctx.Store.GetLinkedEntities(ctx, v.UID)
	if err != nil {
		return "", fmt.Errorf("resolve links: %w", err)
	}
	return notes.Render(*v, links), nil
}

// ExportNote writes the study note of a verse into the vault and returns its
// path. notes.ErrNoteExists is returned for an existing note unless force is
// set.
func (a *StudyApp) ExportNote(ctx context.Context, verseUID string, force bool) (string, error) {
	v, err := a.requireVerse(ctx, verseUID)
	if err != nil {
		return "", err
	}
	links, err := a.ctx.Store.GetLinkedEntities(ctx, v.UID)
	if err != nil {
		return "", fmt.Errorf("resolve links: %w", err)
	}
	path, err := a.vault.WriteVerseNote(*v, links, force)
	if err != nil {
		return path, err
	}
	a.ctx.Logger.Debug("note written", "verse", v.UID, "path", path)
	return path, nil
}

// Ask sends question to the assistant. When verseUID is set, the verse and
// up to ai.contextVerses neighbours on each side are sent as context.
func (a *StudyApp) Ask(ctx context.Context, question, verseUID string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}

	result := &AskResult{Question: question}
	var qc ai.QueryContext
	if verseUID != "" {
		v, err := a.requireVerse(ctx, verseUID)
		if err != nil {
			return nil, err
		}
		chapter, err := a.ctx.Store.GetVersesByChapterIn(ctx, v.Translation, v.Book, v.Chapter)
		if err != nil {
			return nil, fmt.Errorf("load chapter: %w", err)
		}
		qc.CurrentVerse = v
		qc.SurroundingVerses = surrounding(chapter, v.Verse, a.ctx.Settings.AI.ContextVerses)
		result.Verse = v
		result.Context = qc.SurroundingVerses
	}

	answer, err := a.assistant.Query(ctx, question, qc)
	if err != nil {
		return nil, err
	}
	result.Answer = answer
	return result, nil
}

// surrounding keeps the verses within radius of the verse numbered center.
// A zero radius sends no surrounding block at all.
func surrounding(chapter []store.Verse, center, radius int) []store.Verse {
	if radius <= 0 {
		return nil
	}
	var out []store.Verse
	for _, v := range chapter {
		if v.Verse >= center-radius && v.Verse <= center+radius {
			out = append(out, v)
		}
	}
	return out
}
