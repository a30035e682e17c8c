package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/config"
	"github.com/josephgoksu/BibleWing/internal/llm"
	"github.com/josephgoksu/BibleWing/internal/notes"
	"github.com/josephgoksu/BibleWing/internal/store"
)

const genesis11 = "VR-KJV-010101-AA"

func newTestStudy(t *testing.T) (*app.StudyApp, *store.SQLStore, afero.Fs) {
	t.Helper()
	ctx := context.Background()
	s := store.NewSQLStore(store.SQLite{}, filepath.Join(t.TempDir(), "bible.db"))
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = s.Disconnect() })

	ds := &store.Dataset{
		Verses: []store.Verse{
			{UID: genesis11, Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created the heaven and the earth."},
			{UID: "VR-KJV-010102-AA", Book: "Genesis", Chapter: 1, Verse: 2, Text: "And the earth was without form, and void."},
		},
		People:  []store.NamedEntity{{UID: "PER-000001", Name: "God", Description: "Creator"}},
		Lexicon: []store.LexiconEntry{{UID: "LEX-000001", Word: "created", Original: "bara", Definition: "to create", StrongsNumber: "H1254"}},
		Links: []store.LinkRecord{
			{VerseUID: genesis11, EntityUID: "PER-000001", EntityType: "person"},
			{VerseUID: genesis11, EntityUID: "LEX-000001", EntityType: "lexicon"},
		},
	}
	if _, err := s.Import(ctx, ds); err != nil {
		t.Fatalf("import: %v", err)
	}

	fs := afero.NewMemMapFs()
	settings := &config.Settings{Notes: config.NotesSettings{Dir: "/notes"}}
	c := app.NewContextWithConfig(s, settings, llm.Config{Provider: llm.ProviderOpenAI}, nil)
	return app.NewStudyApp(c, app.WithVault(notes.NewVault(fs, "/notes"))), s, fs
}

func TestHandleGetVerse(t *testing.T) {
	study, _, _ := newTestStudy(t)
	ctx := context.Background()

	result, err := HandleGetVerse(ctx, study, VerseParams{UID: genesis11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("unexpected tool error: %s", result.Error)
	}
	for _, want := range []string{"## Genesis 1:1 (KJV)", "> In the beginning", "### People", "**God** `PER-000001` - Creator", "### Word Studies", "[H1254]"} {
		if !strings.Contains(result.Content, want) {
			t.Errorf("content missing %q:\n%s", want, result.Content)
		}
	}
}

func TestHandleGetVerse_UserErrors(t *testing.T) {
	study, _, _ := newTestStudy(t)
	ctx := context.Background()

	tests := []struct {
		name string
		uid  string
		want string
	}{
		{"empty", "  ", "Validation Error"},
		{"malformed", "VR-KJV-01-AA", "malformed verse identifier"},
		{"missing", "VR-KJV-019999-AA", "verse not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := HandleGetVerse(ctx, study, VerseParams{UID: tt.uid})
			if err != nil {
				t.Fatalf("expected tool error, got Go error %v", err)
			}
			if !strings.Contains(result.Error, tt.want) {
				t.Errorf("Error = %q, want it to contain %q", result.Error, tt.want)
			}
		})
	}
}

func TestHandleGetVerse_BackendErrorPropagates(t *testing.T) {
	study, s, _ := newTestStudy(t)
	if err := s.Disconnect(); err != nil {
		t.Fatal(err)
	}

	_, err := HandleGetVerse(context.Background(), study, VerseParams{UID: genesis11})
	if err == nil {
		t.Fatal("expected ErrNotConnected to be returned as an error")
	}
}

func TestHandleGetChapter(t *testing.T) {
	study, _, _ := newTestStudy(t)
	ctx := context.Background()

	result, err := HandleGetChapter(ctx, study, ChapterParams{Book: "genesis", Chapter: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Content, "## Genesis 1\n\n1. In the beginning") {
		t.Errorf("unexpected content:\n%s", result.Content)
	}

	result, _ = HandleGetChapter(ctx, study, ChapterParams{Book: "Genesis", Chapter: 0})
	if !strings.Contains(result.Error, "`chapter`") {
		t.Errorf("expected chapter validation error, got %q", result.Error)
	}

	result, _ = HandleGetChapter(ctx, study, ChapterParams{Book: "Exodus", Chapter: 1})
	if result.Content != "No verses found for Exodus 1." {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestHandleSearchVerses(t *testing.T) {
	study, _, _ := newTestStudy(t)
	ctx := context.Background()

	result, err := HandleSearchVerses(ctx, study, SearchParams{Query: "EARTH"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "## 2 verse(s) matching \"EARTH\"") {
		t.Errorf("unexpected content:\n%s", result.Content)
	}

	result, _ = HandleSearchVerses(ctx, study, SearchParams{Query: "Jerusalem"})
	if result.Content != "No verses found." {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestHandleGetLinkedEntities(t *testing.T) {
	study, _, _ := newTestStudy(t)

	result, err := HandleGetLinkedEntities(context.Background(), study, VerseParams{UID: "VR-KJV-010102-AA"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "No linked entities." {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestHandleVerseNote(t *testing.T) {
	study, _, fs := newTestStudy(t)
	ctx := context.Background()

	result, err := HandleVerseNote(ctx, study, NoteParams{UID: genesis11})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "linked_people: [PER-000001]") {
		t.Errorf("note missing frontmatter:\n%s", result.Content)
	}
	if ok, _ := afero.Exists(fs, "/notes/Genesis_1_1.md"); ok {
		t.Error("preview must not write the note")
	}

	result, err = HandleVerseNote(ctx, study, NoteParams{UID: genesis11, Write: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "Genesis_1_1.md") {
		t.Errorf("unexpected content: %q", result.Content)
	}

	result, _ = HandleVerseNote(ctx, study, NoteParams{UID: genesis11, Write: true})
	if !strings.Contains(result.Error, "note already exists") {
		t.Errorf("expected exists error, got %q", result.Error)
	}
}

func TestHandleAsk_MissingKey(t *testing.T) {
	study, _, _ := newTestStudy(t)
	t.Setenv("OPENAI_API_KEY", "")

	result, err := HandleAsk(context.Background(), study, AskParams{Question: "Who created the earth?"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Error, "OpenAI API key not configured") {
		t.Errorf("unexpected error: %q", result.Error)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate(long) = %q", got)
	}
	if got := truncate("בָּרָאבָּרָא", 4); len([]rune(got)) != 4 {
		t.Errorf("truncate must count runes, got %q", got)
	}
}
