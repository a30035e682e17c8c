package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/store"
)

// Handlers route MCP tool calls to the study app. Input problems and
// lookups that find nothing come back as ToolResult.Error so the model can
// correct itself. Backend failures are returned as Go errors.

// HandleGetVerse returns a verse with everything linked to it.
func HandleGetVerse(ctx context.Context, study *app.StudyApp, params VerseParams) (*ToolResult, error) {
	if strings.TrimSpace(params.UID) == "" {
		return validationResult(ToolGetVerse, "uid", "uid is required"), nil
	}
	result, err := study.Verse(ctx, params.UID)
	if err != nil {
		return errorResult(ToolGetVerse, err)
	}
	return &ToolResult{Tool: ToolGetVerse, Content: FormatVerse(result)}, nil
}

// HandleGetChapter returns the verses of one chapter.
func HandleGetChapter(ctx context.Context, study *app.StudyApp, params ChapterParams) (*ToolResult, error) {
	if strings.TrimSpace(params.Book) == "" {
		return validationResult(ToolGetChapter, "book", "book is required"), nil
	}
	if params.Chapter < 1 {
		return validationResult(ToolGetChapter, "chapter", "chapter must be at least 1"), nil
	}
	verses, err := study.Chapter(ctx, params.Book, params.Chapter)
	if err != nil {
		return errorResult(ToolGetChapter, err)
	}
	return &ToolResult{Tool: ToolGetChapter, Content: FormatChapter(app.NormalizeBook(params.Book), params.Chapter, verses)}, nil
}

// HandleSearchVerses runs a text search.
func HandleSearchVerses(ctx context.Context, study *app.StudyApp, params SearchParams) (*ToolResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return validationResult(ToolSearchVerses, "query", "query is required"), nil
	}
	result, err := study.Search(ctx, params.Query)
	if err != nil {
		return errorResult(ToolSearchVerses, err)
	}
	return &ToolResult{Tool: ToolSearchVerses, Content: FormatSearch(result)}, nil
}

// HandleGetLinkedEntities resolves the entities linked to a verse.
func HandleGetLinkedEntities(ctx context.Context, study *app.StudyApp, params VerseParams) (*ToolResult, error) {
	if strings.TrimSpace(params.UID) == "" {
		return validationResult(ToolGetLinkedEntities, "uid", "uid is required"), nil
	}
	links, err := study.Links(ctx, params.UID)
	if err != nil {
		return errorResult(ToolGetLinkedEntities, err)
	}
	return &ToolResult{Tool: ToolGetLinkedEntities, Content: FormatLinks(links)}, nil
}

// HandleVerseNote returns the rendered note of a verse, or writes it into
// the notes directory when params.Write is set.
func HandleVerseNote(ctx context.Context, study *app.StudyApp, params NoteParams) (*ToolResult, error) {
	if strings.TrimSpace(params.UID) == "" {
		return validationResult(ToolVerseNote, "uid", "uid is required"), nil
	}
	if !params.Write {
		note, err := study.Note(ctx, params.UID)
		if err != nil {
			return errorResult(ToolVerseNote, err)
		}
		return &ToolResult{Tool: ToolVerseNote, Content: note}, nil
	}
	path, err := study.ExportNote(ctx, params.UID, params.Force)
	if err != nil {
		return errorResult(ToolVerseNote, err)
	}
	return &ToolResult{Tool: ToolVerseNote, Content: FormatNoteWritten(path)}, nil
}

// HandleAsk forwards a question to the configured assistant.
func HandleAsk(ctx context.Context, study *app.StudyApp, params AskParams) (*ToolResult, error) {
	if strings.TrimSpace(params.Question) == "" {
		return validationResult(ToolAsk, "question", "question is required"), nil
	}
	result, err := study.Ask(ctx, params.Question, params.UID)
	if err != nil {
		return errorResult(ToolAsk, err)
	}
	return &ToolResult{Tool: ToolAsk, Content: FormatAnswer(result)}, nil
}

func validationResult(tool, field, message string) *ToolResult {
	return &ToolResult{Tool: tool, Error: FormatValidationError(field, message)}
}

// errorResult keeps backend failures as errors and turns everything else
// into a message for the model.
func errorResult(tool string, err error) (*ToolResult, error) {
	var backend *store.BackendError
	if errors.As(err, &backend) || errors.Is(err, store.ErrNotConnected) || ctxErr(err) {
		return nil, err
	}
	return &ToolResult{Tool: tool, Error: FormatError(err.Error())}, nil
}

func ctxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
