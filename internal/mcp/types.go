// Package mcp provides the tool parameters, handlers and Markdown presenters
// behind the BibleWing MCP server.
package mcp

// === Tool Names ===

const (
	ToolGetVerse          = "get_verse"
	ToolGetChapter        = "get_chapter"
	ToolSearchVerses      = "search_verses"
	ToolGetLinkedEntities = "get_linked_entities"
	ToolVerseNote         = "verse_note"
	ToolAsk               = "ask"
)

// === Tool Parameters ===

// VerseParams selects one verse.
type VerseParams struct {
	// UID is the verse identifier, e.g. VR-KJV-010101-AA.
	UID string `json:"uid"`
}

// ChapterParams selects one chapter of a book.
type ChapterParams struct {
	// Book is the book name as stored, e.g. "Genesis" or "1 John".
	// Lowercase input is title-cased.
	Book string `json:"book"`

	// Chapter is 1-based.
	Chapter int `json:"chapter"`
}

// SearchParams defines the parameters for the search tool.
type SearchParams struct {
	// Query is matched case-insensitively anywhere in the verse text.
	Query string `json:"query"`
}

// NoteParams defines the parameters for the verse_note tool.
type NoteParams struct {
	UID string `json:"uid"`

	// Write saves the note into the notes directory instead of only
	// returning it.
	Write bool `json:"write,omitempty"`

	// Force overwrites an existing note. Only used with Write.
	Force bool `json:"force,omitempty"`
}

// AskParams defines the parameters for the ask tool.
type AskParams struct {
	Question string `json:"question"`

	// UID optionally anchors the question to a verse and its neighbours.
	UID string `json:"uid,omitempty"`
}

// ToolResult is the outcome of a handler. Error holds a message meant for
// the calling model; Go errors are reserved for backend failures.
type ToolResult struct {
	Tool    string `json:"tool"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}
