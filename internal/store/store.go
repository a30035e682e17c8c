package store

import (
	"context"

	"github.com/josephgoksu/BibleWing/internal/uid"
)

// Store is the read contract every backend satisfies. Records come back in
// the same normalized shape whichever database is behind it.
//
// Lookups that find nothing return a nil record or an empty slice with a nil
// error. Every call made before Connect returns ErrNotConnected.
type Store interface {
	// Connect opens the backing database. Calling it twice is a no-op.
	Connect(ctx context.Context) error

	// Disconnect releases the connection. It is a no-op when not connected.
	Disconnect() error

	GetVerse(ctx context.Context, verseUID string) (*Verse, error)

	// GetVersesByChapter returns the chapter in the store's default
	// translation, ordered by verse number.
	GetVersesByChapter(ctx context.Context, book string, chapter int) ([]Verse, error)

	// GetVersesByChapterIn is GetVersesByChapter for an explicit translation.
	GetVersesByChapterIn(ctx context.Context, translation, book string, chapter int) ([]Verse, error)

	// SearchVerses matches query as a case-insensitive substring of the
	// verse text. At most SearchLimit verses are returned, ordered by uid.
	SearchVerses(ctx context.Context, query string) ([]Verse, error)

	GetPerson(ctx context.Context, id string) (*NamedEntity, error)
	GetPlace(ctx context.Context, id string) (*NamedEntity, error)
	GetTopic(ctx context.Context, id string) (*NamedEntity, error)
	GetEvent(ctx context.Context, id string) (*NamedEntity, error)
	GetLexiconEntry(ctx context.Context, id string) (*LexiconEntry, error)

	// GetVerseLinks returns the link rows of a verse in storage order.
	GetVerseLinks(ctx context.Context, verseUID string) ([]VerseLink, error)

	// GetLinkedEntities resolves every link of a verse. See ResolveLinks.
	GetLinkedEntities(ctx context.Context, verseUID string) (LinkedEntitySet, error)

	// GetCommentary returns commentary on a verse in storage order.
	GetCommentary(ctx context.Context, verseUID string) ([]Commentary, error)

	// GetAudioPath returns the stored audio file path, or "" when unmapped.
	GetAudioPath(ctx context.Context, verseUID string) (string, error)
}

// EntityReader is the subset of the store the link resolver needs.
type EntityReader interface {
	GetVerseLinks(ctx context.Context, verseUID string) ([]VerseLink, error)
	GetNamedEntity(ctx context.Context, c uid.Category, id string) (*NamedEntity, error)
	GetLexiconEntry(ctx context.Context, id string) (*LexiconEntry, error)
}

// SearchLimit caps the number of verses SearchVerses returns.
const SearchLimit = 100
