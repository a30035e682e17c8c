package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	genesis11 = "VR-KJV-010101-AA"
	genesis12 = "VR-KJV-010102-AA"
	genesis13 = "VR-KJV-010103-AA"
)

// loveVerses is larger than SearchLimit so the cap is observable.
const loveVerses = SearchLimit + 5

func fixtureDataset() *Dataset {
	ds := &Dataset{
		// Stored out of order on purpose.
		Verses: []Verse{
			{UID: genesis13, Book: "Genesis", Chapter: 1, Verse: 3, Text: "And God said, Let there be light: and there was light.", Translation: "KJV"},
			{UID: genesis11, Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created the heaven and the earth.", Translation: "KJV"},
			{UID: genesis12, Book: "Genesis", Chapter: 1, Verse: 2, Text: "And the earth was without form, and void."},
		},
		People: []NamedEntity{
			{UID: "PER-000001", Name: "God", Description: "Creator", References: []string{genesis11, genesis13}},
			{UID: "PER-000002", Name: "Adam"},
		},
		Places:  []NamedEntity{{UID: "PLC-000001", Name: "Eden", References: []string{genesis11}}},
		Topics:  []NamedEntity{{UID: "TOP-000001", Name: "Creation"}},
		Events:  []NamedEntity{{UID: "EVT-000001", Name: "Creation Week"}},
		Lexicon: []LexiconEntry{{UID: "LEX-000001", Word: "created", Original: "בָּרָא", Transliteration: "bara", Definition: "to create", StrongsNumber: "H1254"}},
		Commentary: []Commentary{
			{UID: "COM-1", VerseUID: genesis11, Author: "Matthew Henry", Text: "The first verse of the Bible gives us an account of the creation.", Source: "Commentary on the Whole Bible"},
			{VerseUID: genesis11, Author: "John Gill", Text: "In the beginning of time."},
		},
		Links: []LinkRecord{
			{VerseUID: genesis11, EntityUID: "PER-000001", EntityType: "person"},
			{VerseUID: genesis11, EntityUID: "PLC-000001", EntityType: "place"},
			{VerseUID: genesis11, EntityUID: "PER-999999", EntityType: "person"},
			{VerseUID: genesis11, EntityUID: "LEX-000001", EntityType: "lexicon"},
			{VerseUID: genesis11, EntityUID: "TOP-000001", EntityType: "topic"},
			{VerseUID: genesis11, EntityUID: "EVT-000001", EntityType: "event"},
			{VerseUID: genesis11, EntityUID: "PER-000002", EntityType: "person"},
			{VerseUID: genesis13, EntityUID: "PER-000001", EntityType: "person"},
		},
		Audio: []AudioMapping{{VerseUID: genesis11, FilePath: "genesis/1/1.mp3", Narrator: "Alexander Scourby"}},
	}

	for i := 0; i < loveVerses; i++ {
		chapter, verse := i/90+1, i%90+1
		text := "Beloved, let us love one another"
		if i%2 == 1 {
			text = "GOD IS LOVE"
		}
		ds.Verses = append(ds.Verses, Verse{
			UID:     fmt.Sprintf("VR-KJV-62%02d%02d-AA", chapter, verse),
			Book:    "1 John",
			Chapter: chapter,
			Verse:   verse,
			Text:    text,
		})
	}
	return ds
}

// newSQLiteStore returns a connected store over a fresh database file.
func newSQLiteStore(t *testing.T, opts ...Option) *SQLStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bible.db")
	s := NewSQLStore(SQLite{}, path, opts...)
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { _ = s.Disconnect() })
	return s
}

// seed imports the fixture and returns the store for chaining.
func seed(t *testing.T, s *SQLStore) *SQLStore {
	t.Helper()
	_, err := s.Import(context.Background(), fixtureDataset())
	require.NoError(t, err)
	return s
}

// execRaw runs a statement outside the importer, for rows it would reject.
func execRaw(t *testing.T, s *SQLStore, q string, args ...any) {
	t.Helper()
	db, err := s.DB()
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), s.Dialect().Rebind(q), args...)
	require.NoError(t, err)
}
