package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteContract(t *testing.T) {
	runContract(t, seed(t, newSQLiteStore(t)))
}

func TestSQLiteContractConcurrentResolve(t *testing.T) {
	runContract(t, seed(t, newSQLiteStore(t, WithResolveConcurrency(4))))
}

func TestNotConnected(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(SQLite{}, filepath.Join(t.TempDir(), "bible.db"))

	calls := map[string]func() error{
		"GetVerse": func() error { _, err := s.GetVerse(ctx, genesis11); return err },
		"GetVersesByChapter": func() error {
			_, err := s.GetVersesByChapter(ctx, "Genesis", 1)
			return err
		},
		"SearchVerses":      func() error { _, err := s.SearchVerses(ctx, "love"); return err },
		"GetPerson":         func() error { _, err := s.GetPerson(ctx, "PER-000001"); return err },
		"GetPlace":          func() error { _, err := s.GetPlace(ctx, "PLC-000001"); return err },
		"GetTopic":          func() error { _, err := s.GetTopic(ctx, "TOP-000001"); return err },
		"GetEvent":          func() error { _, err := s.GetEvent(ctx, "EVT-000001"); return err },
		"GetLexiconEntry":   func() error { _, err := s.GetLexiconEntry(ctx, "LEX-000001"); return err },
		"GetVerseLinks":     func() error { _, err := s.GetVerseLinks(ctx, genesis11); return err },
		"GetLinkedEntities": func() error { _, err := s.GetLinkedEntities(ctx, genesis11); return err },
		"GetCommentary":     func() error { _, err := s.GetCommentary(ctx, genesis11); return err },
		"GetAudioPath":      func() error { _, err := s.GetAudioPath(ctx, genesis11); return err },
		"Import":            func() error { _, err := s.Import(ctx, &Dataset{}); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrNotConnected)
		})
	}
}

func TestConnectDisconnectIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(SQLite{}, filepath.Join(t.TempDir(), "bible.db"))

	require.NoError(t, s.Disconnect(), "disconnect before connect is a no-op")
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	require.NoError(t, s.Disconnect())
	require.NoError(t, s.Disconnect())

	_, err := s.GetVerse(ctx, genesis11)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestMissingTableIsBackendError(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.GetVerse(context.Background(), genesis11)
	var be *BackendError
	require.True(t, errors.As(err, &be), "got %v", err)
	assert.Equal(t, "get verse", be.Op)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"love", "love"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeLike(tt.in); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinkedEntitiesSurfacesMalformedEntity(t *testing.T) {
	for _, n := range []int{0, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", n), func(t *testing.T) {
			s := seed(t, newSQLiteStore(t, WithResolveConcurrency(n)))
			execRaw(t, s, `UPDATE people SET "references" = ? WHERE uid = ?`, "{not json", "PER-000001")

			_, err := s.GetPerson(context.Background(), "PER-000001")
			require.Error(t, err)

			set, err := s.GetLinkedEntities(context.Background(), genesis11)
			var be *BackendError
			require.True(t, errors.As(err, &be), "got %v", err)
			assert.Equal(t, 0, set.Len(), "no partial result")
		})
	}
}

func TestChapterUsesConfiguredTranslation(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{
		Type:        BackendSQLite,
		SQLite:      SQLiteConfig{Path: filepath.Join(t.TempDir(), "bible.db")},
		Translation: "asv",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Disconnect() })
	seed(t, s)
	_, err = s.Import(ctx, &Dataset{Verses: []Verse{
		{UID: "VR-ASV-010101-AA", Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created the heavens and the earth.", Translation: "ASV"},
	}})
	require.NoError(t, err)

	verses, err := s.GetVersesByChapter(ctx, "Genesis", 1)
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "VR-ASV-010101-AA", verses[0].UID)
}
