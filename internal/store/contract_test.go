package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/BibleWing/internal/uid"
)

// runContract checks the behaviour every backend must share. s must be
// connected and seeded with fixtureDataset.
func runContract(t *testing.T, s *SQLStore) {
	ctx := context.Background()

	t.Run("GetVerse", func(t *testing.T) {
		v, err := s.GetVerse(ctx, genesis11)
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "Genesis", v.Book)
		assert.Equal(t, 1, v.Chapter)
		assert.Equal(t, 1, v.Verse)
		assert.Equal(t, "KJV", v.Translation)
	})

	t.Run("GetVerseDefaultsTranslation", func(t *testing.T) {
		execRaw(t, s, `UPDATE verses SET translation = NULL WHERE uid = ?`, genesis12)
		v, err := s.GetVerse(ctx, genesis12)
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, DefaultTranslation, v.Translation)
	})

	t.Run("GetVerseMissing", func(t *testing.T) {
		v, err := s.GetVerse(ctx, "VR-KJV-999999-ZZ")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("ChapterAscending", func(t *testing.T) {
		verses, err := s.GetVersesByChapter(ctx, "Genesis", 1)
		require.NoError(t, err)
		require.Len(t, verses, 3)
		for i := 1; i < len(verses); i++ {
			assert.Less(t, verses[i-1].Verse, verses[i].Verse)
		}
		assert.Equal(t, genesis11, verses[0].UID)
	})

	t.Run("ChapterMissing", func(t *testing.T) {
		verses, err := s.GetVersesByChapter(ctx, "Genesis", 50)
		require.NoError(t, err)
		assert.NotNil(t, verses)
		assert.Empty(t, verses)
	})

	t.Run("SearchCappedAndCaseInsensitive", func(t *testing.T) {
		lower, err := s.SearchVerses(ctx, "love")
		require.NoError(t, err)
		upper, err := s.SearchVerses(ctx, "LOVE")
		require.NoError(t, err)

		assert.Len(t, lower, SearchLimit)
		assert.Equal(t, lower, upper)
		for i := 1; i < len(lower); i++ {
			assert.Less(t, lower[i-1].UID, lower[i].UID)
		}
	})

	t.Run("SearchDeterministic", func(t *testing.T) {
		a, err := s.SearchVerses(ctx, "earth")
		require.NoError(t, err)
		b, err := s.SearchVerses(ctx, "earth")
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, 2)
	})

	t.Run("SearchWildcardsAreLiteral", func(t *testing.T) {
		verses, err := s.SearchVerses(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, verses)

		verses, err = s.SearchVerses(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, verses)
	})

	t.Run("NamedEntities", func(t *testing.T) {
		p, err := s.GetPerson(ctx, "PER-000001")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "God", p.Name)
		assert.Equal(t, "Creator", p.Description)
		assert.Equal(t, []string{genesis11, genesis13}, p.References)
		assert.Equal(t, uid.CategoryPerson, p.Category)

		pl, err := s.GetPlace(ctx, "PLC-000001")
		require.NoError(t, err)
		require.NotNil(t, pl)
		assert.Equal(t, "Eden", pl.Name)

		tp, err := s.GetTopic(ctx, "TOP-000001")
		require.NoError(t, err)
		require.NotNil(t, tp)
		assert.Equal(t, "Creation", tp.Name)

		ev, err := s.GetEvent(ctx, "EVT-000001")
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, "Creation Week", ev.Name)

		missing, err := s.GetPerson(ctx, "PER-999999")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("AbsentReferencesDecodeEmpty", func(t *testing.T) {
		execRaw(t, s, `UPDATE people SET "references" = NULL WHERE uid = ?`, "PER-000002")
		p, err := s.GetPerson(ctx, "PER-000002")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.NotNil(t, p.References)
		assert.Empty(t, p.References)
	})

	t.Run("Lexicon", func(t *testing.T) {
		l, err := s.GetLexiconEntry(ctx, "LEX-000001")
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.Equal(t, "created", l.Word)
		assert.Equal(t, "bara", l.Transliteration)
		assert.Equal(t, "H1254", l.StrongsNumber)

		missing, err := s.GetLexiconEntry(ctx, "LEX-999999")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("VerseLinksInStorageOrder", func(t *testing.T) {
		links, err := s.GetVerseLinks(ctx, genesis11)
		require.NoError(t, err)
		require.Len(t, links, 7)
		assert.Equal(t, "PER-000001", links[0].EntityUID)
		assert.Equal(t, uid.CategoryPerson, links[0].EntityType)
		assert.Equal(t, "PER-000002", links[6].EntityUID)
	})

	t.Run("LinkedEntities", func(t *testing.T) {
		set, err := s.GetLinkedEntities(ctx, genesis11)
		require.NoError(t, err)

		require.Len(t, set.People, 2, "dangling PER-999999 is dropped")
		assert.Equal(t, "God", set.People[0].Name)
		assert.Equal(t, "Adam", set.People[1].Name)
		require.Len(t, set.Places, 1)
		assert.Equal(t, "Eden", set.Places[0].Name)
		require.Len(t, set.Topics, 1)
		require.Len(t, set.Events, 1)
		require.Len(t, set.Lexicon, 1)
		assert.Equal(t, "created", set.Lexicon[0].Word)
	})

	t.Run("NoLinksGivesEmptySet", func(t *testing.T) {
		set, err := s.GetLinkedEntities(ctx, genesis12)
		require.NoError(t, err)
		assert.Equal(t, NewLinkedEntitySet(), set)
	})

	t.Run("Commentary", func(t *testing.T) {
		comments, err := s.GetCommentary(ctx, genesis11)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "Matthew Henry", comments[0].Author)
		assert.Equal(t, "John Gill", comments[1].Author)
		assert.NotEmpty(t, comments[1].UID, "missing commentary uid is generated")
		assert.Empty(t, comments[1].Source)

		none, err := s.GetCommentary(ctx, genesis13)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("AudioPath", func(t *testing.T) {
		path, err := s.GetAudioPath(ctx, genesis11)
		require.NoError(t, err)
		assert.Equal(t, "genesis/1/1.mp3", path)

		path, err = s.GetAudioPath(ctx, genesis12)
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("MismatchedLinkTypeSkipped", func(t *testing.T) {
		execRaw(t, s, `INSERT INTO verse_links (verse_uid, entity_uid, entity_type) VALUES (?, ?, ?)`,
			genesis13, "PLC-000001", "person")
		set, err := s.GetLinkedEntities(ctx, genesis13)
		require.NoError(t, err)
		require.Len(t, set.People, 1)
		assert.Equal(t, "PER-000001", set.People[0].UID)
		assert.Empty(t, set.Places)
	})

	t.Run("UnknownLinkTypeIsBackendError", func(t *testing.T) {
		execRaw(t, s, `INSERT INTO verse_links (verse_uid, entity_uid, entity_type) VALUES (?, ?, ?)`,
			genesis12, "PER-000001", "angel")
		_, err := s.GetVerseLinks(ctx, genesis12)
		var be *BackendError
		require.True(t, errors.As(err, &be), "got %v", err)
		assert.Equal(t, "get verse links", be.Op)

		_, err = s.GetLinkedEntities(ctx, genesis12)
		assert.True(t, errors.As(err, &be))
	})
	// Runs last: it adds a second translation of Genesis 1.
	t.Run("ChapterSingleTranslation", func(t *testing.T) {
		_, err := s.Import(ctx, &Dataset{Verses: []Verse{
			{UID: "VR-ASV-010101-AA", Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created the heavens and the earth.", Translation: "ASV"},
			{UID: "VR-ASV-010102-AA", Book: "Genesis", Chapter: 1, Verse: 2, Text: "And the earth was waste and void.", Translation: "ASV"},
		}})
		require.NoError(t, err)

		verses, err := s.GetVersesByChapter(ctx, "Genesis", 1)
		require.NoError(t, err)
		require.Len(t, verses, 3)
		for i, v := range verses {
			assert.Equal(t, i+1, v.Verse)
			assert.Equal(t, DefaultTranslation, v.Translation)
		}

		asv, err := s.GetVersesByChapterIn(ctx, "ASV", "Genesis", 1)
		require.NoError(t, err)
		require.Len(t, asv, 2)
		assert.Equal(t, "VR-ASV-010101-AA", asv[0].UID)
		assert.Equal(t, "VR-ASV-010102-AA", asv[1].UID)
	})
	t.Run("SearchFoldsUnicodeCase", func(t *testing.T) {
		_, err := s.Import(ctx, &Dataset{Verses: []Verse{
			{UID: "VR-LUT-010201-AA", Book: "Genesis", Chapter: 2, Verse: 1, Text: "ÜBER ALLE HIMMEL UND ERDE", Translation: "LUT"},
		}})
		require.NoError(t, err)

		for _, q := range []string{"über alle", "ÜBER ALLE", "Über"} {
			verses, err := s.SearchVerses(ctx, q)
			require.NoError(t, err)
			require.Len(t, verses, 1, q)
			assert.Equal(t, "VR-LUT-010201-AA", verses[0].UID)
		}
	})
}
