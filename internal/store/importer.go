package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/BibleWing/internal/uid"
)

// Dataset is the out-of-band import format. Every section is optional.
type Dataset struct {
	Verses     []Verse        `json:"verses" yaml:"verses"`
	People     []NamedEntity  `json:"people" yaml:"people"`
	Places     []NamedEntity  `json:"places" yaml:"places"`
	Topics     []NamedEntity  `json:"topics" yaml:"topics"`
	Events     []NamedEntity  `json:"events" yaml:"events"`
	Lexicon    []LexiconEntry `json:"lexicon" yaml:"lexicon"`
	Commentary []Commentary   `json:"commentary" yaml:"commentary"`
	Links      []LinkRecord   `json:"links" yaml:"links"`
	Audio      []AudioMapping `json:"audio" yaml:"audio"`
}

// LinkRecord is a verse link as written in a dataset file.
type LinkRecord struct {
	VerseUID   string `json:"verseUid" yaml:"verse_uid"`
	EntityUID  string `json:"entityUid" yaml:"entity_uid"`
	EntityType string `json:"entityType" yaml:"entity_type"`
}

// ImportStats counts rows written per table.
type ImportStats struct {
	Verses     int `json:"verses"`
	Entities   int `json:"entities"`
	Lexicon    int `json:"lexicon"`
	Commentary int `json:"commentary"`
	Links      int `json:"links"`
	Audio      int `json:"audio"`
}

// LoadDataset reads a dataset file. Files ending in .json are decoded as
// JSON, everything else as YAML.
func LoadDataset(fs afero.Fs, path string) (*Dataset, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &ds)
	} else {
		err = yaml.Unmarshal(data, &ds)
	}
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return &ds, nil
}

// Validate checks every identifier against its full pattern and every link
// type against its target's prefix.
func (ds *Dataset) Validate() error {
	check := func(section string, want uid.Category, id string) error {
		if err := uid.Validate(id); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
		if c, _ := uid.CategoryOf(id); c != want {
			return fmt.Errorf("%s: %q is a %s identifier", section, id, c)
		}
		return nil
	}

	for _, v := range ds.Verses {
		if err := check("verses", uid.CategoryVerse, v.UID); err != nil {
			return err
		}
		if v.Chapter < 1 || v.Verse < 1 {
			return fmt.Errorf("verses: %s has chapter %d verse %d", v.UID, v.Chapter, v.Verse)
		}
	}
	named := []struct {
		section string
		cat     uid.Category
		items   []NamedEntity
	}{
		{"people", uid.CategoryPerson, ds.People},
		{"places", uid.CategoryPlace, ds.Places},
		{"topics", uid.CategoryTopic, ds.Topics},
		{"events", uid.CategoryEvent, ds.Events},
	}
	for _, n := range named {
		for _, e := range n.items {
			if err := check(n.section, n.cat, e.UID); err != nil {
				return err
			}
		}
	}
	for _, l := range ds.Lexicon {
		if err := check("lexicon", uid.CategoryLexicon, l.UID); err != nil {
			return err
		}
	}
	for _, c := range ds.Commentary {
		if err := check("commentary", uid.CategoryVerse, c.VerseUID); err != nil {
			return err
		}
	}
	for _, l := range ds.Links {
		if err := check("links", uid.CategoryVerse, l.VerseUID); err != nil {
			return err
		}
		c, err := uid.ParseLinkType(l.EntityType)
		if err != nil {
			return fmt.Errorf("links: %w", err)
		}
		if err := check("links", c, l.EntityUID); err != nil {
			return err
		}
	}
	for _, a := range ds.Audio {
		if err := check("audio", uid.CategoryVerse, a.VerseUID); err != nil {
			return err
		}
	}
	return nil
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range d.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return backendErr("create schema", err)
		}
	}
	return nil
}

// commentaryNamespace scopes generated commentary identifiers.
var commentaryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://biblewing.app/commentary"))

// CommentaryUID derives a stable identifier for commentary imported without
// one, so importing the same dataset twice replaces rather than duplicates.
func CommentaryUID(c Commentary) string {
	key := c.VerseUID + "\x00" + c.Author + "\x00" + c.Text
	return uuid.NewSHA1(commentaryNamespace, []byte(key)).String()
}

// Import validates ds and upserts it in a single transaction. Existing rows
// with the same identifier are replaced; duplicate links are ignored.
func Import(ctx context.Context, db *sql.DB, d Dialect, ds *Dataset) (ImportStats, error) {
	var stats ImportStats
	if err := ds.Validate(); err != nil {
		return stats, err
	}
	if err := EnsureSchema(ctx, db, d); err != nil {
		return stats, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, backendErr("begin import", err)
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(op, q string, args ...any) error {
		if _, err := tx.ExecContext(ctx, d.Rebind(q), args...); err != nil {
			return backendErr(op, err)
		}
		return nil
	}

	for _, v := range ds.Verses {
		translation := v.Translation
		if translation == "" {
			translation = DefaultTranslation
		}
		if err := exec("import verse",
			`INSERT INTO verses (uid, book, chapter, verse, text, translation) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (uid) DO UPDATE SET book = excluded.book, chapter = excluded.chapter,
				verse = excluded.verse, text = excluded.text, translation = excluded.translation`,
			v.UID, v.Book, v.Chapter, v.Verse, v.Text, translation); err != nil {
			return stats, err
		}
		stats.Verses++
	}

	for table, items := range map[string][]NamedEntity{
		"people": ds.People, "places": ds.Places, "topics": ds.Topics, "events": ds.Events,
	} {
		for _, e := range items {
			refs, err := d.EncodeReferences(e.References)
			if err != nil {
				return stats, err
			}
			if err := exec("import "+table,
				`INSERT INTO `+table+` (uid, name, description, "references") VALUES (?, ?, ?, ?)
				ON CONFLICT (uid) DO UPDATE SET name = excluded.name,
					description = excluded.description, "references" = excluded."references"`,
				e.UID, e.Name, nullable(e.Description), refs); err != nil {
				return stats, err
			}
			stats.Entities++
		}
	}

	for _, l := range ds.Lexicon {
		if err := exec("import lexicon",
			`INSERT INTO lexicon (uid, word, original, transliteration, definition, strongs_number) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (uid) DO UPDATE SET word = excluded.word, original = excluded.original,
				transliteration = excluded.transliteration, definition = excluded.definition,
				strongs_number = excluded.strongs_number`,
			l.UID, l.Word, l.Original, nullable(l.Transliteration), l.Definition, nullable(l.StrongsNumber)); err != nil {
			return stats, err
		}
		stats.Lexicon++
	}

	for _, c := range ds.Commentary {
		id := c.UID
		if id == "" {
			id = CommentaryUID(c)
		}
		if err := exec("import commentary",
			`INSERT INTO commentary (uid, verse_uid, author, text, source) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (uid) DO UPDATE SET verse_uid = excluded.verse_uid, author = excluded.author,
				text = excluded.text, source = excluded.source`,
			id, c.VerseUID, c.Author, c.Text, nullable(c.Source)); err != nil {
			return stats, err
		}
		stats.Commentary++
	}

	for _, l := range ds.Links {
		if err := exec("import link",
			`INSERT INTO verse_links (verse_uid, entity_uid, entity_type) VALUES (?, ?, ?)
			ON CONFLICT (verse_uid, entity_uid, entity_type) DO NOTHING`,
			l.VerseUID, l.EntityUID, l.EntityType); err != nil {
			return stats, err
		}
		stats.Links++
	}

	for _, a := range ds.Audio {
		if err := exec("import audio",
			`INSERT INTO audio_map (verse_uid, file_path, narrator) VALUES (?, ?, ?)
			ON CONFLICT (verse_uid) DO UPDATE SET file_path = excluded.file_path, narrator = excluded.narrator`,
			a.VerseUID, a.FilePath, nullable(a.Narrator)); err != nil {
			return stats, err
		}
		stats.Audio++
	}

	if err := tx.Commit(); err != nil {
		return stats, backendErr("commit import", err)
	}
	return stats, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// EnsureSchema creates missing tables on the connected database.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return EnsureSchema(ctx, db, s.dialect)
}

// Import loads ds into the connected database.
func (s *SQLStore) Import(ctx context.Context, ds *Dataset) (ImportStats, error) {
	db, err := s.conn()
	if err != nil {
		return ImportStats{}, err
	}
	return Import(ctx, db, s.dialect, ds)
}
