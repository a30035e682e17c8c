package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/josephgoksu/BibleWing/internal/uid"
)

// SQLStore implements Store once for every Dialect.
type SQLStore struct {
	dialect Dialect
	dsn     string

	mu sync.RWMutex
	db *sql.DB

	resolveConcurrency int
	translation        string
}

// Option customizes a SQLStore.
type Option func(*SQLStore)

// WithResolveConcurrency lets GetLinkedEntities fetch up to n entities at a
// time. Values below 2 keep resolution sequential.
func WithResolveConcurrency(n int) Option {
	return func(s *SQLStore) { s.resolveConcurrency = n }
}

// WithTranslation sets the translation GetVersesByChapter lists. Empty
// means DefaultTranslation.
func WithTranslation(code string) Option {
	return func(s *SQLStore) { s.translation = strings.ToUpper(strings.TrimSpace(code)) }
}

// NewSQLStore creates an unconnected store for the given dialect and DSN.
func NewSQLStore(dialect Dialect, dsn string, opts ...Option) *SQLStore {
	s := &SQLStore{dialect: dialect, dsn: dsn}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the backend dialect.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

// Connect opens the pool and verifies the database answers.
func (s *SQLStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	db, err := sql.Open(s.dialect.DriverName(), s.dsn)
	if err != nil {
		return backendErr("open database", err)
	}
	s.dialect.Configure(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return backendErr("ping database", err)
	}

	s.db = db
	return nil
}

// Disconnect closes the pool. Safe to call on an unconnected store.
func (s *SQLStore) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return backendErr("close database", err)
}

// DB returns the open pool for schema management and imports.
func (s *SQLStore) DB() (*sql.DB, error) {
	return s.conn()
}

func (s *SQLStore) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotConnected
	}
	return s.db, nil
}

func (s *SQLStore) query(ctx context.Context, db *sql.DB, q string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, s.dialect.Rebind(q), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, db *sql.DB, q string, args ...any) *sql.Row {
	return db.QueryRowContext(ctx, s.dialect.Rebind(q), args...)
}

// === Verses ===

const verseColumns = `uid, book, chapter, verse, text, translation`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerse(r rowScanner) (Verse, error) {
	var v Verse
	var translation sql.NullString
	if err := r.Scan(&v.UID, &v.Book, &v.Chapter, &v.Verse, &v.Text, &translation); err != nil {
		return Verse{}, err
	}
	v.Translation = translation.String
	if v.Translation == "" {
		v.Translation = DefaultTranslation
	}
	return v, nil
}

func (s *SQLStore) GetVerse(ctx context.Context, verseUID string) (*Verse, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	v, err := scanVerse(s.queryRow(ctx, db, `SELECT `+verseColumns+` FROM verses WHERE uid = ?`, verseUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, backendErr("get verse", err)
	}
	return &v, nil
}

func (s *SQLStore) GetVersesByChapter(ctx context.Context, book string, chapter int) ([]Verse, error) {
	return s.GetVersesByChapterIn(ctx, s.translation, book, chapter)
}

// GetVersesByChapterIn lists one chapter of one translation. Rows stored
// without a translation count as DefaultTranslation.
func (s *SQLStore) GetVersesByChapterIn(ctx context.Context, translation, book string, chapter int) ([]Verse, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if translation == "" {
		translation = DefaultTranslation
	}
	return s.listVerses(ctx, db, "get chapter",
		`SELECT `+verseColumns+` FROM verses
		WHERE book = ? AND chapter = ? AND COALESCE(NULLIF(translation, ''), '`+DefaultTranslation+`') = ?
		ORDER BY verse, uid`,
		book, chapter, translation)
}

func (s *SQLStore) SearchVerses(ctx context.Context, query string) ([]Verse, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	pattern := "%" + escapeLike(query) + "%"
	q := fmt.Sprintf(`SELECT %s FROM verses WHERE %s ORDER BY uid LIMIT %d`,
		verseColumns, s.dialect.ContainsFold("text"), SearchLimit)
	return s.listVerses(ctx, db, "search verses", q, pattern)
}

func (s *SQLStore) listVerses(ctx context.Context, db *sql.DB, op, q string, args ...any) ([]Verse, error) {
	rows, err := s.query(ctx, db, q, args...)
	if err != nil {
		return nil, backendErr(op, err)
	}
	defer func() { _ = rows.Close() }()

	verses := []Verse{}
	for rows.Next() {
		v, err := scanVerse(rows)
		if err != nil {
			return nil, backendErr(op, fmt.Errorf("scan verse: %w", err))
		}
		verses = append(verses, v)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, backendErr(op, err)
	}
	return verses, nil
}

// escapeLike makes query match literally inside a LIKE pattern.
func escapeLike(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(query)
}

// === Entities ===

var namedTables = map[uid.Category]string{
	uid.CategoryPerson: "people",
	uid.CategoryPlace:  "places",
	uid.CategoryTopic:  "topics",
	uid.CategoryEvent:  "events",
}

// GetNamedEntity fetches a person, place, topic or event from the table of
// category c.
func (s *SQLStore) GetNamedEntity(ctx context.Context, c uid.Category, id string) (*NamedEntity, error) {
	table, ok := namedTables[c]
	if !ok {
		return nil, fmt.Errorf("category %s has no named-entity table", c)
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	e := NamedEntity{Category: c}
	var description sql.NullString
	refs := s.dialect.NewReferenceScanner()
	err = s.queryRow(ctx, db,
		`SELECT uid, name, description, "references" FROM `+table+` WHERE uid = ?`, id,
	).Scan(&e.UID, &e.Name, &description, refs.Dest())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	op := "get " + c.String()
	if err != nil {
		return nil, backendErr(op, err)
	}
	e.Description = description.String
	if e.References, err = refs.Strings(); err != nil {
		return nil, backendErr(op, fmt.Errorf("%s: %w", id, err))
	}
	return &e, nil
}

func (s *SQLStore) GetPerson(ctx context.Context, id string) (*NamedEntity, error) {
	return s.GetNamedEntity(ctx, uid.CategoryPerson, id)
}

func (s *SQLStore) GetPlace(ctx context.Context, id string) (*NamedEntity, error) {
	return s.GetNamedEntity(ctx, uid.CategoryPlace, id)
}

func (s *SQLStore) GetTopic(ctx context.Context, id string) (*NamedEntity, error) {
	return s.GetNamedEntity(ctx, uid.CategoryTopic, id)
}

func (s *SQLStore) GetEvent(ctx context.Context, id string) (*NamedEntity, error) {
	return s.GetNamedEntity(ctx, uid.CategoryEvent, id)
}

func (s *SQLStore) GetLexiconEntry(ctx context.Context, id string) (*LexiconEntry, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var l LexiconEntry
	var translit, strongs sql.NullString
	err = s.queryRow(ctx, db,
		`SELECT uid, word, original, transliteration, definition, strongs_number FROM lexicon WHERE uid = ?`, id,
	).Scan(&l.UID, &l.Word, &l.Original, &translit, &l.Definition, &strongs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, backendErr("get lexicon entry", err)
	}
	l.Transliteration = translit.String
	l.StrongsNumber = strongs.String
	return &l, nil
}

// === Links ===

func (s *SQLStore) GetVerseLinks(ctx context.Context, verseUID string) ([]VerseLink, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, db,
		`SELECT verse_uid, entity_uid, entity_type FROM verse_links WHERE verse_uid = ? ORDER BY seq`, verseUID)
	if err != nil {
		return nil, backendErr("get verse links", err)
	}
	defer func() { _ = rows.Close() }()

	links := []VerseLink{}
	for rows.Next() {
		var l VerseLink
		var tag string
		if err := rows.Scan(&l.VerseUID, &l.EntityUID, &tag); err != nil {
			return nil, backendErr("get verse links", fmt.Errorf("scan link: %w", err))
		}
		if l.EntityType, err = uid.ParseLinkType(tag); err != nil {
			return nil, backendErr("get verse links", fmt.Errorf("link %s -> %s: %w", l.VerseUID, l.EntityUID, err))
		}
		links = append(links, l)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, backendErr("get verse links", err)
	}
	return links, nil
}

func (s *SQLStore) GetLinkedEntities(ctx context.Context, verseUID string) (LinkedEntitySet, error) {
	return ResolveLinks(ctx, s, verseUID, WithConcurrency(s.resolveConcurrency))
}

// === Commentary & audio ===

func (s *SQLStore) GetCommentary(ctx context.Context, verseUID string) ([]Commentary, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, db,
		`SELECT uid, verse_uid, author, text, source FROM commentary WHERE verse_uid = ? ORDER BY seq`, verseUID)
	if err != nil {
		return nil, backendErr("get commentary", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Commentary{}
	for rows.Next() {
		var c Commentary
		var source sql.NullString
		if err := rows.Scan(&c.UID, &c.VerseUID, &c.Author, &c.Text, &source); err != nil {
			return nil, backendErr("get commentary", fmt.Errorf("scan commentary: %w", err))
		}
		c.Source = source.String
		out = append(out, c)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, backendErr("get commentary", err)
	}
	return out, nil
}

func (s *SQLStore) GetAudioPath(ctx context.Context, verseUID string) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}
	var path string
	err = s.queryRow(ctx, db, `SELECT file_path FROM audio_map WHERE verse_uid = ?`, verseUID).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", backendErr("get audio path", err)
	}
	return path, nil
}

var _ Store = (*SQLStore)(nil)
var _ EntityReader = (*SQLStore)(nil)
