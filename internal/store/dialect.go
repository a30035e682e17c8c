package store

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Dialect captures everything that differs between backends: driver,
// placeholder syntax, case-insensitive matching, the encoding of reference
// lists and the schema DDL. SQLStore is written once against it.
type Dialect interface {
	// Name is the configuration value selecting the dialect.
	Name() string
	DriverName() string

	// Rebind rewrites ? placeholders into the driver's syntax.
	Rebind(query string) string

	// ContainsFold returns a predicate matching column against one bound
	// LIKE pattern, ignoring case for all of Unicode. The pattern escapes
	// with a backslash.
	ContainsFold(column string) string

	// NewReferenceScanner returns a scan destination for a references column.
	NewReferenceScanner() ReferenceScanner

	// EncodeReferences returns the value to bind when writing a references column.
	EncodeReferences(refs []string) (any, error)

	// Schema returns the DDL statements creating every table, idempotently.
	Schema() []string

	// Configure tunes a freshly opened pool.
	Configure(db *sql.DB)
}

// ReferenceScanner decodes a stored reference list. Absent values decode to
// an empty slice.
type ReferenceScanner interface {
	Dest() any
	Strings() ([]string, error)
}

// Backend names accepted by configuration.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgresql"
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case BackendSQLite:
		return SQLite{}, nil
	case BackendPostgres, "postgres":
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: sqlite, postgresql)", name)
	}
}

// === SQLite ===

// SQLite is the embedded, file-backed dialect (modernc.org/sqlite, no cgo).
// References are stored as JSON arrays in a TEXT column.
type SQLite struct{}

func (SQLite) Name() string       { return BackendSQLite }
func (SQLite) DriverName() string { return "sqlite" }

// foldFunc is registered with the driver because SQLite's LIKE only folds
// ASCII letters.
const foldFunc = "unicode_lower"

func init() {
	err := sqlite.RegisterDeterministicScalarFunction(foldFunc, 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", foldFunc, err))
	}
}

func (SQLite) ContainsFold(column string) string {
	return fmt.Sprintf(`%s(%s) LIKE %s(?) ESCAPE '\'`, foldFunc, column, foldFunc)
}

func (SQLite) Rebind(query string) string { return query }

func (SQLite) NewReferenceScanner() ReferenceScanner { return &jsonReferences{} }

func (SQLite) EncodeReferences(refs []string) (any, error) {
	if refs == nil {
		refs = []string{}
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("marshal references: %w", err)
	}
	return string(b), nil
}

// Configure pins the pool to one connection. The store is single-writer and
// an in-memory database only exists on the connection that created it.
func (SQLite) Configure(db *sql.DB) {
	db.SetMaxOpenConns(1)
}

func (SQLite) Schema() []string {
	named := func(table string) string {
		return `CREATE TABLE IF NOT EXISTS ` + table + ` (
			uid TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			"references" TEXT
		)`
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS verses (
			uid TEXT PRIMARY KEY,
			book TEXT NOT NULL,
			chapter INTEGER NOT NULL CHECK (chapter >= 1),
			verse INTEGER NOT NULL CHECK (verse >= 1),
			text TEXT NOT NULL,
			translation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verses_book_chapter ON verses(book, chapter, verse)`,
		named("people"),
		named("places"),
		named("topics"),
		named("events"),
		`CREATE TABLE IF NOT EXISTS lexicon (
			uid TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			original TEXT NOT NULL,
			transliteration TEXT,
			definition TEXT NOT NULL,
			strongs_number TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS commentary (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			uid TEXT NOT NULL UNIQUE,
			verse_uid TEXT NOT NULL,
			author TEXT NOT NULL,
			text TEXT NOT NULL,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commentary_verse ON commentary(verse_uid)`,
		`CREATE TABLE IF NOT EXISTS verse_links (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			verse_uid TEXT NOT NULL,
			entity_uid TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			UNIQUE(verse_uid, entity_uid, entity_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verse_links_verse ON verse_links(verse_uid)`,
		`CREATE TABLE IF NOT EXISTS audio_map (
			verse_uid TEXT PRIMARY KEY,
			file_path TEXT NOT NULL,
			narrator TEXT
		)`,
	}
}

type jsonReferences struct {
	raw sql.NullString
}

func (r *jsonReferences) Dest() any { return &r.raw }

func (r *jsonReferences) Strings() ([]string, error) {
	if !r.raw.Valid || strings.TrimSpace(r.raw.String) == "" {
		return []string{}, nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(r.raw.String), &refs); err != nil {
		return nil, fmt.Errorf("decode references: %w", err)
	}
	if refs == nil {
		refs = []string{}
	}
	return refs, nil
}

// === PostgreSQL ===

// Postgres is the networked dialect (github.com/lib/pq). References are
// stored as TEXT[].
type Postgres struct{}

func (Postgres) Name() string       { return BackendPostgres }
func (Postgres) DriverName() string { return "postgres" }

func (Postgres) ContainsFold(column string) string {
	return column + ` ILIKE ? ESCAPE '\'`
}

// Rebind numbers placeholders as $1, $2, ...
func (Postgres) Rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

func (Postgres) NewReferenceScanner() ReferenceScanner { return &arrayReferences{} }

func (Postgres) EncodeReferences(refs []string) (any, error) {
	if refs == nil {
		refs = []string{}
	}
	return pq.Array(refs), nil
}

func (Postgres) Configure(db *sql.DB) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
}

func (Postgres) Schema() []string {
	named := func(table string) string {
		return `CREATE TABLE IF NOT EXISTS ` + table + ` (
			uid TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			"references" TEXT[]
		)`
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS verses (
			uid TEXT PRIMARY KEY,
			book TEXT NOT NULL,
			chapter INTEGER NOT NULL CHECK (chapter >= 1),
			verse INTEGER NOT NULL CHECK (verse >= 1),
			text TEXT NOT NULL,
			translation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verses_book_chapter ON verses(book, chapter, verse)`,
		named("people"),
		named("places"),
		named("topics"),
		named("events"),
		`CREATE TABLE IF NOT EXISTS lexicon (
			uid TEXT PRIMARY KEY,
			word TEXT NOT NULL,
			original TEXT NOT NULL,
			transliteration TEXT,
			definition TEXT NOT NULL,
			strongs_number TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS commentary (
			seq BIGSERIAL PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			verse_uid TEXT NOT NULL,
			author TEXT NOT NULL,
			text TEXT NOT NULL,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commentary_verse ON commentary(verse_uid)`,
		`CREATE TABLE IF NOT EXISTS verse_links (
			seq BIGSERIAL PRIMARY KEY,
			verse_uid TEXT NOT NULL,
			entity_uid TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			UNIQUE(verse_uid, entity_uid, entity_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verse_links_verse ON verse_links(verse_uid)`,
		`CREATE TABLE IF NOT EXISTS audio_map (
			verse_uid TEXT PRIMARY KEY,
			file_path TEXT NOT NULL,
			narrator TEXT
		)`,
	}
}

type arrayReferences struct {
	arr pq.StringArray
}

func (r *arrayReferences) Dest() any { return &r.arr }

func (r *arrayReferences) Strings() ([]string, error) {
	if r.arr == nil {
		return []string{}, nil
	}
	return []string(r.arr), nil
}
