// Package uid parses and validates the fixed-format identifiers used for
// verses and every cross-referenced entity kind.
//
// Verse identifiers look like VR-KJV-010101-AA (translation, two-digit book,
// chapter and verse indexes, two-letter suffix). Named entities use a three
// letter prefix and a six digit sequence number, e.g. PER-000001.
package uid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Category identifies which table an identifier belongs to.
// The set is closed: only the constants below are valid.
type Category uint8

const (
	categoryInvalid Category = iota
	CategoryVerse
	CategoryPerson
	CategoryPlace
	CategoryTopic
	CategoryEvent
	CategoryLexicon
)

// LinkCategories lists the categories a verse can link to, in the order
// they appear in a resolved link set and in rendered notes.
var LinkCategories = []Category{
	CategoryPerson,
	CategoryPlace,
	CategoryTopic,
	CategoryEvent,
	CategoryLexicon,
}

var categoryInfo = map[Category]struct {
	prefix string
	tag    string
}{
	CategoryVerse:   {"VR-", "verse"},
	CategoryPerson:  {"PER-", "person"},
	CategoryPlace:   {"PLC-", "place"},
	CategoryTopic:   {"TOP-", "topic"},
	CategoryEvent:   {"EVT-", "event"},
	CategoryLexicon: {"LEX-", "lexicon"},
}

// prefixOrder is the lookup order for CategoryOf.
var prefixOrder = []Category{
	CategoryVerse,
	CategoryPerson,
	CategoryPlace,
	CategoryTopic,
	CategoryEvent,
	CategoryLexicon,
}

// String returns the tag stored in verse_links.entity_type.
func (c Category) String() string {
	if info, ok := categoryInfo[c]; ok {
		return info.tag
	}
	return "invalid"
}

// Prefix returns the identifier prefix including the trailing dash.
func (c Category) Prefix() string {
	return categoryInfo[c].prefix
}

// MarshalText encodes the category as its tag.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category tag, including "verse".
func (c *Category) UnmarshalText(text []byte) error {
	for cat, info := range categoryInfo {
		if info.tag == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", text)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

var (
	verseRe = regexp.MustCompile(`^VR-([A-Z]+)-(\d{2})(\d{2})(\d{2})-([A-Z]{2})$`)

	namedRe = map[Category]*regexp.Regexp{
		CategoryPerson:  regexp.MustCompile(`^PER-(\d{6})$`),
		CategoryPlace:   regexp.MustCompile(`^PLC-(\d{6})$`),
		CategoryTopic:   regexp.MustCompile(`^TOP-(\d{6})$`),
		CategoryEvent:   regexp.MustCompile(`^EVT-(\d{6})$`),
		CategoryLexicon: regexp.MustCompile(`^LEX-(\d{6})$`),
	}
)

// VerseID is the decoded form of a verse identifier.
type VerseID struct {
	Translation string
	Book        int
	Chapter     int
	Verse       int
	Suffix      string
}

// String rebuilds the identifier. For any VerseID produced by ParseVerse
// the result equals the parsed input.
func (v VerseID) String() string {
	return fmt.Sprintf("VR-%s-%02d%02d%02d-%s", v.Translation, v.Book, v.Chapter, v.Verse, v.Suffix)
}

// ParseVerse decodes a verse identifier. It reports false unless the whole
// string matches the verse pattern.
func ParseVerse(id string) (VerseID, bool) {
	m := verseRe.FindStringSubmatch(id)
	if m == nil {
		return VerseID{}, false
	}
	book, _ := strconv.Atoi(m[2])
	chapter, _ := strconv.Atoi(m[3])
	verse, _ := strconv.Atoi(m[4])
	return VerseID{
		Translation: m[1],
		Book:        book,
		Chapter:     chapter,
		Verse:       verse,
		Suffix:      m[5],
	}, true
}

// ParseNamed returns the sequence number of a named-entity identifier of the
// given category. It reports false on any mismatch, including a verse category.
func ParseNamed(c Category, id string) (int, bool) {
	re, ok := namedRe[c]
	if !ok {
		return 0, false
	}
	m := re.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, _ := strconv.Atoi(m[1])
	return n, true
}

func ParsePerson(id string) (int, bool)  { return ParseNamed(CategoryPerson, id) }
func ParsePlace(id string) (int, bool)   { return ParseNamed(CategoryPlace, id) }
func ParseTopic(id string) (int, bool)   { return ParseNamed(CategoryTopic, id) }
func ParseEvent(id string) (int, bool)   { return ParseNamed(CategoryEvent, id) }
func ParseLexicon(id string) (int, bool) { return ParseNamed(CategoryLexicon, id) }

// CategoryOf classifies an identifier by its prefix alone. The remainder of
// the string is not inspected.
func CategoryOf(id string) (Category, bool) {
	for _, c := range prefixOrder {
		if strings.HasPrefix(id, categoryInfo[c].prefix) {
			return c, true
		}
	}
	return categoryInvalid, false
}

// IsValid reports whether id carries a known prefix.
//
// This is a prefix check only: "PER-abc" is valid here but fails ParsePerson.
// Use Validate when the full pattern matters.
func IsValid(id string) bool {
	_, ok := CategoryOf(id)
	return ok
}

// Validate checks id against the full pattern of the category its prefix
// names.
func Validate(id string) error {
	c, ok := CategoryOf(id)
	if !ok {
		return fmt.Errorf("unknown identifier prefix: %q", id)
	}
	if c == CategoryVerse {
		if _, ok := ParseVerse(id); !ok {
			return fmt.Errorf("malformed verse identifier: %q (want VR-<TRANSLATION>-<BBCCVV>-<XX>)", id)
		}
		return nil
	}
	if _, ok := ParseNamed(c, id); !ok {
		return fmt.Errorf("malformed %s identifier: %q (want %s followed by six digits)", c, id, c.Prefix())
	}
	return nil
}

// ParseLinkType maps a stored entity_type tag onto a linkable category.
func ParseLinkType(tag string) (Category, error) {
	for _, c := range LinkCategories {
		if categoryInfo[c].tag == tag {
			return c, nil
		}
	}
	return categoryInvalid, fmt.Errorf("unknown entity type %q (supported: person, place, topic, event, lexicon)", tag)
}
