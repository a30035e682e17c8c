package store

import "github.com/josephgoksu/BibleWing/internal/uid"

// DefaultTranslation is reported for verses stored without a translation code.
const DefaultTranslation = "KJV"

// Verse is a single verse of one translation.
type Verse struct {
	UID         string `json:"uid" yaml:"uid"` // VR-KJV-010101-AA
	Book        string `json:"book" yaml:"book"`
	Chapter     int    `json:"chapter" yaml:"chapter"`
	Verse       int    `json:"verse" yaml:"verse"`
	Text        string `json:"text" yaml:"text"`
	Translation string `json:"translation" yaml:"translation"`
}

// NamedEntity is the shared shape of people, places, topics and events.
// Category tells them apart; it always matches the UID prefix.
type NamedEntity struct {
	UID         string       `json:"uid" yaml:"uid"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	References  []string     `json:"references" yaml:"references,omitempty"`
	Category    uid.Category `json:"-" yaml:"-"`
}

// LexiconEntry is a word study keyed by LEX- identifiers.
type LexiconEntry struct {
	UID             string `json:"uid" yaml:"uid"`
	Word            string `json:"word" yaml:"word"`
	Original        string `json:"original" yaml:"original"`
	Transliteration string `json:"transliteration,omitempty" yaml:"transliteration,omitempty"`
	Definition      string `json:"definition" yaml:"definition"`
	StrongsNumber   string `json:"strongsNumber,omitempty" yaml:"strongs_number,omitempty"`
}

// Commentary is one author's note on a verse.
type Commentary struct {
	UID      string `json:"uid" yaml:"uid"`
	VerseUID string `json:"verseUid" yaml:"verse_uid"`
	Author   string `json:"author" yaml:"author"`
	Text     string `json:"text" yaml:"text"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
}

// VerseLink is a join row between a verse and one entity.
type VerseLink struct {
	VerseUID   string       `json:"verseUid"`
	EntityUID  string       `json:"entityUid"`
	EntityType uid.Category `json:"entityType"`
}

// AudioMapping points a verse at a narrated audio file.
type AudioMapping struct {
	VerseUID string `json:"verseUid" yaml:"verse_uid"`
	FilePath string `json:"filePath" yaml:"file_path"`
	Narrator string `json:"narrator,omitempty" yaml:"narrator,omitempty"`
}

// LinkedEntitySet groups everything a verse links to, each slice in
// link-table order. Slices are empty, never nil, once resolved.
type LinkedEntitySet struct {
	People  []NamedEntity  `json:"people"`
	Places  []NamedEntity  `json:"places"`
	Topics  []NamedEntity  `json:"topics"`
	Events  []NamedEntity  `json:"events"`
	Lexicon []LexiconEntry `json:"lexicon"`
}

// NewLinkedEntitySet returns a set with all five slices allocated.
func NewLinkedEntitySet() LinkedEntitySet {
	return LinkedEntitySet{
		People:  []NamedEntity{},
		Places:  []NamedEntity{},
		Topics:  []NamedEntity{},
		Events:  []NamedEntity{},
		Lexicon: []LexiconEntry{},
	}
}

// Named returns the slice holding entities of category c.
func (s *LinkedEntitySet) Named(c uid.Category) []NamedEntity {
	switch c {
	case uid.CategoryPerson:
		return s.People
	case uid.CategoryPlace:
		return s.Places
	case uid.CategoryTopic:
		return s.Topics
	case uid.CategoryEvent:
		return s.Events
	}
	return nil
}

func (s *LinkedEntitySet) appendNamed(e NamedEntity) {
	switch e.Category {
	case uid.CategoryPerson:
		s.People = append(s.People, e)
	case uid.CategoryPlace:
		s.Places = append(s.Places, e)
	case uid.CategoryTopic:
		s.Topics = append(s.Topics, e)
	case uid.CategoryEvent:
		s.Events = append(s.Events, e)
	}
}

// Len returns the total number of resolved entities.
func (s *LinkedEntitySet) Len() int {
	return len(s.People) + len(s.Places) + len(s.Topics) + len(s.Events) + len(s.Lexicon)
}
