// Package notes renders verse study notes as Markdown with YAML frontmatter
// and writes them into a notes vault.
package notes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/josephgoksu/BibleWing/internal/store"
	"github.com/josephgoksu/BibleWing/internal/uid"
)

// Extension is appended to every note filename.
const Extension = ".md"

const studyNotesPlaceholder = "_Add your personal study notes here..._"

var sectionTitles = map[uid.Category]string{
	uid.CategoryPerson:  "People",
	uid.CategoryPlace:   "Places",
	uid.CategoryTopic:   "Topics",
	uid.CategoryEvent:   "Events",
	uid.CategoryLexicon: "Word Studies",
}

var frontmatterKeys = map[uid.Category]string{
	uid.CategoryPerson:  "linked_people",
	uid.CategoryPlace:   "linked_places",
	uid.CategoryTopic:   "linked_topics",
	uid.CategoryEvent:   "linked_events",
	uid.CategoryLexicon: "linked_lexicon",
}

// Render produces the note for v. The output depends only on its inputs, so
// the same verse and links always give byte-identical text.
func Render(v store.Verse, links store.LinkedEntitySet) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	writeFrontmatter(&sb, v, links)
	sb.WriteString("---\n\n")
	writeBody(&sb, v, links)
	return sb.String()
}

func writeFrontmatter(sb *strings.Builder, v store.Verse, links store.LinkedEntitySet) {
	sb.WriteString(fmt.Sprintf("uid: %s\n", v.UID))
	sb.WriteString(fmt.Sprintf("book: %s\n", v.Book))
	sb.WriteString(fmt.Sprintf("chapter: %d\n", v.Chapter))
	sb.WriteString(fmt.Sprintf("verse: %d\n", v.Verse))
	sb.WriteString(fmt.Sprintf("translation: %s\n", v.Translation))

	for _, c := range uid.LinkCategories {
		ids := linkedIDs(c, links)
		if len(ids) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: [%s]\n", frontmatterKeys[c], strings.Join(ids, ", ")))
	}
}

func writeBody(sb *strings.Builder, v store.Verse, links store.LinkedEntitySet) {
	sb.WriteString(fmt.Sprintf("# %s %d:%d\n\n", v.Book, v.Chapter, v.Verse))
	sb.WriteString(fmt.Sprintf("> %s\n\n", v.Text))

	for _, c := range uid.LinkCategories {
		if c == uid.CategoryLexicon {
			if len(links.Lexicon) == 0 {
				continue
			}
			sb.WriteString("## " + sectionTitles[c] + "\n\n")
			for _, l := range links.Lexicon {
				sb.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", l.Word, l.Original, l.Definition))
			}
			sb.WriteString("\n")
			continue
		}

		entities := links.Named(c)
		if len(entities) == 0 {
			continue
		}
		sb.WriteString("## " + sectionTitles[c] + "\n\n")
		for _, e := range entities {
			sb.WriteString(fmt.Sprintf("- [[%s|%s]]\n", e.UID, e.Name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Study Notes\n\n")
	sb.WriteString(studyNotesPlaceholder + "\n\n")
}

func linkedIDs(c uid.Category, links store.LinkedEntitySet) []string {
	if c == uid.CategoryLexicon {
		ids := make([]string, 0, len(links.Lexicon))
		for _, l := range links.Lexicon {
			ids = append(ids, l.UID)
		}
		return ids
	}
	named := links.Named(c)
	ids := make([]string, 0, len(named))
	for _, e := range named {
		ids = append(ids, e.UID)
	}
	return ids
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename returns the note filename for a verse, e.g. "Song_of_Solomon_2_1.md".
// Each whitespace run in book becomes one underscore.
func Filename(book string, chapter, verse int) string {
	return fmt.Sprintf("%s_%d_%d%s", whitespace.ReplaceAllString(book, "_"), chapter, verse, Extension)
}
