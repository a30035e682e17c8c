package mcp

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/BibleWing/internal/app"
	"github.com/josephgoksu/BibleWing/internal/store"
	"github.com/josephgoksu/BibleWing/internal/uid"
)

// The presenter renders app results as compact Markdown for the calling
// model. internal/ui handles terminal output.

var linkHeadings = map[uid.Category]string{
	uid.CategoryPerson:  "People",
	uid.CategoryPlace:   "Places",
	uid.CategoryTopic:   "Topics",
	uid.CategoryEvent:   "Events",
	uid.CategoryLexicon: "Word Studies",
}

func reference(v store.Verse) string {
	return fmt.Sprintf("%s %d:%d", v.Book, v.Chapter, v.Verse)
}

// FormatVerse renders a verse with its links, commentary and audio path.
func FormatVerse(result *app.VerseResult) string {
	if result == nil {
		return "Verse not found."
	}
	v := result.Verse

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s (%s)\n", reference(v), v.Translation))
	sb.WriteString(fmt.Sprintf("`%s`\n\n", v.UID))
	sb.WriteString(fmt.Sprintf("> %s\n\n", v.Text))

	if result.Links.Len() > 0 {
		sb.WriteString(FormatLinks(result.Links))
		sb.WriteString("\n\n")
	}

	if len(result.Commentary) > 0 {
		sb.WriteString("### Commentary\n")
		for _, c := range result.Commentary {
			author := c.Author
			if c.Source != "" {
				author += ", " + c.Source
			}
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", author, truncate(strings.TrimSpace(c.Text), 300)))
		}
		sb.WriteString("\n")
	}

	if result.AudioPath != "" {
		sb.WriteString(fmt.Sprintf("Audio: `%s`\n", result.AudioPath))
	}
	return strings.TrimSpace(sb.String())
}

// FormatLinks renders each non-empty category as a bullet list.
func FormatLinks(links store.LinkedEntitySet) string {
	if links.Len() == 0 {
		return "No linked entities."
	}

	var sb strings.Builder
	for _, c := range uid.LinkCategories {
		if c == uid.CategoryLexicon {
			if len(links.Lexicon) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s\n", linkHeadings[c]))
			for _, l := range links.Lexicon {
				sb.WriteString(fmt.Sprintf("- **%s** (%s): %s", l.Word, l.Original, l.Definition))
				if l.StrongsNumber != "" {
					sb.WriteString(fmt.Sprintf(" [%s]", l.StrongsNumber))
				}
				sb.WriteString("\n")
			}
			continue
		}

		named := links.Named(c)
		if len(named) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n", linkHeadings[c]))
		for _, e := range named {
			sb.WriteString(fmt.Sprintf("- **%s** `%s`", e.Name, e.UID))
			if e.Description != "" {
				sb.WriteString(" - " + truncate(e.Description, 150))
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatChapter lists a chapter one numbered verse per line.
func FormatChapter(book string, chapter int, verses []store.Verse) string {
	if len(verses) == 0 {
		return fmt.Sprintf("No verses found for %s %d.", book, chapter)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s %d\n\n", book, chapter))
	for _, v := range verses {
		sb.WriteString(fmt.Sprintf("%d. %s\n", v.Verse, v.Text))
	}
	return strings.TrimSpace(sb.String())
}

// FormatSearch lists matches with their uids so the model can follow up.
func FormatSearch(result *app.SearchResult) string {
	if result == nil || result.Total == 0 {
		return "No verses found."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %d verse(s) matching %q\n", result.Total, result.Query))
	if result.Truncated {
		sb.WriteString(fmt.Sprintf("_Only the first %d matches are shown. Narrow the query for more._\n", store.SearchLimit))
	}
	sb.WriteString("\n")
	for _, v := range result.Verses {
		sb.WriteString(fmt.Sprintf("- **%s** `%s`: %s\n", reference(v), v.UID, truncate(v.Text, 200)))
	}
	return strings.TrimSpace(sb.String())
}

// FormatAnswer renders an assistant answer and the passage it was given.
func FormatAnswer(result *app.AskResult) string {
	if result == nil {
		return "No answer."
	}
	var sb strings.Builder
	sb.WriteString("## Answer\n")
	sb.WriteString(strings.TrimSpace(result.Answer))
	if result.Verse != nil {
		sb.WriteString(fmt.Sprintf("\n\n_Context: %s, %d verse(s)_", reference(*result.Verse), len(result.Context)))
	}
	return sb.String()
}

// FormatNoteWritten confirms a note export.
func FormatNoteWritten(path string) string {
	return fmt.Sprintf("Note written to `%s`.", path)
}

// === Error Formatters ===

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

// truncate shortens s to maxLen runes and adds an ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
