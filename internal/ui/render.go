package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/josephgoksu/BibleWing/internal/store"
	"github.com/josephgoksu/BibleWing/internal/uid"
)

var sectionNames = map[uid.Category]string{
	uid.CategoryPerson:  "People",
	uid.CategoryPlace:   "Places",
	uid.CategoryTopic:   "Topics",
	uid.CategoryEvent:   "Events",
	uid.CategoryLexicon: "Word Studies",
}

// Reference formats "Book C:V".
func Reference(v store.Verse) string {
	return fmt.Sprintf("%s %d:%d", v.Book, v.Chapter, v.Verse)
}

// RenderVerse prints a verse heading and its quoted text.
func RenderVerse(w io.Writer, v store.Verse) {
	fmt.Fprintln(w, StyleReference.Render(Reference(v))+" "+StyleSubtle.Render("("+v.Translation+")"))
	fmt.Fprintln(w, StyleQuote.Render(v.Text))
}

// RenderChapter prints each verse on its own line, numbered when
// showNumbers is set.
func RenderChapter(w io.Writer, book string, chapter int, verses []store.Verse, showNumbers bool) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s %d", book, chapter)))
	fmt.Fprintln(w)
	for _, v := range verses {
		if showNumbers {
			fmt.Fprintf(w, "%s %s\n", StyleSubtle.Render(fmt.Sprintf("%3d", v.Verse)), v.Text)
			continue
		}
		fmt.Fprintln(w, v.Text)
	}
}

// RenderSearchResults lists matches with their references.
func RenderSearchResults(w io.Writer, query string, verses []store.Verse) {
	if len(verses) == 0 {
		fmt.Fprintln(w, StyleSubtle.Render(fmt.Sprintf("No verses match %q.", query)))
		return
	}
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d verse(s) matching %q", len(verses), query)))
	if len(verses) == store.SearchLimit {
		fmt.Fprintln(w, StyleWarning.Render(fmt.Sprintf("Showing the first %d results.", store.SearchLimit)))
	}
	fmt.Fprintln(w)
	for _, v := range verses {
		fmt.Fprintf(w, "%s  %s\n", StyleReference.Render(Reference(v)), v.Text)
	}
}

// RenderLinks prints each non-empty category with its entities colored by
// the palette.
func RenderLinks(w io.Writer, links store.LinkedEntitySet, p Palette) {
	if links.Len() == 0 {
		fmt.Fprintln(w, StyleSubtle.Render("No linked entities."))
		return
	}
	for _, c := range uid.LinkCategories {
		style := p.Style(c)
		var lines []string
		if c == uid.CategoryLexicon {
			for _, l := range links.Lexicon {
				line := fmt.Sprintf("%s (%s): %s", style.Render(l.Word), l.Original, l.Definition)
				if l.StrongsNumber != "" {
					line += " " + StyleSubtle.Render("["+l.StrongsNumber+"]")
				}
				lines = append(lines, line)
			}
		} else {
			for _, e := range links.Named(c) {
				line := style.Render(e.Name) + " " + StyleSubtle.Render(e.UID)
				if e.Description != "" {
					line += " - " + e.Description
				}
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintln(w, StyleSectionTitle.Render(sectionNames[c]))
		for _, line := range lines {
			fmt.Fprintln(w, "  • "+line)
		}
		fmt.Fprintln(w)
	}
}

// RenderCommentary prints commentary entries in order.
func RenderCommentary(w io.Writer, comments []store.Commentary) {
	if len(comments) == 0 {
		return
	}
	fmt.Fprintln(w, StyleSectionTitle.Render("Commentary"))
	for _, c := range comments {
		author := c.Author
		if c.Source != "" {
			author += ", " + c.Source
		}
		fmt.Fprintf(w, "  %s\n  %s\n\n", StyleTitle.Render(author), strings.TrimSpace(c.Text))
	}
}

// RenderAnswer boxes an AI answer.
func RenderAnswer(w io.Writer, answer string) {
	fmt.Fprintln(w, StyleAnswerBox.Render(strings.TrimSpace(answer)))
}
