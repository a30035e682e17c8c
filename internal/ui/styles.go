package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/BibleWing/internal/config"
	"github.com/josephgoksu/BibleWing/internal/uid"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	StyleReference = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleQuote = lipgloss.NewStyle().
			Foreground(ColorText).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorSecondary).
			PaddingLeft(1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	StyleAnswerBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// Palette colors linked entities by category.
type Palette map[uid.Category]lipgloss.Style

// NewPalette builds a palette from the configured color scheme.
func NewPalette(c config.ColorScheme) Palette {
	color := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
	}
	return Palette{
		uid.CategoryPerson:  color(c.People),
		uid.CategoryPlace:   color(c.Places),
		uid.CategoryTopic:   color(c.Topics),
		uid.CategoryEvent:   color(c.Events),
		uid.CategoryLexicon: color(c.Lexicon),
	}
}

// Style returns the style for c, or an unstyled one.
func (p Palette) Style(c uid.Category) lipgloss.Style {
	if s, ok := p[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
