package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// KindStyle colors a placement by what kind of study it is.
func KindStyle(kind domain.ActivityKind) lipgloss.Style {
	switch kind {
	case domain.KindReview:
		return StyleBlue
	case domain.KindPractice:
		return StyleGreen
	case domain.KindExam:
		return StyleRed.Bold(true)
	default:
		return StyleDim
	}
}

// StatusIndicator returns a colored marker such as "● DONE".
func StatusIndicator(status domain.PlacementStatus) string {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen.Render("● DONE")
	case domain.StatusInProgress:
		return StyleYellow.Render("● ACTIVE")
	case domain.StatusNotStarted:
		return StyleDim.Render("○ TODO")
	default:
		return StyleDim.Render("○ " + strings.ToUpper(string(status)))
	}
}

// Header renders an upper-cased section header over a dim rule.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
