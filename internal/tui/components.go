package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader lays out a title on the left and trailing content flush
// right within width.
func renderHeader(title, trailing string, width int) string {
	title = truncateEnd(title, width-lipgloss.Width(trailing)-1)
	return joinEnds(HeaderStyle.Render(title), trailing, width)
}

// joinEnds pads between left and right so the pair spans width.
func joinEnds(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

const (
	openButtonLabel     = "Open feed"
	closeButtonLabel    = "✕"
	loadMoreButtonLabel = "Load more"
)

func buttonText(label string) string {
	return "[ " + label + " ]"
}

// renderButton draws a bracketed button in its focus/disabled state.
func renderButton(label string, focused, disabled bool) string {
	text := buttonText(label)
	switch {
	case disabled:
		return DisabledStyle.Render(text)
	case focused:
		return FocusedStyle.Render(text)
	default:
		return ButtonStyle.Render(text)
	}
}

func renderMuted(text string) string {
	return MutedStyle.Render(text)
}

func renderSeparator(width int) string {
	if width < 0 {
		width = 0
	}
	return MutedStyle.Render(strings.Repeat("─", width))
}

// truncateEnd cuts s to limit runes, ending in an ellipsis when shortened.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}
