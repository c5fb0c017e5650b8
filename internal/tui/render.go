package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/popfeed/internal/feed"
)

// renderCard draws one feed item: an avatar badge beside the title, meta
// line and wrapped body text.
func renderCard(item feed.Item, width int) string {
	avatar := avatarStyle(item.ID).Render(item.Avatar())
	bodyWidth := max(8, width-lipgloss.Width(avatar)-1)

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		ItemTitleStyle.Render(truncateEnd(item.Title(), bodyWidth)),
		renderMuted(item.Meta()),
		ItemTextStyle.Width(bodyWidth).Render(item.Body()),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", body)
}

func renderCards(items []feed.Item, width int) []string {
	cards := make([]string, len(items))
	for i, item := range items {
		cards[i] = renderCard(item, width)
	}
	return cards
}

func joinCards(cards []string) string {
	return strings.Join(cards, "\n\n")
}
