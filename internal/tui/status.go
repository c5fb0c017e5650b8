package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgEndOfFeed = "End of feed"
	MsgLoadBusy  = "Already loading…"
)

func MsgLoadingPage(page int) string {
	return fmt.Sprintf("Loading page %d…", page)
}

func MsgItemsCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
