package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/popfeed/internal/feed"
)

type pageLoadedMsg struct {
	req    feed.Request
	result feed.PageResult
	err    error
}

// fetchPage runs the provider call for req off the update loop. The
// pager was already claimed by Begin, so the result always comes back as
// a pageLoadedMsg to release it.
func (a *App) fetchPage(req feed.Request) tea.Cmd {
	ctx := a.ctx
	pager := a.pager
	return func() tea.Msg {
		res, err := pager.Fetch(ctx, req)
		return pageLoadedMsg{req: req, result: res, err: err}
	}
}
