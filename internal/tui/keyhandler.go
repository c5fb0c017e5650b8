package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/popfeed/internal/config"
	"github.com/pders01/popfeed/internal/debuglog"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch kh.app.overlay.view() {
	case ViewHost:
		return kh.handleHostKeys(msg)
	case ViewPopup:
		return kh.handlePopupKeys(msg)
	}
	return nil, nil, false
}

func (kh *KeyHandler) handleHostKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	keys := kh.app.keys

	switch {
	case key.Matches(msg, keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, keys.Open):
		return kh.app, kh.app.openPopup(), true
	case key.Matches(msg, keys.Close):
		// nothing to dismiss
		return kh.app, nil, true
	}
	return nil, nil, false
}

func (kh *KeyHandler) handlePopupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	app := kh.app
	keys := app.keys

	switch {
	case key.Matches(msg, keys.Close):
		if !app.overlay.ariaHidden {
			app.closePopup()
		}
		return app, nil, true

	case key.Matches(msg, keys.Next):
		app.cycleFocus(false)
		return app, nil, true

	case key.Matches(msg, keys.Prev):
		app.cycleFocus(true)
		return app, nil, true

	case key.Matches(msg, keys.LoadMore):
		return app, kh.requestLoad(), true

	case key.Matches(msg, keys.Quit):
		return app, tea.Quit, true

	case key.Matches(msg, keys.Activate) && app.focus != FocusFeed:
		return kh.activateFocused()
	}
	return nil, nil, false
}

// activateFocused presses whichever button holds focus.
func (kh *KeyHandler) activateFocused() (tea.Model, tea.Cmd, bool) {
	switch kh.app.focus {
	case FocusClose:
		kh.app.closePopup()
		return kh.app, nil, true
	case FocusLoadMore:
		return kh.app, kh.requestLoad(), true
	}
	return nil, nil, false
}

func (kh *KeyHandler) requestLoad() tea.Cmd {
	if !kh.app.loadMoreEnabled() {
		return nil
	}
	cmd := kh.app.loadNextPage()
	if cmd == nil && kh.app.loading() {
		kh.app.setStatus(MsgLoadBusy, StatusWarn)
		debuglog.Debugf("load-more ignored while a page is in flight")
	}
	return cmd
}

func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.overlay.hidden {
		return kh.app, kh.app.scrollHost(msg)
	}
	if kh.app.focus == FocusFeed {
		return kh.app, kh.app.scrollFeed(msg)
	}
	return kh.app, nil
}

func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	if kh.app.overlay.hidden {
		return kh.app.keys.hostHelp()
	}
	return kh.app.keys.popupHelp()
}
