package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/popfeed/internal/config"
)

type keyMap struct {
	Open     key.Binding
	Close    key.Binding
	LoadMore key.Binding
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Scroll   key.Binding
	Quit     key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	b := cfg.Keys.Bindings
	modifier := cfg.Keys.Modifier + "+"

	return keyMap{
		Open:     key.NewBinding(key.WithKeys(b.Open, "enter"), key.WithHelp(b.Open, "open feed")),
		Close:    key.NewBinding(key.WithKeys(b.Close), key.WithHelp(b.Close, "close")),
		LoadMore: key.NewBinding(key.WithKeys(modifier+b.LoadMore), key.WithHelp(modifier+b.LoadMore, "load more")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press")),
		Scroll:   key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑↓", "scroll")),
		Quit:     key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
	}
}

func (k keyMap) hostHelp() []key.Binding {
	return []key.Binding{k.Open, k.Scroll, k.Quit}
}

func (k keyMap) popupHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Activate, k.LoadMore, k.Close}
}
