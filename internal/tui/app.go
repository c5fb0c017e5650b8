package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/popfeed/internal/config"
	"github.com/pders01/popfeed/internal/debuglog"
	"github.com/pders01/popfeed/internal/feed"
)

// App is the feed popup controller: a host screen with an open button
// and a modal overlay holding the paged feed.
type App struct {
	ctx        context.Context
	config     *config.Config
	pager      *feed.Pager
	keyHandler *KeyHandler
	keys       keyMap
	help       help.Model
	host       viewport.Model
	feed       viewport.Model
	loader     spinner.Model
	overlay    overlay
	focus      Focus
	// scrollLocked suspends host scrolling while the popup is open.
	scrollLocked bool
	cards        []string
	// openButton is where the host's open button sits in host content.
	openButton rect
	cardWidth  int
	status     string
	statusKind StatusKind
	err        error
	width      int
	height     int
}

func NewApp(ctx context.Context, provider feed.PageProvider, cfg *config.Config) *App {
	if ctx == nil {
		ctx = context.Background()
	}

	loader := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(SecondaryColor)),
	)

	app := &App{
		ctx:     ctx,
		config:  cfg,
		pager:   feed.NewPager(provider),
		keys:    newKeyMap(cfg),
		help:    help.New(),
		host:    viewport.New(0, 0),
		feed:    viewport.New(0, 0),
		loader:  loader,
		overlay: overlay{hidden: true, ariaHidden: true},
		focus:   FocusFeed,
	}
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case pageLoadedMsg:
		a.completePage(msg)
		return a, nil

	case spinner.TickMsg:
		if !a.loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.loader, cmd = a.loader.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	a.host.Width = width
	a.host.Height = max(1, height-2)
	content := a.hostContent()
	a.host.SetContent(content)
	a.openButton, _ = locateLabel(content, buttonText(openButtonLabel))

	r := a.popupRect()
	a.feed.Width = r.contentWidth()
	a.feed.Height = r.feedHeight()
	a.help.Width = r.contentWidth()

	if w := a.feed.Width - 1; w != a.cardWidth {
		a.cardWidth = w
		a.cards = renderCards(a.pager.Items(), w)
		a.feed.SetContent(joinCards(a.cards))
	}
}

func (a *App) popupRect() rect {
	return popupRect(a.width, a.height, a.config.UI.PopupMaxWidth)
}

func (a *App) loading() bool {
	return a.pager.State().Loading
}

func (a *App) loadMoreEnabled() bool {
	return !a.pager.State().ReachedEnd
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

// openPopup shows the overlay, locks host scrolling and focuses the feed.
// An empty feed starts its first page.
func (a *App) openPopup() tea.Cmd {
	a.overlay.show()
	a.scrollLocked = true
	a.focus = FocusFeed
	debuglog.Infof("popup opened with %d items", len(a.cards))

	if len(a.cards) == 0 {
		return a.loadNextPage()
	}
	return nil
}

// closePopup hides the overlay and releases the host scroll lock. A page
// still in flight completes into the hidden feed.
func (a *App) closePopup() {
	a.overlay.hide()
	a.scrollLocked = false
	debuglog.Infof("popup closed (loading=%t)", a.loading())
}

// loadNextPage claims the pager and starts the fetch. It returns nil when
// a page is already in flight or the feed is exhausted.
func (a *App) loadNextPage() tea.Cmd {
	req, ok := a.pager.Begin()
	if !ok {
		return nil
	}
	a.err = nil
	a.setStatus(MsgLoadingPage(req.Page+1), StatusInfo)
	return tea.Batch(a.loader.Tick, a.fetchPage(req))
}

func (a *App) completePage(msg pageLoadedMsg) {
	items, err := a.pager.Complete(msg.req, msg.result, msg.err)
	a.keys.LoadMore.SetEnabled(a.loadMoreEnabled())

	switch {
	case err != nil:
		a.err = fmt.Errorf("load: %w", err)
		a.setStatus(a.err.Error(), StatusError)
	case a.pager.State().ReachedEnd:
		if a.focus == FocusLoadMore {
			a.focus = FocusFeed
		}
		a.setStatus(MsgEndOfFeed, StatusWarn)
	default:
		a.appendItems(items)
		a.setStatus(MsgItemsCount(a.pager.Len()), StatusSuccess)
	}
}

func (a *App) appendItems(items []feed.Item) {
	a.cards = append(a.cards, renderCards(items, a.cardWidth)...)
	a.feed.SetContent(joinCards(a.cards))
}

// scrollFeed forwards msg to the feed viewport. A change of offset counts
// as a scroll and near the bottom requests the next page.
func (a *App) scrollFeed(msg tea.Msg) tea.Cmd {
	before := a.feed.YOffset

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)

	if a.feed.YOffset == before {
		return cmd
	}
	if nearBottom(a.feed.YOffset, a.feed.Height, a.feed.TotalLineCount(), a.config.Scroll.Threshold) {
		return tea.Batch(cmd, a.loadNextPage())
	}
	return cmd
}

func (a *App) scrollHost(msg tea.Msg) tea.Cmd {
	if a.scrollLocked {
		return nil
	}
	var cmd tea.Cmd
	a.host, cmd = a.host.Update(msg)
	return cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	wheel := tea.MouseEvent(msg).IsWheel()
	click := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if a.overlay.hidden {
		switch {
		case wheel:
			return a.scrollHost(msg)
		case click && a.openButtonRect().contains(msg.X, msg.Y):
			return a.openPopup()
		}
		return nil
	}

	if wheel {
		return a.scrollFeed(msg)
	}
	if !click {
		return nil
	}

	switch {
	case !a.popupRect().contains(msg.X, msg.Y):
		a.closePopup()
	case a.closeButtonRect().contains(msg.X, msg.Y):
		a.closePopup()
	case a.loadMoreButtonRect().contains(msg.X, msg.Y):
		if !a.loadMoreEnabled() {
			return nil
		}
		a.focus = FocusLoadMore
		return a.keyHandler.requestLoad()
	}
	return nil
}

// openButtonRect places the host open button on screen, following the
// host viewport's scroll offset.
func (a *App) openButtonRect() rect {
	r := a.openButton
	r.y -= a.host.YOffset
	if r.w == 0 || r.y < 0 || r.y >= a.host.Height {
		return rect{}
	}
	return r
}

func (a *App) closeButtonRect() rect {
	return a.popupRect().headerButton(lipgloss.Width(renderButton(closeButtonLabel, false, false)))
}

func (a *App) loadMoreButtonRect() rect {
	return a.popupRect().footerButton(lipgloss.Width(renderButton(loadMoreButtonLabel, false, false)))
}

func (a *App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.overlay.hidden {
		return a.hostView()
	}
	return a.popupView()
}

func (a *App) hostContent() string {
	openKey := a.config.Keys.Bindings.Open
	intro := []string{
		GetWelcomeMessage(openKey),
		"",
		renderButton(openButtonLabel, true, false),
		"",
		renderMuted("The feed loads twelve entries at a time."),
		renderMuted("Scroll near the bottom of the popup to fetch the next page,"),
		renderMuted("or press the load more button."),
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, intro...))
}

func (a *App) hostView() string {
	content := lipgloss.NewStyle().
		Width(a.width).
		Height(a.host.Height).
		MaxHeight(a.host.Height).
		Render(a.host.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		renderSeparator(a.width),
		a.statusBar(a.keyHandler.GetHelpForCurrentView()),
	)
}

func (a *App) popupView() string {
	r := a.popupRect()
	width := r.contentWidth()

	closeBtn := renderButton(closeButtonLabel, a.focus == FocusClose, false)
	header := renderHeader("› feed", closeBtn, width)

	loaderLine := ""
	if a.loading() {
		loaderLine = a.loader.View() + " " + renderMuted(truncateEnd(a.status, width-2))
	} else if a.status != "" {
		prefix := ""
		if a.statusKind == StatusError {
			prefix = "✗ "
		}
		loaderLine = a.statusKind.style()(prefix + truncateEnd(a.status, width-2))
	}

	loadMore := renderButton(loadMoreButtonLabel, a.focus == FocusLoadMore, !a.loadMoreEnabled())
	count := renderMuted(MsgItemsCount(a.pager.Len()))
	footer := joinEnds(loadMore, count, width)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		renderSeparator(width),
		a.feed.View(),
		loaderLine,
		footer,
		a.help.ShortHelpView(a.keyHandler.GetHelpForCurrentView()),
	)

	box := PopupStyle.
		Width(r.w - 2).
		Height(r.h - 2).
		MaxHeight(r.h).
		Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(SurfaceColor),
	)
}

func (a *App) statusBar(bindings []key.Binding) string {
	if a.err != nil {
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(StatusErrorStyle.Render("✗ " + a.err.Error()))
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Render(a.help.ShortHelpView(bindings))
}
