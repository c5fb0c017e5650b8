package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/popfeed/internal/config"
	"github.com/pders01/popfeed/internal/feed"
)

// countingProvider records every page requested of the wrapped source.
type countingProvider struct {
	mu    sync.Mutex
	inner feed.PageProvider
	pages []int
	err   error
}

func (c *countingProvider) FetchPage(ctx context.Context, page int) (feed.PageResult, error) {
	c.mu.Lock()
	c.pages = append(c.pages, page)
	err := c.err
	c.mu.Unlock()

	if err != nil {
		return feed.PageResult{}, err
	}
	return c.inner.FetchPage(ctx, page)
}

func (c *countingProvider) requested() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.pages...)
}

func newTestApp(t *testing.T) (*App, *countingProvider) {
	t.Helper()

	cfg := config.TestConfig()
	provider := &countingProvider{inner: feed.NewSimulatedSource(cfg)}
	app := NewApp(context.Background(), provider, cfg)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app, provider
}

// drain runs cmd to completion, feeding page results back into the app.
// Spinner ticks are dropped so the loop terminates.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, app, c)
		}
	case pageLoadedMsg:
		_, next := app.Update(msg)
		drain(t, app, next)
	case spinner.TickMsg:
	}
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openAndLoad(t *testing.T, app *App) {
	t.Helper()
	drain(t, app, press(app, runeKey("o")))
}

func TestNewApp_StartsClosed(t *testing.T) {
	app, provider := newTestApp(t)

	assert.True(t, app.overlay.hidden)
	assert.True(t, app.overlay.ariaHidden)
	assert.False(t, app.scrollLocked)
	assert.Equal(t, feed.State{}, app.pager.State())
	assert.Empty(t, provider.requested())
	assert.Nil(t, app.Init())
}

func TestOpenPopup_EmptyFeedLoadsFirstPage(t *testing.T) {
	app, provider := newTestApp(t)

	cmd := press(app, runeKey("o"))
	require.NotNil(t, cmd)

	assert.False(t, app.overlay.hidden)
	assert.False(t, app.overlay.ariaHidden)
	assert.True(t, app.scrollLocked)
	assert.Equal(t, FocusFeed, app.focus)
	assert.True(t, app.pager.State().Loading)

	drain(t, app, cmd)

	assert.Equal(t, []int{0}, provider.requested())
	assert.False(t, app.pager.State().Loading)
	assert.Equal(t, 1, app.pager.State().Page)
	assert.Equal(t, 12, app.pager.Len())
	assert.Len(t, app.cards, 12)
	assert.Equal(t, MsgItemsCount(12), app.status)
}

func TestOpenPopup_EnterOnHostOpens(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, cmd)
	assert.Equal(t, ViewPopup, app.overlay.view())
}

func TestReopen_KeepsStateAndDoesNotReload(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, app.overlay.hidden)
	assert.False(t, app.scrollLocked)

	cmd := press(app, runeKey("o"))
	assert.Nil(t, cmd)
	assert.False(t, app.overlay.hidden)
	assert.Equal(t, []int{0}, provider.requested())
	assert.Equal(t, 12, app.pager.Len())
	assert.Equal(t, 1, app.pager.State().Page)
}

func TestClosePopup_Idempotent(t *testing.T) {
	app, _ := newTestApp(t)
	openAndLoad(t, app)

	app.closePopup()
	app.closePopup()

	assert.True(t, app.overlay.hidden)
	assert.True(t, app.overlay.ariaHidden)
	assert.False(t, app.scrollLocked)
}

func TestEsc_WhileHiddenIsNoop(t *testing.T) {
	app, provider := newTestApp(t)

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.True(t, app.overlay.hidden)
	assert.False(t, app.scrollLocked)
	assert.Empty(t, provider.requested())
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func TestMouse_PopupClicks(t *testing.T) {
	// 80x24 screen: popup spans x 2..77, y 1..22
	tests := []struct {
		name         string
		x, y         int
		wantHidden   bool
		wantRequests []int
	}{
		{name: "top left corner", x: 0, y: 0, wantHidden: true, wantRequests: []int{0}},
		{name: "right margin", x: 79, y: 12, wantHidden: true, wantRequests: []int{0}},
		{name: "inside popup", x: 40, y: 12, wantHidden: false, wantRequests: []int{0}},
		{name: "popup border", x: 2, y: 1, wantHidden: false, wantRequests: []int{0}},
		{name: "close button", x: 72, y: 2, wantHidden: true, wantRequests: []int{0}},
		{name: "load more button", x: 8, y: 20, wantHidden: false, wantRequests: []int{0, 1}},
		{name: "beside load more button", x: 30, y: 20, wantHidden: false, wantRequests: []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, provider := newTestApp(t)
			openAndLoad(t, app)

			_, cmd := app.Update(leftClick(tt.x, tt.y))
			drain(t, app, cmd)

			assert.Equal(t, tt.wantHidden, app.overlay.hidden)
			assert.Equal(t, tt.wantHidden, app.overlay.ariaHidden)
			assert.Equal(t, tt.wantRequests, provider.requested())
		})
	}
}

func TestMouse_ButtonRectsMatchView(t *testing.T) {
	app, _ := newTestApp(t)

	r, ok := locateLabel(app.View(), buttonText(openButtonLabel))
	require.True(t, ok)
	assert.Equal(t, r, app.openButtonRect())

	openAndLoad(t, app)
	view := app.View()

	r, ok = locateLabel(view, buttonText(closeButtonLabel))
	require.True(t, ok)
	assert.True(t, app.closeButtonRect().contains(r.x, r.y))

	r, ok = locateLabel(view, buttonText(loadMoreButtonLabel))
	require.True(t, ok)
	assert.True(t, app.loadMoreButtonRect().contains(r.x, r.y))
}

func TestMouse_HostOpenButton(t *testing.T) {
	app, provider := newTestApp(t)
	btn := app.openButtonRect()
	require.NotZero(t, btn.w)

	app.Update(leftClick(0, app.height-1))
	assert.True(t, app.overlay.hidden)

	_, cmd := app.Update(leftClick(btn.x+1, btn.y))
	drain(t, app, cmd)

	assert.False(t, app.overlay.hidden)
	assert.True(t, app.scrollLocked)
	assert.Equal(t, []int{0}, provider.requested())
}

func TestMouse_DisabledLoadMoreIgnoresClick(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)
	for i := 0; i < 10 && !app.pager.State().ReachedEnd; i++ {
		drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlL}))
	}
	require.True(t, app.pager.State().ReachedEnd)

	btn := app.loadMoreButtonRect()
	_, cmd := app.Update(leftClick(btn.x, btn.y))

	assert.Nil(t, cmd)
	assert.Len(t, provider.requested(), 7)
	assert.Equal(t, FocusFeed, app.focus)
	assert.False(t, app.overlay.hidden)
}

func TestScroll_NearBottomLoadsNextPage(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)

	for i := 0; i < 20 && len(provider.requested()) < 2; i++ {
		drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyPgDown}))
	}

	assert.Equal(t, []int{0, 1}, provider.requested())
	assert.Equal(t, 24, app.pager.Len())
	assert.Equal(t, 2, app.pager.State().Page)
}

func TestScroll_WithoutMovementDoesNotLoad(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)

	// already at the top
	cmd := press(app, tea.KeyMsg{Type: tea.KeyUp})

	assert.Nil(t, cmd)
	assert.Equal(t, []int{0}, provider.requested())
}

func TestMouseWheel_ScrollsFeed(t *testing.T) {
	app, _ := newTestApp(t)
	openAndLoad(t, app)

	app.Update(tea.MouseMsg{X: 40, Y: 12, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})

	assert.Positive(t, app.feed.YOffset)
	assert.False(t, app.overlay.hidden)
}

func TestLoadMore_DoublePressIssuesOneRequest(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)

	first := press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	second := press(app, tea.KeyMsg{Type: tea.KeyCtrlL})

	require.NotNil(t, first)
	assert.Nil(t, second)
	assert.Equal(t, MsgLoadBusy, app.status)
	assert.Contains(t, app.View(), MsgLoadBusy)

	drain(t, app, first)
	assert.Equal(t, []int{0, 1}, provider.requested())
	assert.Equal(t, 24, app.pager.Len())
}

func TestLoadMore_EnterOnFocusedButton(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusLoadMore, app.focus)

	drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, []int{0, 1}, provider.requested())
}

func TestLoadMore_EndOfFeedDisablesTrigger(t *testing.T) {
	app, provider := newTestApp(t)
	openAndLoad(t, app)

	for i := 0; i < 10 && !app.pager.State().ReachedEnd; i++ {
		drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlL}))
	}

	require.True(t, app.pager.State().ReachedEnd)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, provider.requested())
	assert.Equal(t, 72, app.pager.Len())
	assert.Len(t, app.cards, 72)
	assert.False(t, app.keys.LoadMore.Enabled())
	assert.Equal(t, MsgEndOfFeed, app.status)

	assert.Nil(t, press(app, tea.KeyMsg{Type: tea.KeyCtrlL}))
	assert.Nil(t, app.loadNextPage())

	for i := 0; i < 20; i++ {
		drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyPgDown}))
	}
	assert.Len(t, provider.requested(), 7)
}

func TestLoadMore_EndMovesFocusOffButton(t *testing.T) {
	app, _ := newTestApp(t)
	openAndLoad(t, app)

	for i := 0; i < 10 && !app.pager.State().ReachedEnd; i++ {
		app.focus = FocusLoadMore
		drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))
	}

	require.True(t, app.pager.State().ReachedEnd)
	assert.Equal(t, FocusFeed, app.focus)
}

func TestLateResultAfterCloseIsAppended(t *testing.T) {
	app, provider := newTestApp(t)

	cmd := press(app, runeKey("o"))
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, app.overlay.hidden)

	drain(t, app, cmd)

	assert.True(t, app.overlay.hidden)
	assert.Equal(t, 12, app.pager.Len())
	assert.Len(t, app.cards, 12)
	assert.Equal(t, []int{0}, provider.requested())

	assert.Nil(t, press(app, runeKey("o")))
}

func TestLoadError_ReleasesGuard(t *testing.T) {
	app, provider := newTestApp(t)
	provider.err = errors.New("backend down")

	openAndLoad(t, app)

	assert.False(t, app.pager.State().Loading)
	assert.Zero(t, app.pager.State().Page)
	assert.Zero(t, app.pager.Len())
	require.Error(t, app.err)
	assert.Contains(t, app.err.Error(), "backend down")
	assert.Equal(t, StatusError, app.statusKind)

	provider.err = nil
	drain(t, app, press(app, tea.KeyMsg{Type: tea.KeyCtrlL}))

	assert.NoError(t, app.err)
	assert.Equal(t, 12, app.pager.Len())
	assert.Equal(t, []int{0, 0}, provider.requested())
}

func TestSpinnerTick_IgnoredWhenIdle(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(app.loader.Tick())
	assert.Nil(t, cmd)
}

func TestScrollLock_HostIgnoresScrollWhileOpen(t *testing.T) {
	app, _ := newTestApp(t)
	openAndLoad(t, app)

	assert.Nil(t, app.scrollHost(tea.KeyMsg{Type: tea.KeyPgDown}))
	assert.Zero(t, app.host.YOffset)
}

func TestView(t *testing.T) {
	app, _ := newTestApp(t)

	host := app.View()
	assert.Contains(t, host, "Open feed")
	assert.NotContains(t, host, "Load more")

	cmd := press(app, runeKey("o"))
	assert.Contains(t, app.View(), "Loading")

	drain(t, app, cmd)
	popup := app.View()
	assert.Contains(t, popup, "Load more")
	assert.Contains(t, popup, "✕")
	assert.Contains(t, popup, "User 1000 did something")
	assert.Contains(t, popup, "12 items")
	assert.NotContains(t, popup, "Open feed")
}

func TestView_EmptyBeforeSize(t *testing.T) {
	cfg := config.TestConfig()
	app := NewApp(context.Background(), feed.NewSimulatedSource(cfg), cfg)
	assert.Empty(t, app.View())
}

func TestResize_RerendersCards(t *testing.T) {
	app, _ := newTestApp(t)
	openAndLoad(t, app)

	app.Update(tea.WindowSizeMsg{Width: 50, Height: 30})

	r := app.popupRect()
	assert.Equal(t, r.contentWidth(), app.feed.Width)
	assert.Equal(t, r.feedHeight(), app.feed.Height)
	assert.Equal(t, r.contentWidth()-1, app.cardWidth)
	assert.Len(t, app.cards, 12)
}
