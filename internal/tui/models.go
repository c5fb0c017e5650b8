package tui

// View is the top-level screen.
type View int

const (
	ViewHost View = iota
	ViewPopup
)

// Focus identifies a focusable element inside the popup, in tab order.
type Focus int

const (
	FocusClose Focus = iota
	FocusFeed
	FocusLoadMore
)

func (f Focus) String() string {
	switch f {
	case FocusClose:
		return "close"
	case FocusFeed:
		return "feed"
	case FocusLoadMore:
		return "load-more"
	default:
		return "unknown"
	}
}

// overlay mirrors the two visibility flags of the popup backdrop. Both
// flip together; the cancel key consults ariaHidden.
type overlay struct {
	hidden     bool
	ariaHidden bool
}

func (o *overlay) show() {
	o.hidden = false
	o.ariaHidden = false
}

func (o *overlay) hide() {
	o.hidden = true
	o.ariaHidden = true
}

func (o overlay) view() View {
	if o.hidden {
		return ViewHost
	}
	return ViewPopup
}
