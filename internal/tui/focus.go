package tui

// nextFocus moves through elems in tab order. Advancing from the last
// element wraps to the first and reversing from the first wraps to the
// last; every other move steps to the neighbour.
func nextFocus(elems []Focus, current Focus, reverse bool) Focus {
	if len(elems) == 0 {
		return current
	}

	idx := -1
	for i, f := range elems {
		if f == current {
			idx = i
			break
		}
	}

	last := len(elems) - 1
	switch {
	case idx < 0 && reverse:
		return elems[last]
	case idx < 0:
		return elems[0]
	case reverse && idx == 0:
		return elems[last]
	case reverse:
		return elems[idx-1]
	case idx == last:
		return elems[0]
	default:
		return elems[idx+1]
	}
}

// focusables lists the popup's tab stops. A disabled load-more button is
// not a stop.
func (a *App) focusables() []Focus {
	elems := []Focus{FocusClose, FocusFeed}
	if a.loadMoreEnabled() {
		elems = append(elems, FocusLoadMore)
	}
	return elems
}

func (a *App) cycleFocus(reverse bool) {
	a.focus = nextFocus(a.focusables(), a.focus, reverse)
}
