package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

const (
	minPopupWidth  = 24
	minPopupHeight = 10

	// border + horizontal padding
	popupFrameWidth = 4
	// border only
	popupFrameHeight = 2
	// header, separator, loader, footer and help lines
	popupChromeLines = 5
)

// popupRect centers the popup box on a width×height screen.
func popupRect(width, height, maxWidth int) rect {
	w := min(width-4, maxWidth)
	if w < minPopupWidth {
		w = min(width, minPopupWidth)
	}
	h := height - 2
	if h < minPopupHeight {
		h = min(height, minPopupHeight)
	}
	return rect{x: (width - w) / 2, y: (height - h) / 2, w: w, h: h}
}

func (r rect) contentWidth() int {
	return max(1, r.w-popupFrameWidth)
}

func (r rect) feedHeight() int {
	return max(1, r.h-popupFrameHeight-popupChromeLines)
}

// nearBottom reports whether the visible window ends within threshold
// lines of the content's end.
func nearBottom(offset, visible, total, threshold int) bool {
	return offset+visible >= total-threshold
}

// contentOrigin is the top-left cell inside the popup border and padding.
func (r rect) contentOrigin() (int, int) {
	return r.x + popupFrameWidth/2, r.y + popupFrameHeight/2
}

// headerButton is the flush-right button on the popup's first line.
func (r rect) headerButton(w int) rect {
	x, y := r.contentOrigin()
	return rect{x: x + r.contentWidth() - w, y: y, w: w, h: 1}
}

// footerButton is the flush-left button below the feed and loader lines.
func (r rect) footerButton(w int) rect {
	x, y := r.contentOrigin()
	// header, separator, feed, loader
	return rect{x: x, y: y + 3 + r.feedHeight(), w: w, h: 1}
}

// locateLabel finds label in rendered text and returns its cell rectangle.
func locateLabel(rendered, label string) (rect, bool) {
	for y, line := range strings.Split(rendered, "\n") {
		plain := ansi.Strip(line)
		if idx := strings.Index(plain, label); idx >= 0 {
			return rect{x: ansi.StringWidth(plain[:idx]), y: y, w: ansi.StringWidth(label), h: 1}, true
		}
	}
	return rect{}, false
}
