package feed

import "fmt"

// Item is a single feed record. Every display field is derived from ID.
type Item struct {
	ID int `json:"id"`
}

// Avatar returns the badge letter, cycling A..Z.
func (i Item) Avatar() string {
	return string(rune('A' + i.ID%26))
}

func (i Item) Title() string {
	return fmt.Sprintf("User %d did something", 1000+i.ID)
}

// HoursAgo is never below one.
func (i Item) HoursAgo() int {
	return max(1, i.ID%24)
}

func (i Item) Meta() string {
	return fmt.Sprintf("%dh ago • automated", i.HoursAgo())
}

func (i Item) Body() string {
	return fmt.Sprintf("This is a sample feed item number %d. You can scroll to load more items automatically or click \"Load more\".", i.ID)
}

// String renders the item on one line for headless output.
func (i Item) String() string {
	return fmt.Sprintf("[%s] %s (%s) %s", i.Avatar(), i.Title(), i.Meta(), i.Body())
}

// PageResult is what a provider returns for one page request.
type PageResult struct {
	Items []Item
	End   bool
}
