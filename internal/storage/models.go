package storage

import (
	"time"
)

// Record is a stored feed entry. Only the id carries meaning; the rest of
// the display is derived from it.
type Record struct {
	ID       int       `json:"id"`
	SeededAt time.Time `json:"seeded_at"`
}
