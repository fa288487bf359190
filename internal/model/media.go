package model

import "time"

// MediaObject is a single uploaded file addressable by its name.
// The backing store is the source of truth; values are re-read on every listing.
type MediaObject struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	ModifiedAt  time.Time `json:"modified_at"`
}
