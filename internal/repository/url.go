package repository

import "context"

// URLRepository is the durable ordered list of display URLs.
// No business logic here; strictly persistence operations.
type URLRepository interface {
	// List returns every non-empty trimmed entry in insertion order.
	// An absent backing resource is an empty list, not an error.
	List(ctx context.Context) ([]string, error)

	// Add appends url after trimming it. It does not deduplicate.
	Add(ctx context.Context, url string) error

	// Remove deletes every entry exactly equal to url.
	// It returns nil when the backing resource does not exist.
	Remove(ctx context.Context, url string) error
}
