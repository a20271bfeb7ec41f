package publish

import "context"

// Publisher mirrors built artifacts to an external location for dashboard
// hosting. A failed publish never fails the build; callers log and move on.
type Publisher interface {
	Publish(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Nop discards artifacts. Used when publishing is disabled.
type Nop struct{}

func (Nop) Publish(ctx context.Context, key, contentType string, body []byte) (string, error) {
	return "", nil
}
