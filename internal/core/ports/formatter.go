package ports

import "context"

// Formatter renders free text as a formal complaint. Implementations may
// fail for any upstream reason; the service substitutes a deterministic
// local template on failure.
type Formatter interface {
	Format(ctx context.Context, description string) (string, error)
}
