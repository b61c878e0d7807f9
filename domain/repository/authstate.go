package repository

import "context"

// IAuthState holds the single pending authorization state token. At most one
// value is pending at a time; Set replaces any previous one.
type IAuthState interface {
	Set(ctx context.Context, state string) error
	// Consume clears the pending state and reports whether the given value
	// matched it. A consumed state can never match again.
	Consume(ctx context.Context, state string) (bool, error)
}
