package session

import "context"

// Record represents a stored session: its hashed token, its expiry and the session state itself
type Record struct {
	Token   string
	Expires int64
	State   *State
}

// Storage defines the session storage API.
// Sessions are addressed by their raw (prior hashing) cookie token.
type Storage interface {
	// GetByRawToken retrieves a session by its raw token.
	// Expired or unknown tokens yield a nil record and no error.
	GetByRawToken(ctx context.Context, rawToken string) (*Record, error)

	// Create creates a new session holding the given state and returns its raw token
	Create(ctx context.Context, state *State, expires int64) (string, error)

	// Update replaces the state of the session identified by the given raw token
	Update(ctx context.Context, rawToken string, state *State) error

	// TerminateByRawToken terminates a session by its raw token
	TerminateByRawToken(ctx context.Context, rawToken string) error

	// TerminateExpired terminates all sessions that are expired
	TerminateExpired(ctx context.Context) (int, error)
}
