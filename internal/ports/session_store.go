package ports

import (
	"context"
	"time"
)

// Session is one authenticated browser session. LoginTime anchors the
// server-side timeout check; it is not refreshed on use.
type Session struct {
	Token     string
	LoginTime time.Time
}

// Port: a boundary for storing authenticated sessions.
type SessionStore interface {
	// Store the session for at most ttl.
	Put(ctx context.Context, s Session, ttl time.Duration) error

	// Look up a session by token; absent or expired sessions yield (nil, nil).
	Get(ctx context.Context, token string) (*Session, error)

	// Remove the session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
