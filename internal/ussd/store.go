package ussd

import (
	"context"
	"time"
)

// SessionStore defines how conversation sessions are stored and retrieved.
// Every call fully replaces or removes the record; there is no partial update
// and no compare-and-swap, callers accept last-writer-wins semantics.
type SessionStore interface {
	// Load returns the session, or (nil, nil) when the ID is unknown or the
	// entry has passed its idle TTL. Expiry is lazy, discovered here.
	Load(ctx context.Context, sessionID string) (*Session, error)

	// Save replaces the stored record and resets its idle TTL.
	Save(ctx context.Context, session *Session, ttl time.Duration) error

	// Delete removes the record. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
