package driven

import (
	"context"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

// SessionStore maps opaque session identifiers to built index handles.
// The only shared mutable state in the system: implementations must support
// safe concurrent put, get and delete. One handle per key, keys never
// reused.
type SessionStore interface {
	// Put registers a session and its index handle.
	Put(ctx context.Context, session domain.Session, index ProfileIndex) error

	// Get returns the session and index handle for an ID.
	// Returns domain.ErrSessionNotFound for unknown IDs.
	Get(ctx context.Context, id string) (domain.Session, ProfileIndex, error)

	// Delete removes a session and closes its index handle.
	Delete(ctx context.Context, id string) error

	// Close closes all remaining index handles.
	Close() error
}
