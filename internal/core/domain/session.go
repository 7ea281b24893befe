package domain

import "time"

// Session ties an opaque identifier to a built profile index. The identifier
// is minted once per successful index build and is used purely as a map key
// by the chat layer; keys are never reused.
type Session struct {
	// ID is the opaque unique session identifier.
	ID string

	// Subject is the profile subject's display name.
	Subject string

	// Source is the origin locator of the processed profile.
	Source string

	// ChunkCount is the number of chunks indexed for this session.
	ChunkCount int

	// CreatedAt is when the index build completed.
	CreatedAt time.Time
}
