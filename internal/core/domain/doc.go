// Package domain defines the core business entities for the icebreaker bot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProfileRecord: The structured result of extracting a profile page
//   - Chunk: A bounded, metadata-carrying unit indexed for retrieval
//   - Session: An opaque identifier bound to one built index
//   - RawProfile: Opaque bytes from a connector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
