// Package domain defines the core business entities for Santa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Participant: A player in the gift exchange
//   - Pair / Pairing: Giver to receiver assignments for one run
//   - Draw: A stored pairing run with its metadata
//   - Message: A rendered notification ready for delivery
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
