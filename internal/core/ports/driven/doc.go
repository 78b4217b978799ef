// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration
//   - RosterLoader: Reads the participant roster
//   - Renderer: Turns pairings into notification messages
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DrawStore: Draw history. Without it, draws are not remembered and
//     the previous-receiver rule has nothing to consult.
//   - Mailer: Message delivery. Without it, draws can only be dry runs or
//     stored without notification.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
