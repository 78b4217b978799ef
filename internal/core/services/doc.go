// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The matcher, its eligibility rules and the draw orchestration live here.
// Randomness is always passed in as a *rand.Rand so a seed reproduces a draw.
package services
