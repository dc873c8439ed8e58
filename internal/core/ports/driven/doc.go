// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - Feed: Fetches one external JSON endpoint per build
//   - Normaliser: Maps raw records into content nodes
//   - NodeStore: Content node persistence for the build
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, feed, or normaliser package
package driven
