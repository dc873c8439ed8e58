// Package feeds provides implementations of the Feed interface, one
// per external JSON endpoint polled during the sourcing pass.
//
// Feeds are bound to their normalisers at startup. Each feed fully
// resolves its request before its records are normalised; feeds share
// no state and may run concurrently.
package feeds
