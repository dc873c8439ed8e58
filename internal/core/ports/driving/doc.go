// Package driving defines the interfaces through which the outside
// world drives the core.
//
// The CLI is the only driving adapter; it invokes the Sourcer once per
// build (or repeatedly in watch mode).
package driving
