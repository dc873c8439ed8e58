// Package sqlite provides the SQLite-backed NodeStore used by real
// builds. The database lives in the build's data directory and carries
// node digests across builds so unchanged nodes are detected on
// rebuild.
package sqlite
