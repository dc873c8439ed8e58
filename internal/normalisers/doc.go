// Package normalisers provides implementations of the Normaliser
// interface, one per feed. Each normaliser is a pure mapping from raw
// feed records to content nodes; records missing their natural key are
// skipped and logged rather than failing the feed.
package normalisers
