package domain

import "encoding/json"

// RawRecord is one item of a fetched feed payload before normalisation.
type RawRecord struct {
	// Feed names the feed that produced this record.
	Feed string

	// Payload is the record's raw JSON.
	Payload json.RawMessage
}

// SaveOutcome reports what the store did with a node.
type SaveOutcome int

const (
	// SaveCreated indicates the node did not exist before.
	SaveCreated SaveOutcome = iota

	// SaveUpdated indicates the node existed with a different digest.
	SaveUpdated

	// SaveUnchanged indicates the digest matched; downstream work can
	// be skipped.
	SaveUnchanged
)

// String returns the outcome name for logs and summaries.
func (o SaveOutcome) String() string {
	switch o {
	case SaveCreated:
		return "created"
	case SaveUpdated:
		return "updated"
	case SaveUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}
