package driven

import "github.com/hedgehq/sitenodes/internal/core/domain"

// Normaliser maps a feed's raw records into content nodes.
// Normalisation is pure and performs no I/O: the same records always
// produce the same nodes with the same digests.
type Normaliser interface {
	// Feed returns the name of the feed this normaliser handles.
	Feed() string

	// Normalise produces zero or more nodes from the records.
	// Records missing their natural key are skipped, not fatal; the
	// returned count reports how many were skipped.
	Normalise(records []domain.RawRecord) (nodes []*domain.Node, skipped int, err error)
}
