package github

import (
	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
	"github.com/hedgehq/sitenodes/internal/feeds/github"
)

// Ensure PullNormaliser implements the interface.
var _ driven.Normaliser = (*PullNormaliser)(nil)

// PullNormaliser maps pull-request records to pull-request nodes.
type PullNormaliser struct{}

// NewPullNormaliser creates a pull-request normaliser.
func NewPullNormaliser() *PullNormaliser {
	return &PullNormaliser{}
}

// Feed returns the feed this normaliser handles.
func (n *PullNormaliser) Feed() string {
	return github.FeedPulls
}

// Normalise produces one pull-request node per well-formed record.
// The list endpoint omits the comment count, so pull-request nodes
// usually carry no comments field.
func (n *PullNormaliser) Normalise(records []domain.RawRecord) ([]*domain.Node, int, error) {
	return normaliseRecords(records, domain.TypePullRequest)
}
