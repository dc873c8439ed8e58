package catalog

import (
	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// Ensure IntegrationNormaliser implements the interface.
var _ driven.Normaliser = (*IntegrationNormaliser)(nil)

// IntegrationNormaliser maps integration catalog records to nodes.
type IntegrationNormaliser struct {
	siteBaseURL string
}

// NewIntegrationNormaliser creates an integration normaliser.
// siteBaseURL is the publisher's canonical domain to strip from links.
func NewIntegrationNormaliser(siteBaseURL string) *IntegrationNormaliser {
	return &IntegrationNormaliser{siteBaseURL: siteBaseURL}
}

// Feed returns the feed this normaliser handles.
func (n *IntegrationNormaliser) Feed() string {
	return FeedIntegrations
}

// Normalise produces one integration node per named record.
func (n *IntegrationNormaliser) Normalise(records []domain.RawRecord) ([]*domain.Node, int, error) {
	decoded, skipped, err := decodeRecords(records)
	if err != nil {
		return nil, 0, err
	}

	nodes := make([]*domain.Node, 0, len(decoded))
	for _, rec := range decoded {
		node, err := buildNode(domain.TypeIntegration, FeedIntegrations, n.siteBaseURL, rec)
		if err != nil {
			return nil, 0, err
		}
		nodes = append(nodes, node)
	}

	return nodes, skipped, nil
}
