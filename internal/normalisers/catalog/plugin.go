package catalog

import (
	"github.com/samber/lo"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// Ensure PluginNormaliser implements the interface.
var _ driven.Normaliser = (*PluginNormaliser)(nil)

// PluginNormaliser maps plugin catalog records to nodes, keeping only
// records flagged for public display.
type PluginNormaliser struct {
	siteBaseURL string
}

// NewPluginNormaliser creates a plugin normaliser.
func NewPluginNormaliser(siteBaseURL string) *PluginNormaliser {
	return &PluginNormaliser{siteBaseURL: siteBaseURL}
}

// Feed returns the feed this normaliser handles.
func (n *PluginNormaliser) Feed() string {
	return FeedPlugins
}

// Normalise produces one plugin node per named, publicly visible record.
func (n *PluginNormaliser) Normalise(records []domain.RawRecord) ([]*domain.Node, int, error) {
	decoded, skipped, err := decodeRecords(records)
	if err != nil {
		return nil, 0, err
	}

	visible := lo.Filter(decoded, func(rec map[string]any, _ int) bool {
		flag, _ := rec[visibilityField].(bool)
		return flag
	})

	nodes := make([]*domain.Node, 0, len(visible))
	for _, rec := range visible {
		node, err := buildNode(domain.TypePlugin, FeedPlugins, n.siteBaseURL, rec)
		if err != nil {
			return nil, 0, err
		}
		nodes = append(nodes, node)
	}

	return nodes, skipped, nil
}
