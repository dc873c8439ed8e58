package driven

import (
	"context"

	"github.com/hedgehq/sitenodes/internal/core/domain"
)

// NodeStore persists content nodes for the duration of a build.
// Backed by SQLite for real builds, memory for tests and dry runs.
type NodeStore interface {
	// SaveNode stores a node, keyed by its ID. When a node with the
	// same ID and digest already exists the store reports
	// SaveUnchanged so downstream work can be skipped.
	SaveNode(ctx context.Context, node *domain.Node) (domain.SaveOutcome, error)

	// GetNode retrieves a node by ID.
	GetNode(ctx context.Context, id string) (*domain.Node, error)

	// GetNodeByKey retrieves the node with the given type tag and
	// natural key. This is the page renderer's query path.
	GetNodeByKey(ctx context.Context, t domain.NodeType, naturalKey string) (*domain.Node, error)

	// ListNodes returns all nodes with the given type tag.
	ListNodes(ctx context.Context, t domain.NodeType) ([]domain.Node, error)

	// DeleteNode removes a node by ID. Used to prune nodes a feed no
	// longer emits after a successful re-source.
	DeleteNode(ctx context.Context, id string) error
}
