// Package memory provides an in-memory NodeStore for tests and dry
// runs. Nothing survives the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// Ensure NodeStore implements the interface.
var _ driven.NodeStore = (*NodeStore)(nil)

// NodeStore is an in-memory implementation of driven.NodeStore.
type NodeStore struct {
	mu    sync.RWMutex
	nodes map[string]domain.Node
}

// NewNodeStore creates a new in-memory node store.
func NewNodeStore() *NodeStore {
	return &NodeStore{
		nodes: make(map[string]domain.Node),
	}
}

// SaveNode stores a node, reporting whether anything changed.
func (s *NodeStore) SaveNode(_ context.Context, node *domain.Node) (domain.SaveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.nodes[node.ID]
	s.nodes[node.ID] = *node

	switch {
	case !ok:
		return domain.SaveCreated, nil
	case existing.Digest == node.Digest:
		return domain.SaveUnchanged, nil
	default:
		return domain.SaveUpdated, nil
	}
}

// GetNode retrieves a node by ID.
func (s *NodeStore) GetNode(_ context.Context, id string) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &node, nil
}

// GetNodeByKey retrieves the node with the given type and natural key.
func (s *NodeStore) GetNodeByKey(_ context.Context, t domain.NodeType, naturalKey string) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[domain.NodeID(t, naturalKey)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &node, nil
}

// ListNodes returns all nodes with the given type tag, ordered by
// natural key.
func (s *NodeStore) ListNodes(_ context.Context, t domain.NodeType) ([]domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Node
	for _, node := range s.nodes {
		if node.Type == t {
			result = append(result, node)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NaturalKey < result[j].NaturalKey
	})
	return result, nil
}

// DeleteNode removes a node by ID.
func (s *NodeStore) DeleteNode(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
	return nil
}
