package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NodeType tags a content node. The string values are the contract
// consumed by downstream page templates and must not change.
type NodeType string

const (
	// TypeEndpointGroup is one logical group of API operations.
	TypeEndpointGroup NodeType = "endpoint-group"

	// TypeAPIComponents is the single blob of shared schema components.
	TypeAPIComponents NodeType = "api-components-blob"

	// TypeIssue is an issue-tracker record.
	TypeIssue NodeType = "issue"

	// TypePullRequest is a pull-request record.
	TypePullRequest NodeType = "pull-request"

	// TypeIntegration is a partner-catalog integration record.
	TypeIntegration NodeType = "integration"

	// TypePlugin is a partner-catalog plugin record.
	TypePlugin NodeType = "plugin"
)

// AllNodeTypes returns every node type the store can hold.
func AllNodeTypes() []NodeType {
	return []NodeType{
		TypeEndpointGroup,
		TypeAPIComponents,
		TypeIssue,
		TypePullRequest,
		TypeIntegration,
		TypePlugin,
	}
}

// nodeNamespace is the UUIDv5 namespace for node identifiers.
var nodeNamespace = uuid.MustParse("9b1c6f52-7c61-4f5e-9a30-2f6d1d2b8c4a")

// Node is the unit persisted to the build-time content store.
// Nodes are immutable once created within a build.
type Node struct {
	// ID is derived deterministically from the type tag and natural key.
	ID string

	// Type is the node's type tag.
	Type NodeType

	// NaturalKey is the human-meaningful key (name or title) the ID is
	// derived from. Page templates query by (Type, NaturalKey).
	NaturalKey string

	// Digest is a deterministic hash of Fields, used by the store to
	// detect change across builds.
	Digest string

	// Fields is the type-dependent field bag.
	Fields map[string]any
}

// NewNode builds a node with its ID and digest populated.
// Returns ErrMissingNaturalKey when the natural key is empty.
func NewNode(t NodeType, naturalKey string, fields map[string]any) (*Node, error) {
	if naturalKey == "" {
		return nil, ErrMissingNaturalKey
	}

	digest, err := DigestFields(fields)
	if err != nil {
		return nil, fmt.Errorf("digest fields: %w", err)
	}

	return &Node{
		ID:         NodeID(t, naturalKey),
		Type:       t,
		NaturalKey: naturalKey,
		Digest:     digest,
		Fields:     fields,
	}, nil
}

// NodeID derives the stable identifier for a (type, natural key) pair.
func NodeID(t NodeType, naturalKey string) string {
	return uuid.NewSHA1(nodeNamespace, []byte(string(t)+"/"+naturalKey)).String()
}

// DigestFields hashes a field bag. encoding/json writes map keys in
// sorted order, so the digest depends only on field values, never on
// insertion or fetch order.
func DigestFields(fields map[string]any) (string, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
