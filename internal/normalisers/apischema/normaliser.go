// Package apischema normalises the OpenAPI-style schema feed into
// endpoint-group nodes and a single shared-components blob node.
package apischema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
	"github.com/hedgehq/sitenodes/internal/logger"
)

// FeedName is the schema feed name.
const FeedName = "api-schema"

// ComponentsKey is the natural key of the single components blob node.
const ComponentsKey = "components"

// httpVerbs lists operation keys in the order descriptors are emitted.
// Fixed ordering keeps the serialized items, and therefore the digest,
// independent of map iteration.
var httpVerbs = []string{"get", "post", "put", "patch", "delete"}

// schemaDoc is the slice of the OpenAPI document the normaliser reads.
type schemaDoc struct {
	Paths      map[string]map[string]json.RawMessage `json:"paths"`
	Components json.RawMessage                       `json:"components"`
}

// operation describes one API operation within a group.
type operation struct {
	Name     string          `json:"name"`
	HTTPVerb string          `json:"httpVerb"`
	Path     string          `json:"path"`
	Schema   json.RawMessage `json:"schema"`
}

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser groups the schema's operations by their leading path
// segment and emits one endpoint-group node per group.
type Normaliser struct{}

// New creates a schema normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Feed returns the feed this normaliser handles.
func (n *Normaliser) Feed() string {
	return FeedName
}

// Normalise maps the schema document into endpoint-group nodes plus the
// components blob. The schema feed delivers a single record.
func (n *Normaliser) Normalise(records []domain.RawRecord) ([]*domain.Node, int, error) {
	nodes := make([]*domain.Node, 0)
	skipped := 0

	for _, raw := range records {
		var doc schemaDoc
		if err := json.Unmarshal(raw.Payload, &doc); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}

		groups := groupOperations(doc.Paths)

		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			items, err := json.Marshal(groups[name])
			if err != nil {
				return nil, 0, fmt.Errorf("serialize operations: %w", err)
			}

			node, err := domain.NewNode(domain.TypeEndpointGroup, name, map[string]any{
				"name":  name,
				"url":   "/docs/api/" + name,
				"items": string(items),
			})
			if err != nil {
				return nil, 0, fmt.Errorf("build endpoint-group node: %w", err)
			}
			nodes = append(nodes, node)
		}

		if len(doc.Components) > 0 {
			node, err := domain.NewNode(domain.TypeAPIComponents, ComponentsKey, map[string]any{
				"components": string(doc.Components),
			})
			if err != nil {
				return nil, 0, fmt.Errorf("build components node: %w", err)
			}
			nodes = append(nodes, node)
		}
	}

	return nodes, skipped, nil
}

// groupOperations buckets every operation under its group name.
func groupOperations(paths map[string]map[string]json.RawMessage) map[string][]operation {
	groups := make(map[string][]operation)

	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		group := groupName(p)
		if group == "" {
			logger.Warn("%s: skipping path %q: no group segment", FeedName, p)
			continue
		}

		item := paths[p]
		for _, verb := range httpVerbs {
			schema, ok := item[verb]
			if !ok {
				continue
			}
			groups[group] = append(groups[group], operation{
				Name:     operationName(schema, verb, p),
				HTTPVerb: verb,
				Path:     p,
				Schema:   schema,
			})
		}
	}

	return groups
}

// groupName derives the group from the first path segment after the
// /api prefix, e.g. "/api/event/{id}/" belongs to "event".
func groupName(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "api" {
			continue
		}
		if strings.HasPrefix(segment, "{") {
			return ""
		}
		return segment
	}
	return ""
}

// operationName prefers the schema's operationId, falling back to a
// verb + path label.
func operationName(schema json.RawMessage, verb, path string) string {
	var op struct {
		OperationID string `json:"operationId"`
	}
	if err := json.Unmarshal(schema, &op); err == nil && op.OperationID != "" {
		return op.OperationID
	}
	return verb + " " + path
}
