// Package domain defines the core entities of the sourcing pass.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Node: A typed content node persisted to the build-time store
//   - NodeType: The fixed enumeration of node type tags
//   - RawRecord: One raw feed item before normalisation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse. Its only external dependency is the UUID
// library used to derive deterministic node identifiers.
package domain
