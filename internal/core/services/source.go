package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
	"github.com/hedgehq/sitenodes/internal/core/ports/driving"
	"github.com/hedgehq/sitenodes/internal/logger"
)

// Ensure SourcePass implements the interface.
var _ driving.Sourcer = (*SourcePass)(nil)

// Binding pairs a feed with its normaliser and the node types it emits.
type Binding struct {
	// Feed fetches the raw records.
	Feed driven.Feed

	// Normaliser maps the records into nodes.
	Normaliser driven.Normaliser

	// Types are the node types this binding owns. After a successful
	// re-source, nodes of these types that the feed no longer emits
	// are pruned from the store.
	Types []domain.NodeType
}

// SourcePass runs the build-time sourcing pass over a set of bindings.
type SourcePass struct {
	store    driven.NodeStore
	bindings []Binding
}

// NewSourcePass creates a sourcing pass.
func NewSourcePass(store driven.NodeStore, bindings ...Binding) *SourcePass {
	return &SourcePass{
		store:    store,
		bindings: bindings,
	}
}

// Run fetches every feed, normalises the results and saves the nodes.
// Feeds run concurrently; they share no state, so the resulting nodes
// and digests are identical to a sequential pass. A failed feed is
// recorded in its summary entry and leaves every other feed untouched.
func (s *SourcePass) Run(ctx context.Context) (*driving.PassSummary, error) {
	logger.Section("source pass")

	summary := &driving.PassSummary{
		Feeds: make([]driving.FeedSummary, len(s.bindings)),
	}

	var wg sync.WaitGroup
	for i, binding := range s.bindings {
		wg.Add(1)
		go func(i int, binding Binding) {
			defer wg.Done()
			summary.Feeds[i] = s.runFeed(ctx, binding)
		}(i, binding)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	for _, f := range summary.Feeds {
		if f.Err != nil {
			logger.Warn("feed %s failed: %v", f.Feed, f.Err)
			continue
		}
		logger.Info("feed %s: %d created, %d updated, %d unchanged, %d skipped",
			f.Feed, f.Created, f.Updated, f.Unchanged, f.Skipped)
	}

	return summary, nil
}

// runFeed executes one binding end to end.
func (s *SourcePass) runFeed(ctx context.Context, binding Binding) driving.FeedSummary {
	result := driving.FeedSummary{Feed: binding.Feed.Name()}

	logger.Debug("fetching feed %s", binding.Feed.Name())
	records, err := binding.Feed.Fetch(ctx)
	if err != nil {
		result.Err = fmt.Errorf("fetch: %w", err)
		return result
	}
	logger.Debug("feed %s: %d records", binding.Feed.Name(), len(records))

	nodes, skipped, err := binding.Normaliser.Normalise(records)
	if err != nil {
		result.Err = fmt.Errorf("normalise: %w", err)
		return result
	}
	result.Skipped = skipped

	emitted := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		outcome, err := s.store.SaveNode(ctx, node)
		if err != nil {
			result.Err = fmt.Errorf("save node %s: %w", node.ID, err)
			return result
		}
		emitted[node.ID] = struct{}{}
		switch outcome {
		case domain.SaveCreated:
			result.Created++
		case domain.SaveUpdated:
			result.Updated++
		case domain.SaveUnchanged:
			result.Unchanged++
		}
	}

	// The feed resolved successfully; prune nodes it stopped emitting.
	// A failed feed never reaches this point, so an earlier build's
	// nodes survive store-side until the feed recovers.
	for _, t := range binding.Types {
		existing, err := s.store.ListNodes(ctx, t)
		if err != nil {
			result.Err = fmt.Errorf("list %s nodes: %w", t, err)
			return result
		}
		for _, node := range existing {
			if _, ok := emitted[node.ID]; ok {
				continue
			}
			if err := s.store.DeleteNode(ctx, node.ID); err != nil {
				result.Err = fmt.Errorf("prune node %s: %w", node.ID, err)
				return result
			}
			logger.Debug("pruned stale %s node %s", t, node.NaturalKey)
		}
	}

	return result
}
