package driving

import "context"

// Sourcer runs the build-time content sourcing pass.
type Sourcer interface {
	// Run fetches every bound feed, normalises the results and saves
	// the nodes. A failed feed is recorded in the summary and does not
	// affect other feeds.
	Run(ctx context.Context) (*PassSummary, error)
}

// PassSummary reports the outcome of one sourcing pass.
type PassSummary struct {
	// Feeds holds one entry per bound feed, in binding order.
	Feeds []FeedSummary
}

// FeedSummary is the per-feed outcome of a pass.
type FeedSummary struct {
	// Feed identifies the feed.
	Feed string

	// Created, Updated and Unchanged count saved nodes by outcome.
	Created   int
	Updated   int
	Unchanged int

	// Skipped counts records excluded for a missing natural key.
	Skipped int

	// Err is the feed's failure, nil on success. A non-nil Err means
	// the feed emitted no nodes this pass.
	Err error
}

// Nodes returns the total number of nodes the feed emitted.
func (s FeedSummary) Nodes() int {
	return s.Created + s.Updated + s.Unchanged
}

// Failed reports whether any feed in the pass failed.
func (p *PassSummary) Failed() bool {
	for _, f := range p.Feeds {
		if f.Err != nil {
			return true
		}
	}
	return false
}
