package github

import (
	"context"
	"encoding/json"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// FeedPulls is the pull-request feed name.
const FeedPulls = "github-pulls"

// Ensure PullsFeed implements the interface.
var _ driven.Feed = (*PullsFeed)(nil)

// PullsFeed fetches open pull requests from one repository.
type PullsFeed struct {
	owner  string
	repo   string
	client *Client
}

// NewPullsFeed creates the pull-request feed for owner/repo.
func NewPullsFeed(owner, repo string, client *Client) *PullsFeed {
	return &PullsFeed{owner: owner, repo: repo, client: client}
}

// Name returns the feed identifier.
func (f *PullsFeed) Name() string {
	return FeedPulls
}

// Fetch lists the repository's open pull requests and returns one raw
// record per pull request.
func (f *PullsFeed) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	prs, err := f.client.ListPullRequests(ctx, f.owner, f.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, err)
	}

	records := make([]domain.RawRecord, 0, len(prs))
	for _, pr := range prs {
		payload, err := json.Marshal(pr)
		if err != nil {
			return nil, fmt.Errorf("marshal pull request: %w", err)
		}
		records = append(records, domain.RawRecord{Feed: FeedPulls, Payload: payload})
	}

	return records, nil
}
