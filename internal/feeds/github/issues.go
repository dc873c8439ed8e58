package github

import (
	"context"
	"encoding/json"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
)

// FeedIssues is the issues feed name.
const FeedIssues = "github-issues"

// Ensure IssuesFeed implements the interface.
var _ driven.Feed = (*IssuesFeed)(nil)

// IssuesFeed fetches open issues from one repository.
type IssuesFeed struct {
	owner  string
	repo   string
	client *Client
}

// NewIssuesFeed creates the issues feed for owner/repo.
func NewIssuesFeed(owner, repo string, client *Client) *IssuesFeed {
	return &IssuesFeed{owner: owner, repo: repo, client: client}
}

// Name returns the feed identifier.
func (f *IssuesFeed) Name() string {
	return FeedIssues
}

// Fetch lists the repository's open issues and returns one raw record
// per issue. Pull requests surfaced by the issues endpoint are dropped.
func (f *IssuesFeed) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "open",
		Sort:        "comments",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	issues, err := f.client.ListIssues(ctx, f.owner, f.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, err)
	}

	records := make([]domain.RawRecord, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}

		payload, err := json.Marshal(issue)
		if err != nil {
			return nil, fmt.Errorf("marshal issue: %w", err)
		}
		records = append(records, domain.RawRecord{Feed: FeedIssues, Payload: payload})
	}

	return records, nil
}
