package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the HTTP request timeout for feed fetches.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with pagination and rate limiting.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client. An empty token means anonymous
// access, which carries a much smaller rate quota.
func NewClient(ctx context.Context, token string) *Client {
	if token == "" {
		return &Client{
			gh:          gh.NewClient(nil),
			rateLimiter: NewRateLimiter(false),
		}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(tc),
		rateLimiter: NewRateLimiter(true),
	}
}

// SetBaseURL points the client at a different API host. Used in tests.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// ListIssues lists issues for a repository across all pages.
// GitHub's issues endpoint also returns pull requests; callers filter.
func (c *Client) ListIssues(
	ctx context.Context, owner, repo string, opts *gh.IssueListByRepoOptions,
) ([]*gh.Issue, error) {
	var allIssues []*gh.Issue

	for {
		select {
		case <-ctx.Done():
			return allIssues, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, c.wrapError(err, "list issues")
		}

		c.updateRateLimitFromResponse(resp)
		allIssues = append(allIssues, issues...)

		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	return allIssues, nil
}

// ListPullRequests lists pull requests for a repository across all pages.
func (c *Client) ListPullRequests(
	ctx context.Context, owner, repo string, opts *gh.PullRequestListOptions,
) ([]*gh.PullRequest, error) {
	var allPRs []*gh.PullRequest

	for {
		select {
		case <-ctx.Done():
			return allPRs, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, c.wrapError(err, "list pull requests")
		}

		c.updateRateLimitFromResponse(resp)
		allPRs = append(allPRs, prs...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub
// response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
