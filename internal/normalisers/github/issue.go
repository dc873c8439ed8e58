// Package github normalises issue and pull-request records into
// content nodes.
package github

import (
	"encoding/json"
	"fmt"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/core/ports/driven"
	"github.com/hedgehq/sitenodes/internal/feeds/github"
	"github.com/hedgehq/sitenodes/internal/logger"
)

// record is the slice of the GitHub REST shape both normalisers read.
type record struct {
	HTMLURL  string `json:"html_url"`
	Title    string `json:"title"`
	Number   int    `json:"number"`
	Comments *int   `json:"comments"`
	User     *struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
		HTMLURL   string `json:"html_url"`
	} `json:"user"`
}

// fields maps a record into the node field bag consumed by templates.
func (r record) fields() map[string]any {
	f := map[string]any{
		"url":    r.HTMLURL,
		"title":  r.Title,
		"number": r.Number,
	}
	if r.Comments != nil {
		f["comments"] = *r.Comments
	}
	if r.User != nil {
		f["user"] = map[string]any{
			"username": r.User.Login,
			"avatar":   r.User.AvatarURL,
			"url":      r.User.HTMLURL,
		}
	}
	return f
}

// Ensure IssueNormaliser implements the interface.
var _ driven.Normaliser = (*IssueNormaliser)(nil)

// IssueNormaliser maps issue records to issue nodes.
type IssueNormaliser struct{}

// NewIssueNormaliser creates an issue normaliser.
func NewIssueNormaliser() *IssueNormaliser {
	return &IssueNormaliser{}
}

// Feed returns the feed this normaliser handles.
func (n *IssueNormaliser) Feed() string {
	return github.FeedIssues
}

// Normalise produces one issue node per well-formed record.
func (n *IssueNormaliser) Normalise(records []domain.RawRecord) ([]*domain.Node, int, error) {
	return normaliseRecords(records, domain.TypeIssue)
}

// normaliseRecords is shared by the issue and pull-request normalisers;
// both feeds carry the same record shape.
func normaliseRecords(records []domain.RawRecord, t domain.NodeType) ([]*domain.Node, int, error) {
	nodes := make([]*domain.Node, 0, len(records))
	skipped := 0

	for _, raw := range records {
		var rec record
		if err := json.Unmarshal(raw.Payload, &rec); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}

		// Title is the natural key; records without one are excluded.
		if rec.Title == "" {
			skipped++
			logger.Warn("%s: skipping record #%d: missing title", raw.Feed, rec.Number)
			continue
		}

		node, err := domain.NewNode(t, rec.Title, rec.fields())
		if err != nil {
			return nil, 0, fmt.Errorf("build node: %w", err)
		}
		nodes = append(nodes, node)
	}

	return nodes, skipped, nil
}
