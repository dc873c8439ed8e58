package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgehq/sitenodes/internal/adapters/driven/storage/memory"
	"github.com/hedgehq/sitenodes/internal/core/domain"
)

// stubFeed returns canned payloads or a canned error.
type stubFeed struct {
	name    string
	records []domain.RawRecord
	err     error
	calls   atomic.Int32
}

func (f *stubFeed) Name() string { return f.name }

func (f *stubFeed) Fetch(_ context.Context) ([]domain.RawRecord, error) {
	f.calls.Add(1)
	return f.records, f.err
}

// stubNormaliser emits pre-built nodes regardless of input.
type stubNormaliser struct {
	feed    string
	nodes   []*domain.Node
	skipped int
	err     error
}

func (n *stubNormaliser) Feed() string { return n.feed }

func (n *stubNormaliser) Normalise(_ []domain.RawRecord) ([]*domain.Node, int, error) {
	return n.nodes, n.skipped, n.err
}

func mustNode(t *testing.T, typ domain.NodeType, key string, fields map[string]any) *domain.Node {
	t.Helper()
	node, err := domain.NewNode(typ, key, fields)
	require.NoError(t, err)
	return node
}

func issueBinding(feed *stubFeed, nodes ...*domain.Node) Binding {
	return Binding{
		Feed:       feed,
		Normaliser: &stubNormaliser{feed: feed.name, nodes: nodes},
		Types:      []domain.NodeType{domain.TypeIssue},
	}
}

func TestRun_SavesNodesAndCountsOutcomes(t *testing.T) {
	store := memory.NewNodeStore()
	a := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})
	b := mustNode(t, domain.TypeIssue, "Add dark mode", map[string]any{"number": 9})

	pass := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, a, b))

	summary, err := pass.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Feeds, 1)
	feed := summary.Feeds[0]
	assert.Equal(t, "github-issues", feed.Feed)
	assert.Equal(t, 2, feed.Created)
	assert.Zero(t, feed.Updated)
	assert.Zero(t, feed.Unchanged)
	assert.False(t, summary.Failed())

	stored, err := store.GetNode(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Digest, stored.Digest)
}

func TestRun_SecondPassReportsUnchanged(t *testing.T) {
	store := memory.NewNodeStore()
	node := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})

	pass := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, node))

	_, err := pass.Run(context.Background())
	require.NoError(t, err)

	summary, err := pass.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Feeds[0].Created)
	assert.Equal(t, 1, summary.Feeds[0].Unchanged)
}

func TestRun_ChangedFieldsReportUpdated(t *testing.T) {
	store := memory.NewNodeStore()
	before := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"comments": 4})
	after := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"comments": 5})
	require.Equal(t, before.ID, after.ID)
	require.NotEqual(t, before.Digest, after.Digest)

	_, err := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, before)).
		Run(context.Background())
	require.NoError(t, err)

	summary, err := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, after)).
		Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Feeds[0].Updated)
}

func TestRun_FailedFeedIsIsolated(t *testing.T) {
	store := memory.NewNodeStore()
	node := mustNode(t, domain.TypeIntegration, "stripe", map[string]any{"name": "stripe"})

	broken := Binding{
		Feed:       &stubFeed{name: "github-issues", err: errors.New("boom")},
		Normaliser: &stubNormaliser{feed: "github-issues"},
		Types:      []domain.NodeType{domain.TypeIssue},
	}
	healthy := Binding{
		Feed:       &stubFeed{name: "integrations"},
		Normaliser: &stubNormaliser{feed: "integrations", nodes: []*domain.Node{node}},
		Types:      []domain.NodeType{domain.TypeIntegration},
	}

	summary, err := NewSourcePass(store, broken, healthy).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.Failed())
	assert.Error(t, summary.Feeds[0].Err)
	assert.Zero(t, summary.Feeds[0].Nodes())

	require.NoError(t, summary.Feeds[1].Err)
	assert.Equal(t, 1, summary.Feeds[1].Created)

	_, err = store.GetNode(context.Background(), node.ID)
	assert.NoError(t, err)
}

func TestRun_FailedFeedKeepsPriorNodes(t *testing.T) {
	store := memory.NewNodeStore()
	node := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})

	_, err := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, node)).
		Run(context.Background())
	require.NoError(t, err)

	failing := Binding{
		Feed:       &stubFeed{name: "github-issues", err: errors.New("unreachable")},
		Normaliser: &stubNormaliser{feed: "github-issues"},
		Types:      []domain.NodeType{domain.TypeIssue},
	}
	summary, err := NewSourcePass(store, failing).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Failed())

	stored, err := store.GetNode(context.Background(), node.ID)
	require.NoError(t, err)
	assert.Equal(t, node.Digest, stored.Digest)
}

func TestRun_PrunesStaleNodes(t *testing.T) {
	store := memory.NewNodeStore()
	kept := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})
	stale := mustNode(t, domain.TypeIssue, "Closed since last build", map[string]any{"number": 3})

	_, err := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, kept, stale)).
		Run(context.Background())
	require.NoError(t, err)

	_, err = NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, kept)).
		Run(context.Background())
	require.NoError(t, err)

	nodes, err := store.ListNodes(context.Background(), domain.TypeIssue)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, kept.ID, nodes[0].ID)
}

func TestRun_PruneRespectsTypeOwnership(t *testing.T) {
	store := memory.NewNodeStore()
	issue := mustNode(t, domain.TypeIssue, "Docs search is broken", map[string]any{"number": 12})
	plugin := mustNode(t, domain.TypePlugin, "s3-export", map[string]any{"name": "s3-export"})

	_, err := store.SaveNode(context.Background(), plugin)
	require.NoError(t, err)

	_, err = NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}, issue)).
		Run(context.Background())
	require.NoError(t, err)

	_, err = store.GetNode(context.Background(), plugin.ID)
	assert.NoError(t, err)
}

func TestRun_NormaliserErrorRecorded(t *testing.T) {
	store := memory.NewNodeStore()

	binding := Binding{
		Feed: &stubFeed{name: "integrations"},
		Normaliser: &stubNormaliser{
			feed: "integrations",
			err:  domain.ErrMalformedPayload,
		},
		Types: []domain.NodeType{domain.TypeIntegration},
	}

	summary, err := NewSourcePass(store, binding).Run(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, summary.Feeds[0].Err, domain.ErrMalformedPayload)
}

func TestRun_SkippedCountSurfaces(t *testing.T) {
	store := memory.NewNodeStore()

	binding := Binding{
		Feed:       &stubFeed{name: "integrations"},
		Normaliser: &stubNormaliser{feed: "integrations", skipped: 3},
		Types:      []domain.NodeType{domain.TypeIntegration},
	}

	summary, err := NewSourcePass(store, binding).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Feeds[0].Skipped)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := memory.NewNodeStore()
	pass := NewSourcePass(store, issueBinding(&stubFeed{name: "github-issues"}))

	_, err := pass.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_FeedsRunOnce(t *testing.T) {
	store := memory.NewNodeStore()
	feedA := &stubFeed{name: "github-issues"}
	feedB := &stubFeed{name: "github-pulls"}

	bindings := []Binding{
		issueBinding(feedA),
		{
			Feed:       feedB,
			Normaliser: &stubNormaliser{feed: feedB.name},
			Types:      []domain.NodeType{domain.TypePullRequest},
		},
	}

	_, err := NewSourcePass(store, bindings...).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), feedA.calls.Load())
	assert.Equal(t, int32(1), feedB.calls.Load())
}
