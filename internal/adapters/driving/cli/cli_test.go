package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgehq/sitenodes/internal/adapters/driven/config/file"
	"github.com/hedgehq/sitenodes/internal/core/ports/driving"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "sitenodes version dev")
}

func TestSetVersion(t *testing.T) {
	defer SetVersion("dev")

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}

func TestRenderSummary(t *testing.T) {
	t.Run("lists feeds with counts", func(t *testing.T) {
		summary := &driving.PassSummary{
			Feeds: []driving.FeedSummary{
				{Feed: "github-issues", Created: 3, Updated: 1, Unchanged: 2},
				{Feed: "integrations", Unchanged: 40, Skipped: 1},
			},
		}

		out := renderSummary(summary, false)

		assert.Contains(t, out, "github-issues")
		assert.Contains(t, out, "integrations")
		assert.Contains(t, out, "ok")
		assert.Contains(t, out, "46 nodes sourced")
	})

	t.Run("reports a failed feed", func(t *testing.T) {
		summary := &driving.PassSummary{
			Feeds: []driving.FeedSummary{
				{Feed: "api-schema", Err: errors.New("status 401")},
			},
		}

		out := renderSummary(summary, false)

		assert.Contains(t, out, "failed: status 401")
		assert.Contains(t, out, "0 nodes sourced")
	})

	t.Run("uncoloured output carries no escape codes", func(t *testing.T) {
		summary := &driving.PassSummary{
			Feeds: []driving.FeedSummary{{Feed: "plugins", Created: 1}},
		}

		out := renderSummary(summary, false)
		assert.NotContains(t, out, "\x1b[")
	})
}

func TestBuildBindings(t *testing.T) {
	t.Run("schema feed bound only with credential", func(t *testing.T) {
		cfg := &file.Config{}
		cfg.App.APIKey = "sk-test"

		withKey := buildBindings(context.Background(), cfg)
		assert.Len(t, withKey, 5)
		assert.Equal(t, "api-schema", withKey[0].Feed.Name())

		cfg.App.APIKey = ""
		withoutKey := buildBindings(context.Background(), cfg)
		assert.Len(t, withoutKey, 4)
		for _, b := range withoutKey {
			assert.NotEqual(t, "api-schema", b.Feed.Name())
		}
	})

	t.Run("every binding pairs a feed with its normaliser", func(t *testing.T) {
		cfg := &file.Config{}
		cfg.App.APIKey = "sk-test"

		for _, b := range buildBindings(context.Background(), cfg) {
			assert.Equal(t, b.Feed.Name(), b.Normaliser.Feed())
			assert.NotEmpty(t, b.Types)
		}
	})
}
