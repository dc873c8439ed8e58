// Package catalog normalises the partner catalogs (integrations and
// plugins) into content nodes.
//
// Catalog records are pass-through with two adjustments: the partner's
// absolute URL is rewritten site-relative, and upstream keys outside
// the known allow-list are logged so schema drift is loud instead of
// silent.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/hedgehq/sitenodes/internal/core/domain"
	"github.com/hedgehq/sitenodes/internal/logger"
)

// Feed names for the two catalogs.
const (
	FeedIntegrations = "integrations-catalog"
	FeedPlugins      = "plugins-catalog"
)

// visibilityField flags plugin records approved for public display.
const visibilityField = "showInLibrary"

// knownFields is the allow-list of upstream catalog keys. Keys outside
// this list still reach the node's field bag, but each one is logged.
var knownFields = []string{
	"name",
	"url",
	"description",
	"image",
	"icon",
	"category",
	"maintainer",
	"verified",
	visibilityField,
}

// decodeRecords parses catalog records, skipping those without a name.
func decodeRecords(records []domain.RawRecord) ([]map[string]any, int, error) {
	decoded := make([]map[string]any, 0, len(records))
	skipped := 0

	for _, raw := range records {
		var rec map[string]any
		if err := json.Unmarshal(raw.Payload, &rec); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}

		if name, _ := rec["name"].(string); name == "" {
			skipped++
			logger.Warn("%s: skipping record: missing name", raw.Feed)
			continue
		}

		decoded = append(decoded, rec)
	}

	return decoded, skipped, nil
}

// buildNode maps one catalog record into a node of the given type.
func buildNode(t domain.NodeType, feed, siteBaseURL string, rec map[string]any) (*domain.Node, error) {
	name, _ := rec["name"].(string)

	fields := make(map[string]any, len(rec))
	for key, value := range rec {
		if !lo.Contains(knownFields, key) {
			logger.Warn("%s: unknown catalog field %q on %q", feed, key, name)
		}
		fields[key] = value
	}

	if url, ok := fields["url"].(string); ok {
		fields["url"] = RewriteURL(siteBaseURL, url)
	}

	return domain.NewNode(t, name, fields)
}
