package driven

import (
	"context"

	"github.com/hedgehq/sitenodes/internal/core/domain"
)

// Feed fetches one external JSON endpoint once per build.
// Feeds share no state; any number of them may run concurrently.
type Feed interface {
	// Name returns the feed identifier used in logs and summaries.
	Name() string

	// Fetch issues the feed's request and returns its raw records.
	// A non-success outcome or malformed payload returns an error and
	// zero records; the feed emits no partial results.
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}
