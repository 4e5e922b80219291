// Package index defines the gateway to the full-text index. The pipeline and
// the search service talk only to this interface; the concrete engine lives
// in a subpackage.
package index

import (
	"context"

	"github.com/docvault/backend/internal/storage/models"
)

// QueryOptions shapes one free-text query. Limit bounds the number of hits
// returned regardless of match count; HighlightFields names fields for which
// matched-term fragments come back; ProjectionFields names fields whose
// stored values come back verbatim per hit.
type QueryOptions struct {
	Limit            int
	HighlightFields  []string
	ProjectionFields []string
}

// RawHit is one engine-level match before client mapping.
type RawHit struct {
	ID        string
	Score     float64
	Fragments map[string][]string
	Fields    map[string]interface{}
}

// RawResult is the engine-level query response. Total counts every match;
// Hits is ordered by descending relevance score as reported by the engine.
type RawResult struct {
	Total uint64
	Hits  []RawHit
}

// Gateway abstracts the external full-text index. Upsert fully replaces any
// document previously indexed under id. Neither operation retries
// internally; failures surface verbatim to the caller.
type Gateway interface {
	Upsert(ctx context.Context, id string, rec *models.SearchableRecord) error
	Query(ctx context.Context, text string, opts QueryOptions) (*RawResult, error)
}
