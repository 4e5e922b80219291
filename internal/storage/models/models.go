package models

import (
	"errors"
	"time"

	"github.com/docvault/backend/internal/metadata"
)

// ErrNotFound reports that no record exists under the requested id. It is a
// distinct outcome, never conflated with an empty record.
var ErrNotFound = errors.New("record not found")

// IDPrefix tags every searchable record id.
const IDPrefix = "searchable:"

// ThumbnailPlaceholder is used until first-page thumbnail extraction exists.
const ThumbnailPlaceholder = "pdf.jpg"

// SearchableRecord is the persisted, searchable form of one uploaded binary.
// It is created once per successful ingestion and fully replaced on
// re-ingestion under the same id.
type SearchableRecord struct {
	ID           string                     `json:"id"`
	DocType      string                     `json:"docType"`
	Body         string                     `json:"body"`
	Reference    string                     `json:"reference"`
	RegisteredAt time.Time                  `json:"registeredAt"`
	Thumbnail    string                     `json:"thumbnail"`
	Metadata     metadata.CanonicalMetadata `json:"metadata"`
}

// SearchHit is one ranked match in a search response.
type SearchHit struct {
	ID           string  `json:"id"`
	Score        float64 `json:"score"`
	DocType      string  `json:"docType"`
	Thumbnail    string  `json:"thumbnail"`
	Author       string  `json:"author"`
	Highlight    string  `json:"highlights"`
	RegisteredAt int64   `json:"registeredAt"`
	CreatedAt    string  `json:"createdAt"`
	Tags         string  `json:"tags"`
	Reference    string  `json:"reference"`
}

// SearchResult is the client-facing shape of one query. Total counts every
// match in the index and may exceed len(Hits) when the result limit truncates.
type SearchResult struct {
	Total uint64      `json:"total"`
	Hits  []SearchHit `json:"hits"`
}
