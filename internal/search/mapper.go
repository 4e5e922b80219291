package search

import (
	"strings"

	"github.com/docvault/backend/internal/index"
	"github.com/docvault/backend/internal/storage/models"
)

// MapResult translates the engine's raw query response into the
// client-facing shape. Per hit: id and score are copied verbatim, the
// highlight is the body fragments joined by a single space in engine order,
// and projected field values are copied as returned. Fields absent from the
// projection stay zero.
func MapResult(raw *index.RawResult) *models.SearchResult {
	result := &models.SearchResult{
		Total: raw.Total,
		Hits:  make([]models.SearchHit, 0, len(raw.Hits)),
	}

	for _, hit := range raw.Hits {
		result.Hits = append(result.Hits, models.SearchHit{
			ID:           hit.ID,
			Score:        hit.Score,
			Highlight:    strings.Join(hit.Fragments["body"], " "),
			DocType:      fieldString(hit.Fields, "docType"),
			Thumbnail:    fieldString(hit.Fields, "thumbnail"),
			Author:       fieldString(hit.Fields, "author"),
			CreatedAt:    fieldString(hit.Fields, "createdAt"),
			Tags:         fieldString(hit.Fields, "keywords"),
			Reference:    fieldString(hit.Fields, "reference"),
			RegisteredAt: fieldInt64(hit.Fields, "registeredAt"),
		})
	}

	return result
}

// fieldString renders one projected value. Multi-valued fields are joined
// with ", "; engines may also return a single-element value unwrapped.
func fieldString(fields map[string]interface{}, name string) string {
	switch val := fields[name].(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, v := range val {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// fieldInt64 reads a numeric projected value; engines typically hand numbers
// back as float64.
func fieldInt64(fields map[string]interface{}, name string) int64 {
	switch val := fields[name].(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	}
	return 0
}
