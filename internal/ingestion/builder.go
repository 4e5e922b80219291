package ingestion

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docvault/backend/internal/extraction"
	"github.com/docvault/backend/internal/metadata"
	"github.com/docvault/backend/internal/storage/models"
)

// BuildRecord assembles the persisted searchable record from extractor
// output, normalized metadata, and the upload identity. Pure assembly:
// persistence and indexing happen elsewhere.
func BuildRecord(uploadID, filename string, res *extraction.Result, meta metadata.CanonicalMetadata, now time.Time) *models.SearchableRecord {
	return &models.SearchableRecord{
		ID:           models.IDPrefix + uploadID,
		DocType:      DeriveDocType(res.Format),
		Body:         res.Body,
		Reference:    filename,
		RegisteredAt: now,
		Thumbnail:    models.ThumbnailPlaceholder,
		Metadata:     meta,
	}
}

// DeriveDocType keeps the segment left of the first ';' of the detected
// format, so "application/pdf; version=1.3" becomes "application/pdf".
// An undetected format maps to "unknown".
func DeriveDocType(format string) string {
	if format == "" {
		return "unknown"
	}
	return strings.SplitN(format, ";", 2)[0]
}

// DeriveUploadID turns a filename into the sanitized upload identifier:
// lower-cased, spaces become "-", path separators become "_", and "." becomes
// "-". The ":" character is reserved for the record-type prefix, which is why
// dots do not map to it. An empty result falls back to a generated uuid.
func DeriveUploadID(filename string) string {
	id := strings.TrimSpace(filename)
	id = strings.ReplaceAll(id, " ", "-")
	id = strings.ReplaceAll(id, "/", "_")
	id = strings.ReplaceAll(id, "\\", "_")
	id = strings.ReplaceAll(id, ".", "-")
	id = strings.ToLower(id)
	if id == "" {
		return uuid.NewString()
	}
	return id
}
