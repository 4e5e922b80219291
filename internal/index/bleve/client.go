// Package bleve implements the full-text index gateway on an embedded bleve
// index.
package bleve

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/index"
	"github.com/docvault/backend/internal/storage/models"
	"github.com/docvault/backend/pkg/logger"
)

// Client is an index.Gateway backed by a bleve index on disk. The index
// handle is safe for concurrent readers and writers; visibility of an upsert
// to subsequent queries follows bleve's own consistency model.
type Client struct {
	idx bleve.Index
}

var _ index.Gateway = (*Client)(nil)

// NewClient opens the index at path, creating it with the record mapping on
// first use.
func NewClient(path string) (*Client, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		idx, err := bleve.New(path, recordMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
		logger.Info("search index created", zap.String("path", path))
		return &Client{idx: idx}, nil
	}

	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	logger.Info("search index opened", zap.String("path", path))
	return &Client{idx: idx}, nil
}

// NewInMemory builds an index that lives only in process memory.
func NewInMemory() (*Client, error) {
	idx, err := bleve.NewMemOnly(recordMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return &Client{idx: idx}, nil
}

func (c *Client) Close() error {
	return c.idx.Close()
}

// recordMapping stores every projected field so queries can return values
// verbatim, and keeps term vectors on the body for highlighting. Overflow
// metadata keys fall through to the dynamic default mapping.
func recordMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Store = true

	body := bleve.NewTextFieldMapping()
	body.Store = true
	body.IncludeTermVectors = true

	numeric := bleve.NewNumericFieldMapping()
	numeric.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("body", body)
	doc.AddFieldMappingsAt("docType", text)
	doc.AddFieldMappingsAt("reference", text)
	doc.AddFieldMappingsAt("thumbnail", text)
	doc.AddFieldMappingsAt("author", text)
	doc.AddFieldMappingsAt("createdAt", text)
	doc.AddFieldMappingsAt("lastUpdatedAt", text)
	doc.AddFieldMappingsAt("lastUpdatedBy", text)
	doc.AddFieldMappingsAt("keywords", text)
	doc.AddFieldMappingsAt("registeredAt", numeric)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

// Upsert indexes the record under id, replacing any prior document.
func (c *Client) Upsert(ctx context.Context, id string, rec *models.SearchableRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.idx.Index(id, flatten(rec)); err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", id, err)
	}
	return nil
}

// Query runs a free-text query-string search and returns the raw engine
// response: total match count plus score-ordered hits with fragments and
// projected field values.
func (c *Client) Query(ctx context.Context, text string, opts index.QueryOptions) (*index.RawResult, error) {
	q := bleve.NewQueryStringQuery(text)
	req := bleve.NewSearchRequestOptions(q, opts.Limit, 0, false)
	req.Fields = opts.ProjectionFields
	if len(opts.HighlightFields) > 0 {
		req.Highlight = bleve.NewHighlight()
		for _, field := range opts.HighlightFields {
			req.Highlight.AddField(field)
		}
	}

	sr, err := c.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	result := &index.RawResult{
		Total: sr.Total,
		Hits:  make([]index.RawHit, 0, len(sr.Hits)),
	}
	for _, hit := range sr.Hits {
		result.Hits = append(result.Hits, index.RawHit{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
			Fields:    hit.Fields,
		})
	}
	return result, nil
}

// reservedFields are the flattened record's own keys. Overflow metadata may
// not shadow them.
var reservedFields = map[string]struct{}{
	"body": {}, "docType": {}, "reference": {}, "thumbnail": {},
	"registeredAt": {}, "author": {}, "createdAt": {},
	"lastUpdatedAt": {}, "lastUpdatedBy": {}, "keywords": {},
}

// flatten lays the record out as a single-level document: canonical metadata
// fields at the top level with the overflow map merged alongside them.
func flatten(rec *models.SearchableRecord) map[string]interface{} {
	doc := map[string]interface{}{
		"body":          rec.Body,
		"docType":       rec.DocType,
		"reference":     rec.Reference,
		"thumbnail":     rec.Thumbnail,
		"registeredAt":  rec.RegisteredAt.Unix(),
		"author":        rec.Metadata.Author,
		"createdAt":     rec.Metadata.CreatedAt,
		"lastUpdatedAt": rec.Metadata.LastUpdatedAt,
		"lastUpdatedBy": rec.Metadata.LastUpdatedBy,
		"keywords":      rec.Metadata.Keywords,
	}

	for key, val := range rec.Metadata.Others {
		if _, ok := reservedFields[key]; ok {
			logger.Debug("overflow key shadows record field, skipping", zap.String("key", key))
			continue
		}
		if val.IsList() {
			doc[key] = val.Strings()
		} else {
			doc[key] = val.String()
		}
	}

	return doc
}
