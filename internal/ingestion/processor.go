package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/docvault/backend/internal/extraction"
	"github.com/docvault/backend/internal/metadata"
	"github.com/docvault/backend/internal/metrics"
	"github.com/docvault/backend/internal/storage/models"
	"github.com/docvault/backend/pkg/logger"
)

// ErrExtraction marks ingestion failures caused by content extraction:
// unsupported format, corrupt input, or a stream-read failure. The upload is
// rejected whole; no record is written.
var ErrExtraction = errors.New("content extraction failed")

// RecordStore persists searchable records keyed by id. Upserts fully replace
// any prior record under the same id.
type RecordStore interface {
	UpsertRecord(ctx context.Context, rec *models.SearchableRecord) error
}

// RecordIndex accepts records into the full-text index. Upserts are
// idempotent per id.
type RecordIndex interface {
	Upsert(ctx context.Context, id string, rec *models.SearchableRecord) error
}

// SearchCache is notified after a successful ingestion so stale search
// responses get dropped. Failures here are logged, never propagated.
type SearchCache interface {
	InvalidateSearch(ctx context.Context) error
}

// Upload is the identity and content of one incoming file. ID is the
// sanitized upload identifier (see DeriveUploadID); the upload-handling layer
// has already rejected empty files and path-traversal filenames.
type Upload struct {
	ID       string
	Filename string
	Content  io.Reader
}

// Processor runs the extraction-normalization-indexing pipeline. It holds no
// mutable state and is safe for concurrent ingestions; concurrent upserts of
// the same id race with last-writer-wins semantics.
type Processor struct {
	extractor  extraction.Extractor
	normalizer *metadata.Normalizer
	store      RecordStore
	index      RecordIndex
	cache      SearchCache
}

func NewProcessor(extractor extraction.Extractor, normalizer *metadata.Normalizer, store RecordStore, index RecordIndex, cache SearchCache) *Processor {
	return &Processor{
		extractor:  extractor,
		normalizer: normalizer,
		store:      store,
		index:      index,
		cache:      cache,
	}
}

// Ingest processes one upload end to end and returns the persisted record.
// Extraction, store, and index failures propagate unchanged; no partial
// record is written after an extraction failure, and the two writes are
// independent idempotent upserts with no transaction across them.
func (p *Processor) Ingest(ctx context.Context, upload Upload) (*models.SearchableRecord, error) {
	start := time.Now()

	res, err := p.extractor.Extract(ctx, upload.Content)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	meta := p.normalizer.Normalize(res.Metadata)
	rec := BuildRecord(upload.ID, upload.Filename, res, meta, time.Now())

	if err := p.store.UpsertRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store record: %w", err)
	}

	if err := p.index.Upsert(ctx, rec.ID, rec); err != nil {
		return nil, fmt.Errorf("failed to index record: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.InvalidateSearch(ctx); err != nil {
			logger.Warn("failed to invalidate search cache", zap.Error(err))
		}
	}

	metrics.DocumentsIngested.Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	logger.Info("document ingested",
		zap.String("id", rec.ID),
		zap.String("doc_type", rec.DocType),
		zap.String("reference", rec.Reference),
		zap.Int("body_bytes", len(rec.Body)),
	)

	return rec, nil
}
