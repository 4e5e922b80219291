package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docvault/backend/internal/index"
	"github.com/docvault/backend/internal/metrics"
	"github.com/docvault/backend/internal/storage/models"
	"github.com/docvault/backend/pkg/logger"
)

// DefaultLimit bounds the number of hits per query.
const DefaultLimit = 10

// DefaultProjection mirrors the fields the client-facing hit shape needs.
var DefaultProjection = []string{
	"registeredAt", "reference", "author", "createdAt", "keywords", "thumbnail", "docType",
}

// DefaultHighlight names the fields that return matched-term fragments.
var DefaultHighlight = []string{"body"}

// ResponseCache caches mapped search results keyed by query. Cache failures
// are soft: a broken cache degrades to querying the index directly.
type ResponseCache interface {
	GetSearch(ctx context.Context, query string, result *models.SearchResult) (bool, error)
	SetSearch(ctx context.Context, query string, result *models.SearchResult, ttl time.Duration) error
}

// Service answers free-text queries against the index. Stateless beyond its
// immutable configuration; safe for concurrent queries and concurrent with
// ingestion.
type Service struct {
	gateway  index.Gateway
	cache    ResponseCache
	cacheTTL time.Duration
	limit    int
}

func NewService(gateway index.Gateway, cache ResponseCache, cacheTTL time.Duration, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		gateway:  gateway,
		cache:    cache,
		cacheTTL: cacheTTL,
		limit:    limit,
	}
}

// Search runs one free-text query and maps the raw hits to the client shape.
// Index failures propagate to the caller; an empty result set is reserved for
// zero matches.
func (s *Service) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	start := time.Now()

	if s.cache != nil {
		var cached models.SearchResult
		hit, err := s.cache.GetSearch(ctx, query, &cached)
		if err != nil {
			logger.Warn("search cache lookup failed", zap.Error(err))
			metrics.CacheMisses.Inc()
		} else if hit {
			metrics.CacheHits.Inc()
			return &cached, nil
		} else {
			metrics.CacheMisses.Inc()
		}
	}

	raw, err := s.gateway.Query(ctx, query, index.QueryOptions{
		Limit:            s.limit,
		HighlightFields:  DefaultHighlight,
		ProjectionFields: DefaultProjection,
	})
	if err != nil {
		metrics.SearchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	result := MapResult(raw)

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, query, result, s.cacheTTL); err != nil {
			logger.Warn("search cache store failed", zap.Error(err))
		}
	}

	metrics.SearchTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	logger.Info("search completed",
		zap.String("query", query),
		zap.Uint64("total", result.Total),
		zap.Int("hits", len(result.Hits)),
	)

	return result, nil
}
