package bleve

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/backend/internal/index"
	"github.com/docvault/backend/internal/metadata"
	"github.com/docvault/backend/internal/search"
	"github.com/docvault/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testRecord(id, body string) *models.SearchableRecord {
	return &models.SearchableRecord{
		ID:           id,
		DocType:      "application/pdf",
		Body:         body,
		Reference:    "report.pdf",
		RegisteredAt: time.Unix(1700000000, 0),
		Thumbnail:    models.ThumbnailPlaceholder,
		Metadata: metadata.CanonicalMetadata{
			Author:   "Jane",
			Keywords: []string{"alpha", "beta"},
		},
	}
}

func defaultOptions() index.QueryOptions {
	return index.QueryOptions{
		Limit:            search.DefaultLimit,
		HighlightFields:  search.DefaultHighlight,
		ProjectionFields: search.DefaultProjection,
	}
}

func TestUpsertThenQuery(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := testRecord("searchable:report-pdf", "the quarterly revenue grew strongly")
	require.NoError(t, c.Upsert(ctx, rec.ID, rec))

	res, err := c.Query(ctx, "revenue", defaultOptions())

	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Total)
	require.Len(t, res.Hits, 1)

	hit := res.Hits[0]
	assert.Equal(t, "searchable:report-pdf", hit.ID)
	assert.Greater(t, hit.Score, 0.0)
	assert.Equal(t, "Jane", hit.Fields["author"])
	assert.Equal(t, "report.pdf", hit.Fields["reference"])
	assert.Equal(t, "application/pdf", hit.Fields["docType"])
	assert.Equal(t, models.ThumbnailPlaceholder, hit.Fields["thumbnail"])
	assert.Equal(t, float64(1700000000), hit.Fields["registeredAt"])
}

func TestUpsertReplacesDocument(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := testRecord("searchable:report-pdf", "original wording about volcanoes")
	require.NoError(t, c.Upsert(ctx, rec.ID, rec))

	rec.Body = "revised wording about glaciers"
	require.NoError(t, c.Upsert(ctx, rec.ID, rec))

	old, err := c.Query(ctx, "volcanoes", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), old.Total)

	cur, err := c.Query(ctx, "glaciers", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cur.Total)
	require.Len(t, cur.Hits, 1)
	assert.Equal(t, "searchable:report-pdf", cur.Hits[0].ID)
}

func TestQueryLimitsHitsNotTotal(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("searchable:doc-%02d", i)
		rec := testRecord(id, fmt.Sprintf("shared glacier term in document %d", i))
		require.NoError(t, c.Upsert(ctx, id, rec))
	}

	opts := defaultOptions()
	opts.Limit = 10
	res, err := c.Query(ctx, "glacier", opts)

	require.NoError(t, err)
	assert.Equal(t, uint64(15), res.Total)
	assert.Len(t, res.Hits, 10)
}

func TestQueryHighlightsBody(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := testRecord("searchable:report-pdf", "a detailed analysis of glacier retreat over decades")
	require.NoError(t, c.Upsert(ctx, rec.ID, rec))

	res, err := c.Query(ctx, "glacier", defaultOptions())

	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	frags := res.Hits[0].Fragments["body"]
	require.NotEmpty(t, frags)
	assert.Contains(t, frags[0], "glacier")
}

func TestQueryOverflowMetadataIsSearchable(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := testRecord("searchable:report-pdf", "plain body text")
	rec.Metadata.Others = map[string]metadata.Value{
		"dc:title": metadata.Text("Antarctic Survey"),
	}
	require.NoError(t, c.Upsert(ctx, rec.ID, rec))

	res, err := c.Query(ctx, "antarctic", defaultOptions())

	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Total)
}

func TestSearchRoundTripThroughMapper(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := testRecord("searchable:report-pdf", "glacier retreat accelerates in the south")
	require.NoError(t, c.Upsert(ctx, rec.ID, rec))

	raw, err := c.Query(ctx, "glacier", defaultOptions())
	require.NoError(t, err)

	result := search.MapResult(raw)
	require.Len(t, result.Hits, 1)

	hit := result.Hits[0]
	assert.Equal(t, "searchable:report-pdf", hit.ID)
	assert.Equal(t, "Jane", hit.Author)
	assert.Equal(t, "alpha, beta", hit.Tags)
	assert.Equal(t, models.ThumbnailPlaceholder, hit.Thumbnail)
	assert.Equal(t, int64(1700000000), hit.RegisteredAt)
	assert.Contains(t, hit.Highlight, "glacier")
}

func TestUpsertCancelledContext(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Upsert(ctx, "searchable:x", testRecord("searchable:x", "body"))

	assert.ErrorIs(t, err, context.Canceled)
}
