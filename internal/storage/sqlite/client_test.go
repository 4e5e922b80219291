package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/backend/internal/metadata"
	"github.com/docvault/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	require.NoError(t, c.InitSchema())
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleRecord() *models.SearchableRecord {
	return &models.SearchableRecord{
		ID:           "searchable:report-pdf",
		DocType:      "application/pdf",
		Body:         "quarterly revenue grew strongly",
		Reference:    "report.pdf",
		RegisteredAt: time.Unix(1700000000, 0),
		Thumbnail:    models.ThumbnailPlaceholder,
		Metadata: metadata.CanonicalMetadata{
			Author:        "Jane Doe",
			CreatedAt:     "2023-01-02T03:04:05Z",
			LastUpdatedAt: "2023-06-07T08:09:10Z",
			LastUpdatedBy: "John Smith",
			Keywords:      []string{"alpha", "beta"},
			Others: map[string]metadata.Value{
				"dc:title":            metadata.Text("Quarterly Report"),
				"pdf:docinfo:creator": metadata.Text("Jane Doe"),
				"meta:keyword":        metadata.List([]string{"alpha", "beta"}),
			},
		},
	}
}

func TestUpsertAndGetRecord(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	want := sampleRecord()
	require.NoError(t, c.UpsertRecord(ctx, want))

	got, err := c.GetRecord(ctx, want.ID)

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.DocType, got.DocType)
	assert.Equal(t, want.Body, got.Body)
	assert.Equal(t, want.Reference, got.Reference)
	assert.True(t, want.RegisteredAt.Equal(got.RegisteredAt))
	assert.Equal(t, want.Thumbnail, got.Thumbnail)
	assert.Equal(t, want.Metadata.Author, got.Metadata.Author)
	assert.Equal(t, want.Metadata.CreatedAt, got.Metadata.CreatedAt)
	assert.Equal(t, want.Metadata.LastUpdatedAt, got.Metadata.LastUpdatedAt)
	assert.Equal(t, want.Metadata.LastUpdatedBy, got.Metadata.LastUpdatedBy)
	assert.Equal(t, want.Metadata.Keywords, got.Metadata.Keywords)
	assert.Equal(t, "Quarterly Report", got.Metadata.Others["dc:title"].String())
	assert.Equal(t, []string{"alpha", "beta"}, got.Metadata.Others["meta:keyword"].Strings())
}

func TestUpsertReplacesRow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, c.UpsertRecord(ctx, rec))

	rec.Body = "revised body text"
	rec.Metadata.Author = "New Author"
	rec.Metadata.Keywords = []string{"gamma"}
	require.NoError(t, c.UpsertRecord(ctx, rec))

	got, err := c.GetRecord(ctx, rec.ID)

	require.NoError(t, err)
	assert.Equal(t, "revised body text", got.Body)
	assert.Equal(t, "New Author", got.Metadata.Author)
	assert.Equal(t, []string{"gamma"}, got.Metadata.Keywords)
}

func TestGetRecordNotFound(t *testing.T) {
	c := newTestClient(t)

	rec, err := c.GetRecord(context.Background(), "searchable:nope")

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpsertEmptyOptionalFields(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	rec := &models.SearchableRecord{
		ID:           "searchable:bare-txt",
		DocType:      "text/plain",
		Body:         "just text",
		Reference:    "bare.txt",
		RegisteredAt: time.Unix(1700000000, 0),
		Thumbnail:    models.ThumbnailPlaceholder,
	}
	require.NoError(t, c.UpsertRecord(ctx, rec))

	got, err := c.GetRecord(ctx, rec.ID)

	require.NoError(t, err)
	assert.Empty(t, got.Metadata.Author)
	assert.Empty(t, got.Metadata.Keywords)
	assert.Empty(t, got.Metadata.Others)
}
