package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/storage/models"
	"github.com/docvault/backend/pkg/logger"
)

// Client is the record store: it keeps the extracted text and normalized
// metadata of every ingested upload, never the original bytes.
type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("record store initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS searchable_records (
		id TEXT PRIMARY KEY,
		doc_type TEXT NOT NULL,
		body TEXT NOT NULL,
		reference TEXT NOT NULL,
		registered_at INTEGER NOT NULL,
		thumbnail TEXT,
		author TEXT,
		created_at TEXT,
		last_updated_at TEXT,
		last_updated_by TEXT,
		keywords TEXT,
		others TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_records_doc_type ON searchable_records(doc_type);
	CREATE INDEX IF NOT EXISTS idx_records_registered ON searchable_records(registered_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("record store schema initialized")
	return nil
}

// UpsertRecord writes the record, fully replacing any prior row under the
// same id.
func (c *Client) UpsertRecord(ctx context.Context, rec *models.SearchableRecord) error {
	keywordsJSON, err := json.Marshal(rec.Metadata.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	othersJSON, err := json.Marshal(rec.Metadata.Others)
	if err != nil {
		return fmt.Errorf("failed to marshal overflow metadata: %w", err)
	}

	query := `
		INSERT INTO searchable_records (id, doc_type, body, reference, registered_at,
			thumbnail, author, created_at, last_updated_at, last_updated_by, keywords, others)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_type = excluded.doc_type,
			body = excluded.body,
			reference = excluded.reference,
			registered_at = excluded.registered_at,
			thumbnail = excluded.thumbnail,
			author = excluded.author,
			created_at = excluded.created_at,
			last_updated_at = excluded.last_updated_at,
			last_updated_by = excluded.last_updated_by,
			keywords = excluded.keywords,
			others = excluded.others
	`

	_, err = c.db.ExecContext(ctx, query,
		rec.ID,
		rec.DocType,
		rec.Body,
		rec.Reference,
		rec.RegisteredAt.Unix(),
		rec.Thumbnail,
		rec.Metadata.Author,
		rec.Metadata.CreatedAt,
		rec.Metadata.LastUpdatedAt,
		rec.Metadata.LastUpdatedBy,
		string(keywordsJSON),
		string(othersJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}

	logger.Debug("record upserted", zap.String("id", rec.ID), zap.String("doc_type", rec.DocType))
	return nil
}

// GetRecord returns the record under id, or models.ErrNotFound when no such
// record exists.
func (c *Client) GetRecord(ctx context.Context, id string) (*models.SearchableRecord, error) {
	query := `
		SELECT id, doc_type, body, reference, registered_at, thumbnail,
			author, created_at, last_updated_at, last_updated_by, keywords, others
		FROM searchable_records WHERE id = ?
	`

	var rec models.SearchableRecord
	var registeredAt int64
	var keywordsJSON, othersJSON string

	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.DocType,
		&rec.Body,
		&rec.Reference,
		&registeredAt,
		&rec.Thumbnail,
		&rec.Metadata.Author,
		&rec.Metadata.CreatedAt,
		&rec.Metadata.LastUpdatedAt,
		&rec.Metadata.LastUpdatedBy,
		&keywordsJSON,
		&othersJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	rec.RegisteredAt = time.Unix(registeredAt, 0)
	if err := json.Unmarshal([]byte(keywordsJSON), &rec.Metadata.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(othersJSON), &rec.Metadata.Others); err != nil {
		return nil, fmt.Errorf("failed to unmarshal overflow metadata: %w", err)
	}

	return &rec, nil
}
