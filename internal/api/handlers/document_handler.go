package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/archive"
	"github.com/docvault/backend/internal/ingestion"
	"github.com/docvault/backend/internal/storage/models"
	"github.com/docvault/backend/pkg/logger"
)

// RecordReader looks up persisted records by id.
type RecordReader interface {
	GetRecord(ctx context.Context, id string) (*models.SearchableRecord, error)
}

type DocumentHandler struct {
	processor *ingestion.Processor
	reader    RecordReader
	archive   *archive.Store
}

func NewDocumentHandler(processor *ingestion.Processor, reader RecordReader, archiveStore *archive.Store) *DocumentHandler {
	return &DocumentHandler{
		processor: processor,
		reader:    reader,
		archive:   archiveStore,
	}
}

// UploadDocument ingests one multipart file upload. Empty files and
// path-traversal filenames are rejected here, before the pipeline runs.
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A file upload is required",
		})
	}

	filename := fileHeader.Filename
	if strings.Contains(filename, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot store file with relative path outside current directory",
		})
	}
	if fileHeader.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot store empty file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("failed to open upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("failed to read upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}

	rec, err := h.processor.Ingest(c.Context(), ingestion.Upload{
		ID:       ingestion.DeriveUploadID(filename),
		Filename: filename,
		Content:  bytes.NewReader(data),
	})
	if err != nil {
		logger.Error("failed to ingest document", zap.String("filename", filename), zap.Error(err))
		if errors.Is(err, ingestion.ErrExtraction) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Failed to extract content from upload",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to persist document",
		})
	}

	if h.archive != nil {
		if err := h.archive.Save(filename, data); err != nil {
			logger.Warn("failed to archive upload", zap.String("filename", filename), zap.Error(err))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetDocument returns a persisted record by id, 404 when it does not exist.
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	docID := c.Params("docId")
	if docID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document id is required",
		})
	}

	rec, err := h.reader.GetRecord(c.Context(), docID)
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}
	if err != nil {
		logger.Error("failed to load document", zap.String("id", docID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load document",
		})
	}

	return c.JSON(rec)
}
