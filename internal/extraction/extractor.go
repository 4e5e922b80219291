package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/metadata"
	"github.com/docvault/backend/pkg/logger"
)

// ErrUnsupportedFormat reports that the input bytes were detected as a format
// no handler can parse.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Result is the transient output of one extraction: plain text, the detected
// format string (possibly carrying parameters such as "; charset=utf-8"), and
// the raw, format-specific metadata bag.
type Result struct {
	Body     string
	Format   string
	Metadata *metadata.RawMetadata
}

// Extractor turns an uploaded byte stream into a Result. Any parse or read
// failure is fatal for the upload; no partial result is ever returned.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (*Result, error)
}

// handler parses one family of formats. data is the full input; the handler
// fills body text and raw metadata keys under their conventional names.
type handler interface {
	matches(mime string) bool
	parse(data []byte, res *Result) error
}

// Sniffer is the default Extractor: it detects the format from the bytes
// themselves (callers supply no content-type hint) and dispatches to the
// matching format handler. Stateless and safe for concurrent use.
type Sniffer struct {
	handlers []handler
}

func NewSniffer() *Sniffer {
	return &Sniffer{
		handlers: []handler{
			&pdfHandler{},
			&docxHandler{},
			&htmlHandler{},
			&imageHandler{},
			&plaintextHandler{},
		},
	}
}

func (s *Sniffer) Extract(ctx context.Context, r io.Reader) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload stream: %w", err)
	}

	detected := mimetype.Detect(data)
	format := detected.String()
	mime := baseMIME(format)

	res := &Result{
		Format:   format,
		Metadata: metadata.NewRawMetadata(),
	}
	res.Metadata.Set("Content-Type", format)

	for _, h := range s.handlers {
		if !h.matches(mime) {
			continue
		}
		if err := h.parse(data, res); err != nil {
			return nil, fmt.Errorf("failed to parse %s content: %w", mime, err)
		}
		logger.Debug("content extracted",
			zap.String("format", format),
			zap.Int("body_bytes", len(res.Body)),
			zap.Int("metadata_keys", res.Metadata.Len()),
		)
		return res, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
}

// baseMIME strips parameters such as "; charset=utf-8".
func baseMIME(format string) string {
	return strings.TrimSpace(strings.SplitN(format, ";", 2)[0])
}
