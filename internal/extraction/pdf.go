package extraction

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfHandler extracts plain text and document-information metadata from PDF
// files. The parser panics on some malformed inputs, so parse converts panics
// into ordinary extraction errors.
type pdfHandler struct{}

func (h *pdfHandler) matches(mime string) bool {
	return mime == "application/pdf"
}

func (h *pdfHandler) parse(data []byte, res *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt pdf input: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("invalid pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return fmt.Errorf("failed to extract pdf text: %w", err)
	}
	body, err := io.ReadAll(textReader)
	if err != nil {
		return fmt.Errorf("failed to read pdf text: %w", err)
	}
	res.Body = strings.TrimSpace(string(body))

	info := reader.Trailer().Key("Info")
	if info.Kind() == pdf.Dict {
		pdfInfoProperties(info, res)
	}

	return nil
}

// pdfInfoProperties reports the document-information dictionary under the key
// spellings PDF tooling uses. Date values stay in their native
// "D:YYYYMMDDHHmmSS" form.
func pdfInfoProperties(info pdf.Value, res *Result) {
	if author := info.Key("Author").Text(); author != "" {
		res.Metadata.Set("creator", author)
		res.Metadata.Set("meta:author", author)
		res.Metadata.Set("pdf:docinfo:creator", author)
		res.Metadata.Set("dc:creator", author)
	}
	if producer := info.Key("Producer").Text(); producer != "" {
		res.Metadata.Set("pdf:docinfo:producer", producer)
	}
	if creatorTool := info.Key("Creator").Text(); creatorTool != "" {
		res.Metadata.Set("pdf:docinfo:creator_tool", creatorTool)
		res.Metadata.Set("xmp:CreatorTool", creatorTool)
	}
	if created := info.Key("CreationDate").Text(); created != "" {
		res.Metadata.Set("Creation-Date", created)
		res.Metadata.Set("meta:creation-date", created)
		res.Metadata.Set("dcterms:created", created)
		res.Metadata.Set("pdf:docinfo:created", created)
	}
	if modified := info.Key("ModDate").Text(); modified != "" {
		res.Metadata.Set("dcterms:modified", modified)
		res.Metadata.Set("Last-Modified", modified)
	}
	if title := info.Key("Title").Text(); title != "" {
		res.Metadata.Set("dc:title", title)
		res.Metadata.Set("pdf:docinfo:title", title)
	}
	if subject := info.Key("Subject").Text(); subject != "" {
		res.Metadata.Set("cp:subject", subject)
		res.Metadata.Set("pdf:docinfo:subject", subject)
	}
	if keywords := info.Key("Keywords").Text(); keywords != "" {
		res.Metadata.Set("pdf:docinfo:keywords", keywords)
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				res.Metadata.Add("Keywords", kw)
				res.Metadata.Add("meta:keyword", kw)
			}
		}
	}
}
