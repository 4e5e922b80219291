package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxHandler extracts body text from word/document.xml and document
// properties from docProps/core.xml of OOXML word documents. Property values
// are reported under the key spellings office tooling uses, so the same
// property can appear under several synonym keys.
type docxHandler struct{}

func (h *docxHandler) matches(mime string) bool {
	return mime == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (h *docxHandler) parse(data []byte, res *Result) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("invalid docx archive: %w", err)
	}

	body, err := readArchiveFile(reader, "word/document.xml")
	if err != nil {
		return err
	}
	if body == nil {
		return fmt.Errorf("docx archive has no word/document.xml")
	}
	text, err := docxBodyText(body)
	if err != nil {
		return err
	}
	res.Body = text

	core, err := readArchiveFile(reader, "docProps/core.xml")
	if err != nil {
		return err
	}
	if core != nil {
		if err := docxCoreProperties(core, res); err != nil {
			return err
		}
	}

	return nil
}

func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, nil
}

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func docxBodyText(data []byte) (string, error) {
	var doc docxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("invalid document.xml: %w", err)
	}

	var sb strings.Builder
	for _, p := range doc.Body.Paragraphs {
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

type docxCore struct {
	Creator        string `xml:"creator"`
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Keywords       string `xml:"keywords"`
	Description    string `xml:"description"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Revision       string `xml:"revision"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
}

func docxCoreProperties(data []byte, res *Result) error {
	var core docxCore
	if err := xml.Unmarshal(data, &core); err != nil {
		return fmt.Errorf("invalid core.xml: %w", err)
	}

	if core.Creator != "" {
		res.Metadata.Set("creator", core.Creator)
		res.Metadata.Set("meta:author", core.Creator)
		res.Metadata.Set("dc:creator", core.Creator)
	}
	if core.LastModifiedBy != "" {
		res.Metadata.Set("Last-Author", core.LastModifiedBy)
		res.Metadata.Set("meta:last-author", core.LastModifiedBy)
	}
	if core.Created != "" {
		res.Metadata.Set("Creation-Date", core.Created)
		res.Metadata.Set("meta:creation-date", core.Created)
		res.Metadata.Set("dcterms:created", core.Created)
	}
	if core.Modified != "" {
		res.Metadata.Set("dcterms:modified", core.Modified)
		res.Metadata.Set("Last-Modified", core.Modified)
		res.Metadata.Set("Last-Save-Date", core.Modified)
	}
	if core.Keywords != "" {
		for _, kw := range strings.Split(core.Keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				res.Metadata.Add("Keywords", kw)
				res.Metadata.Add("meta:keyword", kw)
			}
		}
	}
	if core.Title != "" {
		res.Metadata.Set("dc:title", core.Title)
	}
	if core.Subject != "" {
		res.Metadata.Set("dc:subject", core.Subject)
	}
	if core.Description != "" {
		res.Metadata.Set("dc:description", core.Description)
	}
	if core.Revision != "" {
		res.Metadata.Set("cp:revision", core.Revision)
	}

	return nil
}
