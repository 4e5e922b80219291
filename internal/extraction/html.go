package extraction

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// htmlHandler extracts visible text and <meta> properties from HTML pages.
type htmlHandler struct{}

func (h *htmlHandler) matches(mime string) bool {
	return mime == "text/html" || mime == "application/xhtml+xml"
}

func (h *htmlHandler) parse(data []byte, res *Result) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return err
	}

	doc.Find("script, style, nav, footer, header, aside").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	text := doc.Find("body").Text()
	res.Body = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		res.Metadata.Set("dc:title", title)
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		if name == "" || content == "" {
			return
		}
		switch strings.ToLower(name) {
		case "author":
			res.Metadata.Add("creator", content)
		case "keywords":
			for _, kw := range strings.Split(content, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					res.Metadata.Add("Keywords", kw)
				}
			}
		case "description":
			res.Metadata.Set("dc:description", content)
		default:
			res.Metadata.Add(name, content)
		}
	})

	return nil
}
