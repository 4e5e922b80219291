package extraction

import (
	"strings"
)

// plaintextHandler covers text/plain plus the text formats that need no
// structural parsing (csv, markdown, source files detected as text).
type plaintextHandler struct{}

func (h *plaintextHandler) matches(mime string) bool {
	return strings.HasPrefix(mime, "text/") ||
		mime == "application/json" ||
		mime == "application/xml"
}

func (h *plaintextHandler) parse(data []byte, res *Result) error {
	res.Body = strings.TrimSpace(string(data))
	return nil
}
