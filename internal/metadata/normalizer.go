package metadata

// Canonical field names as they appear in the persisted record. These are the
// output names; raw candidate keys that feed them keep their own spelling.
const (
	FieldAuthor        = "author"
	FieldCreatedAt     = "createdAt"
	FieldLastUpdatedAt = "lastUpdatedAt"
	FieldLastUpdatedBy = "lastUpdatedBy"
	FieldKeywords      = "keywords"
)

// CanonicalMetadata is the normalized view of a document's embedded metadata.
// Timestamps are carried in their source-native representation; no date
// parsing happens here.
type CanonicalMetadata struct {
	Author        string           `json:"author,omitempty"`
	CreatedAt     string           `json:"createdAt,omitempty"`
	LastUpdatedAt string           `json:"lastUpdatedAt,omitempty"`
	LastUpdatedBy string           `json:"lastUpdatedBy,omitempty"`
	Keywords      []string         `json:"keywords,omitempty"`
	Others        map[string]Value `json:"others,omitempty"`
}

// Candidates maps each canonical field to its raw candidate keys in priority
// order. The table is copied on construction and never mutated afterwards, so
// a Normalizer is safe for concurrent use.
type Candidates map[string][]string

// DefaultCandidates returns the standard candidate table covering the office,
// PDF and Dublin Core vocabularies.
func DefaultCandidates() Candidates {
	return Candidates{
		FieldAuthor:        {"creator", "meta:author", "pdf:docinfo:creator", "dc:creator", "Last-Author", "pdf:docinfo:producer"},
		FieldCreatedAt:     {"Creation-Date", "meta:creation-date", "dcterms:created"},
		FieldLastUpdatedAt: {"dcterms:modified", "Last-Modified", "Last-Save-Date", "modified"},
		FieldLastUpdatedBy: {"Last-Author", "meta:last-author"},
		FieldKeywords:      {"Keywords", "meta:keyword"},
	}
}

// Normalizer reconciles format-specific raw metadata into CanonicalMetadata.
type Normalizer struct {
	candidates Candidates
	reserved   map[string]struct{}
}

func NewNormalizer(candidates Candidates) *Normalizer {
	copied := make(Candidates, len(candidates))
	for field, keys := range candidates {
		copied[field] = append([]string(nil), keys...)
	}
	return &Normalizer{
		candidates: copied,
		reserved: map[string]struct{}{
			FieldAuthor:        {},
			FieldCreatedAt:     {},
			FieldLastUpdatedAt: {},
			FieldLastUpdatedBy: {},
			FieldKeywords:      {},
		},
	}
}

// Normalize maps raw metadata into the canonical schema. It never fails:
// fields whose candidates are all absent stay empty. Every raw key except the
// canonical output names is copied into Others, including synonym keys that
// fed a canonical field.
func (n *Normalizer) Normalize(raw *RawMetadata) CanonicalMetadata {
	meta := CanonicalMetadata{
		Author:        n.scalar(FieldAuthor, raw),
		CreatedAt:     n.scalar(FieldCreatedAt, raw),
		LastUpdatedAt: n.scalar(FieldLastUpdatedAt, raw),
		LastUpdatedBy: n.scalar(FieldLastUpdatedBy, raw),
		Keywords:      n.multi(FieldKeywords, raw),
		Others:        make(map[string]Value),
	}

	for _, key := range raw.Keys() {
		if _, ok := n.reserved[key]; ok {
			continue
		}
		meta.Others[key] = List(raw.Values(key))
	}

	return meta
}

// scalar returns the first value of the highest-priority candidate present.
func (n *Normalizer) scalar(field string, raw *RawMetadata) string {
	for _, key := range n.candidates[field] {
		if raw.Has(key) {
			return raw.Get(key)
		}
	}
	return ""
}

// multi returns the full value list of the first matching candidate. Values
// are not merged across candidates.
func (n *Normalizer) multi(field string, raw *RawMetadata) []string {
	for _, key := range n.candidates[field] {
		if vals := raw.Values(key); len(vals) > 0 {
			return append([]string(nil), vals...)
		}
	}
	return nil
}
