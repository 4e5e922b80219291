package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFirstMatchWins(t *testing.T) {
	raw := NewRawMetadata()
	raw.Set("dc:creator", "B")
	raw.Set("creator", "A")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	assert.Equal(t, "A", meta.Author)
}

func TestNormalizeLowerPriorityCandidate(t *testing.T) {
	raw := NewRawMetadata()
	raw.Set("pdf:docinfo:producer", "GNU Ghostscript 7.05")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	assert.Equal(t, "GNU Ghostscript 7.05", meta.Author)
}

func TestNormalizeAbsenceIsNotAnError(t *testing.T) {
	raw := NewRawMetadata()
	raw.Set("unrelated-key", "value")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	assert.Empty(t, meta.Author)
	assert.Empty(t, meta.CreatedAt)
	assert.Empty(t, meta.LastUpdatedAt)
	assert.Empty(t, meta.LastUpdatedBy)
	assert.Empty(t, meta.Keywords)
}

func TestNormalizeKeywordsKeepFirstCandidateList(t *testing.T) {
	raw := NewRawMetadata()
	raw.Add("Keywords", "alpha")
	raw.Add("Keywords", "beta")
	raw.Add("meta:keyword", "gamma")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	// Values are not merged across candidate keys.
	assert.Equal(t, []string{"alpha", "beta"}, meta.Keywords)
}

func TestNormalizeKeywordsFallThrough(t *testing.T) {
	raw := NewRawMetadata()
	raw.Add("meta:keyword", "gamma")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	assert.Equal(t, []string{"gamma"}, meta.Keywords)
}

func TestNormalizeOverflowKeepsSynonymKeys(t *testing.T) {
	raw := NewRawMetadata()
	raw.Set("creator", "Jane")
	raw.Set("custom-field", "x")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	require.Equal(t, "Jane", meta.Author)

	// The raw synonym key that fed the author field stays in the overflow
	// map; only the canonical output names are excluded.
	got, ok := meta.Others["creator"]
	require.True(t, ok)
	assert.Equal(t, "Jane", got.String())

	got, ok = meta.Others["custom-field"]
	require.True(t, ok)
	assert.Equal(t, "x", got.String())
}

func TestNormalizeOverflowExcludesCanonicalNames(t *testing.T) {
	raw := NewRawMetadata()
	raw.Set("author", "shadow")
	raw.Set("keywords", "shadow")
	raw.Set("createdAt", "shadow")
	raw.Set("lastUpdatedAt", "shadow")
	raw.Set("lastUpdatedBy", "shadow")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	assert.Empty(t, meta.Others)
}

func TestNormalizeOverflowKeepsMultiValues(t *testing.T) {
	raw := NewRawMetadata()
	raw.Add("X-Parsed-By", "DefaultParser")
	raw.Add("X-Parsed-By", "PDFParser")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	got, ok := meta.Others["X-Parsed-By"]
	require.True(t, ok)
	assert.True(t, got.IsList())
	assert.Equal(t, []string{"DefaultParser", "PDFParser"}, got.Strings())
}

func TestNormalizerCopiesCandidateTable(t *testing.T) {
	candidates := Candidates{
		FieldAuthor: {"creator"},
	}
	n := NewNormalizer(candidates)

	// Mutating the caller's table after construction has no effect.
	candidates[FieldAuthor][0] = "mutated"

	raw := NewRawMetadata()
	raw.Set("creator", "Jane")

	assert.Equal(t, "Jane", n.Normalize(raw).Author)
}

func TestNormalizeRoundTripScenario(t *testing.T) {
	raw := NewRawMetadata()
	raw.Set("creator", "Jane")
	raw.Add("Keywords", "alpha")
	raw.Add("Keywords", "beta")
	raw.Set("custom-field", "x")

	meta := NewNormalizer(DefaultCandidates()).Normalize(raw)

	assert.Equal(t, "Jane", meta.Author)
	assert.Equal(t, []string{"alpha", "beta"}, meta.Keywords)

	got, ok := meta.Others["custom-field"]
	require.True(t, ok)
	assert.Equal(t, "x", got.String())
}
