package extraction

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	s := NewSniffer()

	res, err := s.Extract(context.Background(), strings.NewReader("hello search world\n"))

	require.NoError(t, err)
	assert.Equal(t, "hello search world", res.Body)
	assert.True(t, strings.HasPrefix(res.Format, "text/plain"))
	assert.Equal(t, res.Format, res.Metadata.Get("Content-Type"))
}

func TestExtractHTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
	<title>Quarterly Report</title>
	<meta name="author" content="Jane Doe">
	<meta name="keywords" content="finance, quarterly">
	<script>var hidden = true;</script>
</head>
<body>
	<nav>skip me</nav>
	<p>Revenue grew strongly.</p>
</body>
</html>`

	s := NewSniffer()
	res, err := s.Extract(context.Background(), strings.NewReader(page))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Format, "text/html"))
	assert.Contains(t, res.Body, "Revenue grew strongly.")
	assert.NotContains(t, res.Body, "hidden")
	assert.NotContains(t, res.Body, "skip me")
	assert.Equal(t, "Quarterly Report", res.Metadata.Get("dc:title"))
	assert.Equal(t, "Jane Doe", res.Metadata.Get("creator"))
	assert.Equal(t, []string{"finance", "quarterly"}, res.Metadata.Values("Keywords"))
}

func TestExtractPNGImage(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	require.NoError(t, png.Encode(&buf, img))

	s := NewSniffer()
	res, err := s.Extract(context.Background(), &buf)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Format, "image/png"))
	assert.Empty(t, res.Body)
	assert.Equal(t, "3", res.Metadata.Get("tiff:ImageWidth"))
	assert.Equal(t, "2", res.Metadata.Get("tiff:ImageLength"))
}

func TestExtractUnsupportedFormat(t *testing.T) {
	// A bare ELF header sniffs as an executable, which no handler covers.
	data := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 56)...)

	s := NewSniffer()
	res, err := s.Extract(context.Background(), bytes.NewReader(data))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSniffer()
	_, err := s.Extract(ctx, strings.NewReader("hello"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

func TestExtractStreamReadFailure(t *testing.T) {
	s := NewSniffer()

	_, err := s.Extract(context.Background(), failingReader{})

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
