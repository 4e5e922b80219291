package extraction

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
)

// imageHandler records image dimensions and, for JPEGs, EXIF properties.
// Images carry no extractable text, so the body stays empty.
type imageHandler struct{}

func (h *imageHandler) matches(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}

func (h *imageHandler) parse(data []byte, res *Result) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid %s image: %w", format, err)
	}

	res.Metadata.Set("tiff:ImageWidth", strconv.Itoa(cfg.Width))
	res.Metadata.Set("tiff:ImageLength", strconv.Itoa(cfg.Height))

	// EXIF is best-effort: plenty of valid images carry none.
	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		imageExifProperties(x, res)
	}

	return nil
}

func imageExifProperties(x *exif.Exif, res *Result) {
	if tag, err := x.Get(exif.Artist); err == nil {
		if artist, err := tag.StringVal(); err == nil && artist != "" {
			res.Metadata.Set("creator", artist)
			res.Metadata.Set("exif:Artist", artist)
		}
	}
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if taken, err := tag.StringVal(); err == nil && taken != "" {
			res.Metadata.Set("Creation-Date", taken)
			res.Metadata.Set("exif:DateTimeOriginal", taken)
		}
	}
	if tag, err := x.Get(exif.Make); err == nil {
		if mk, err := tag.StringVal(); err == nil && mk != "" {
			res.Metadata.Set("tiff:Make", mk)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil && model != "" {
			res.Metadata.Set("tiff:Model", model)
		}
	}
	if tag, err := x.Get(exif.Software); err == nil {
		if sw, err := tag.StringVal(); err == nil && sw != "" {
			res.Metadata.Set("xmp:CreatorTool", sw)
		}
	}
}
