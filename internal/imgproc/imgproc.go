package imgproc

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Codec decodes uploads, extracts their embedded tag dictionary, and derives
// bounded-size thumbnails. It is the concrete implementation of the image
// capability the ingestion pipeline depends on.
type Codec struct {
	maxWidth  int
	maxHeight int
}

// NewCodec builds a codec whose thumbnails fit within maxWidth x maxHeight.
func NewCodec(maxWidth, maxHeight int) *Codec {
	return &Codec{maxWidth: maxWidth, maxHeight: maxHeight}
}

// Decode parses raw bytes as an image and reports the detected format
// (jpeg, png, gif).
func (c *Codec) Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// ExtractTags returns the embedded EXIF tags as a name -> stringified value
// dictionary. Images without EXIF data yield an empty map; absence of tags is
// not an error.
func (c *Codec) ExtractTags(data []byte) map[string]string {
	tags := make(map[string]string)

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return tags
	}

	_ = x.Walk(tagCollector(tags))
	return tags
}

type tagCollector map[string]string

func (t tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	t[string(name)] = stringifyTag(tag)
	return nil
}

func stringifyTag(tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			return s
		}
	case tiff.RatVal:
		if num, den, err := tag.Rat2(0); err == nil {
			return fmt.Sprintf("%d/%d", num, den)
		}
	case tiff.IntVal:
		if v, err := tag.Int(0); err == nil {
			return strconv.Itoa(v)
		}
	case tiff.FloatVal:
		if v, err := tag.Float(0); err == nil {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return strings.Trim(tag.String(), `"`)
}

// Thumbnail scales img down to fit the configured bounds preserving aspect
// ratio and re-encodes it in the given source format. Images already within
// bounds are re-encoded unscaled.
func (c *Codec) Thumbnail(img image.Image, format string) ([]byte, error) {
	encFormat, err := encodingFormat(format)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, c.maxWidth, c.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, encFormat); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func encodingFormat(format string) (imaging.Format, error) {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return imaging.JPEG, nil
	case "png":
		return imaging.PNG, nil
	case "gif":
		return imaging.GIF, nil
	default:
		return 0, fmt.Errorf("unsupported thumbnail format %q", format)
	}
}
