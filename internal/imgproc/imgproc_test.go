package imgproc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeReportsFormat(t *testing.T) {
	codec := NewCodec(3000, 300)

	_, format, err := codec.Decode(encodePNG(t, testImage(10, 10)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png, got %s", format)
	}

	_, format, err = codec.Decode(encodeJPEG(t, testImage(10, 10)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg, got %s", format)
	}
}

func TestDecodeRejectsNonImages(t *testing.T) {
	codec := NewCodec(3000, 300)

	if _, _, err := codec.Decode([]byte("definitely not an image")); err == nil {
		t.Fatalf("expected error for junk input")
	}
}

func TestThumbnailFitsBoundsPreservingAspect(t *testing.T) {
	codec := NewCodec(300, 30)

	data, err := codec.Thumbnail(testImage(600, 60), "png")
	if err != nil {
		t.Fatalf("Thumbnail returned error: %v", err)
	}

	thumb, format, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "png" {
		t.Fatalf("thumbnail must keep the source format, got %s", format)
	}

	bounds := thumb.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 30 {
		t.Fatalf("expected 300x30, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnailBoundsByShortestSide(t *testing.T) {
	codec := NewCodec(3000, 300)

	// a tall-ish image is limited by the 300px height, not the 3000px width
	data, err := codec.Thumbnail(testImage(600, 600), "jpeg")
	if err != nil {
		t.Fatalf("Thumbnail returned error: %v", err)
	}

	thumb, _, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	bounds := thumb.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 300 {
		t.Fatalf("expected 300x300, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnailKeepsSmallImagesUnscaled(t *testing.T) {
	codec := NewCodec(3000, 300)

	data, err := codec.Thumbnail(testImage(100, 50), "png")
	if err != nil {
		t.Fatalf("Thumbnail returned error: %v", err)
	}

	thumb, _, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	bounds := thumb.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnailRejectsUnknownFormat(t *testing.T) {
	codec := NewCodec(3000, 300)

	if _, err := codec.Thumbnail(testImage(10, 10), "tiff"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestExtractTagsWithoutExifYieldsEmptyMap(t *testing.T) {
	codec := NewCodec(3000, 300)

	tags := codec.ExtractTags(encodePNG(t, testImage(10, 10)))
	if tags == nil {
		t.Fatalf("expected non-nil map")
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}

	tags = codec.ExtractTags(encodeJPEG(t, testImage(10, 10)))
	if len(tags) != 0 {
		t.Fatalf("expected no tags from plain jpeg, got %v", tags)
	}
}
