package asset

import (
	"strconv"
	"strings"
	"time"
)

// exifTimestampLayout is the fixed EXIF DateTimeOriginal format.
const exifTimestampLayout = "2006:01:02 15:04:05"

// Metadata holds the ten typed capture-metadata fields promoted from the raw
// tag dictionary, plus the full dictionary itself. Every field is optional.
type Metadata struct {
	Make             *string
	Model            *string
	DateTimeOriginal *int64
	ExposureTime     *float64
	FNumber          *float64
	ISOSpeedRatings  *int
	FocalLength35mm  *int
	LensModel        *string
	ExposureBias     *float64
	Software         *string
	Raw              map[string]string
}

// Normalize converts a raw tag dictionary into a typed metadata record. It is
// pure and fail-soft: a missing or unparsable value leaves the corresponding
// field nil, never aborts. A nil dictionary yields all-absent fields and an
// empty raw map.
func Normalize(tags map[string]string) Metadata {
	if tags == nil {
		tags = map[string]string{}
	}

	return Metadata{
		Make:             stringField(tags, "Make"),
		Model:            stringField(tags, "Model"),
		DateTimeOriginal: timestampField(tags, "DateTimeOriginal"),
		ExposureTime:     floatField(tags, "ExposureTime"),
		FNumber:          floatField(tags, "FNumber"),
		ISOSpeedRatings:  intField(tags, "ISOSpeedRatings"),
		FocalLength35mm:  intField(tags, "FocalLengthIn35mmFilm"),
		LensModel:        stringField(tags, "LensModel"),
		ExposureBias:     floatField(tags, "ExposureBiasValue"),
		Software:         stringField(tags, "Software"),
		Raw:              tags,
	}
}

func stringField(tags map[string]string, key string) *string {
	val, ok := tags[key]
	if !ok {
		return nil
	}
	return &val
}

// timestampField parses the EXIF local-time string as UTC epoch seconds.
func timestampField(tags map[string]string, key string) *int64 {
	val, ok := tags[key]
	if !ok {
		return nil
	}
	ts, err := time.Parse(exifTimestampLayout, val)
	if err != nil {
		return nil
	}
	epoch := ts.Unix()
	return &epoch
}

// floatField accepts both decimal ("0.005") and rational ("1/200") forms.
func floatField(tags map[string]string, key string) *float64 {
	val, ok := tags[key]
	if !ok {
		return nil
	}
	f, ok := parseRatio(val)
	if !ok {
		return nil
	}
	return &f
}

func intField(tags map[string]string, key string) *int {
	val, ok := tags[key]
	if !ok {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
		return &n
	}
	if f, ok := parseRatio(val); ok {
		n := int(f)
		return &n
	}
	return nil
}

func parseRatio(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	if num, den, found := strings.Cut(val, "/"); found {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
