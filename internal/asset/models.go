package asset

import (
	"time"

	"github.com/google/uuid"
)

// SupportedExtensions lists the upload extensions the pipeline accepts,
// matched case-insensitively.
var SupportedExtensions = []string{"jpg", "jpeg", "png", "gif"}

// Record is one catalog row: asset identity plus its normalized capture
// metadata. Pointer fields stay nil when the source image carried no value,
// so "no data" never collapses into a zero.
type Record struct {
	ID               uuid.UUID         `json:"uuid"`
	Filename         string            `json:"filename"`
	Make             *string           `json:"Make"`
	Model            *string           `json:"Model"`
	DateTimeOriginal *int64            `json:"DateTimeOriginal"`
	ExposureTime     *float64          `json:"ExposureTime"`
	FNumber          *float64          `json:"FNumber"`
	ISOSpeedRatings  *int              `json:"ISOSpeedRatings"`
	FocalLength35mm  *int              `json:"FocalLengthIn35mmFilm"`
	LensModel        *string           `json:"LensModel"`
	ExposureBias     *float64          `json:"ExposureBiasValue"`
	Software         *string           `json:"Software"`
	ExifAll          map[string]string `json:"exif_all"`
	CreatedAt        time.Time         `json:"created_at"`
}

// DefaultSortColumn is used when the requested sort key is not on the
// allow-list.
const DefaultSortColumn = "DateTimeOriginal"

// Columns is the fixed allow-list of requestable column names, in catalog
// order. Projection and sort requests are validated against it before any
// query text is built.
var Columns = []string{
	"uuid",
	"filename",
	"Make",
	"Model",
	"DateTimeOriginal",
	"ExposureTime",
	"FNumber",
	"ISOSpeedRatings",
	"FocalLengthIn35mmFilm",
	"LensModel",
	"ExposureBiasValue",
	"Software",
	"exif_all",
	"created_at",
}

// sortColumns maps allow-listed API names to the SQL identifiers used in
// ORDER BY clauses. Only values from this map ever reach query text.
var sortColumns = map[string]string{
	"uuid":                  "id",
	"filename":              "filename",
	"Make":                  "make",
	"Model":                 "model",
	"DateTimeOriginal":      "date_time_original",
	"ExposureTime":          "exposure_time",
	"FNumber":               "f_number",
	"ISOSpeedRatings":       "iso_speed_ratings",
	"FocalLengthIn35mmFilm": "focal_length_35mm",
	"LensModel":             "lens_model",
	"ExposureBiasValue":     "exposure_bias",
	"Software":              "software",
	"created_at":            "created_at",
}

// SortColumn validates the requested sort key against the allow-list and
// returns the SQL identifier to order by, falling back to the default.
func SortColumn(requested string) string {
	if ident, ok := sortColumns[requested]; ok {
		return ident
	}
	return sortColumns[DefaultSortColumn]
}

// FilterColumns drops requested names that are not on the allow-list. An
// empty result means the full column set.
func FilterColumns(requested []string) []string {
	var cols []string
	for _, name := range requested {
		if _, ok := columnSet[name]; ok {
			cols = append(cols, name)
		}
	}
	return cols
}

var columnSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Columns))
	for _, name := range Columns {
		set[name] = struct{}{}
	}
	return set
}()

// Project renders the record as a column-name -> value map restricted to the
// requested columns. Empty cols selects every column. Absent metadata fields
// project as nil and therefore serialize as JSON null.
func (r Record) Project(cols []string) map[string]any {
	if len(cols) == 0 {
		cols = Columns
	}

	out := make(map[string]any, len(cols))
	for _, name := range cols {
		switch name {
		case "uuid":
			out[name] = r.ID
		case "filename":
			out[name] = r.Filename
		case "Make":
			out[name] = r.Make
		case "Model":
			out[name] = r.Model
		case "DateTimeOriginal":
			out[name] = r.DateTimeOriginal
		case "ExposureTime":
			out[name] = r.ExposureTime
		case "FNumber":
			out[name] = r.FNumber
		case "ISOSpeedRatings":
			out[name] = r.ISOSpeedRatings
		case "FocalLengthIn35mmFilm":
			out[name] = r.FocalLength35mm
		case "LensModel":
			out[name] = r.LensModel
		case "ExposureBiasValue":
			out[name] = r.ExposureBias
		case "Software":
			out[name] = r.Software
		case "exif_all":
			out[name] = r.ExifAll
		case "created_at":
			out[name] = r.CreatedAt
		}
	}
	return out
}
