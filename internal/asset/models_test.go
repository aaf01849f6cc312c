package asset

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortColumnFallsBackForUnknownKeys(t *testing.T) {
	assert.Equal(t, "date_time_original", SortColumn("not_a_column"))
	assert.Equal(t, "date_time_original", SortColumn("assets; DROP TABLE assets"))
	assert.Equal(t, "date_time_original", SortColumn(""))
	assert.Equal(t, "make", SortColumn("Make"))
	assert.Equal(t, "id", SortColumn("uuid"))
}

func TestFilterColumnsDropsUnknownNames(t *testing.T) {
	cols := FilterColumns([]string{"Make", "nope", "filename", "1; SELECT *"})
	assert.Equal(t, []string{"Make", "filename"}, cols)

	assert.Empty(t, FilterColumns([]string{"nope"}))
	assert.Empty(t, FilterColumns(nil))
}

func TestProjectRendersAbsentFieldsAsNull(t *testing.T) {
	rec := Record{
		ID:       uuid.New(),
		Filename: "x.jpg",
		ExifAll:  map[string]string{},
	}

	full := rec.Project(nil)
	require.Len(t, full, len(Columns))

	payload, err := json.Marshal(full)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Nil(t, decoded["Make"])
	assert.Nil(t, decoded["DateTimeOriginal"])
	assert.Nil(t, decoded["ExposureTime"])
	assert.Equal(t, "x.jpg", decoded["filename"])
}

func TestProjectRestrictsToRequestedColumns(t *testing.T) {
	maker := "Acme"
	rec := Record{ID: uuid.New(), Filename: "x.jpg", Make: &maker}

	out := rec.Project([]string{"uuid", "Make"})
	require.Len(t, out, 2)
	assert.Equal(t, rec.ID, out["uuid"])
	assert.Equal(t, &maker, out["Make"])
}
