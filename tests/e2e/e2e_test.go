package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL = os.Getenv("PHOTOVAULT_E2E_BASE_URL")

func requireServer(t *testing.T) {
	t.Helper()
	if baseURL == "" {
		t.Skip("PHOTOVAULT_E2E_BASE_URL not set, skipping e2e")
	}
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	// seed some deterministic noise so every test run uploads unique bytes
	seed := time.Now().UnixNano()
	for x := 0; x < 640; x++ {
		for y := 0; y < 480; y++ {
			img.Set(x, y, color.RGBA{R: uint8((int64(x) + seed) % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func uploadImage(t *testing.T, client *http.Client, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	req, _ := http.NewRequest("POST", baseURL+"/api/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestImageFullWorkflow(t *testing.T) {
	requireServer(t)
	client := &http.Client{Timeout: 30 * time.Second}

	content := testJPEG(t)

	// 1. Upload
	resp := uploadImage(t, client, "e2e.jpg", content)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		UUID     string `json:"uuid"`
		Filename string `json:"filename"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &created))
	resp.Body.Close()
	require.NotEmpty(t, created.UUID)
	assert.Equal(t, created.UUID+".jpg", created.Filename)

	// 2. Re-upload identical bytes -> conflict with the same id
	resp = uploadImage(t, client, "copy.jpg", content)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var conflict struct {
		UUID string `json:"uuid"`
	}
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &conflict))
	resp.Body.Close()
	assert.Equal(t, created.UUID, conflict.UUID)

	// 3. Unsupported extension
	resp = uploadImage(t, client, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	resp.Body.Close()

	// 4. List sorted by an unknown column falls back to the default
	resp, err := client.Get(baseURL + "/api/image?sort=not_a_column")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []map[string]any
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &listed))
	resp.Body.Close()
	assert.NotEmpty(t, listed)

	// 5. Fetch original and thumbnail bytes
	for _, query := range []string{"", "?thumbnail=true"} {
		resp, err = client.Get(fmt.Sprintf("%s/api/image/%s%s", baseURL, created.UUID, query))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.NotEmpty(t, data)
	}

	// 6. Annotate: full replace, then partial update
	annBody, _ := json.Marshal(map[string]string{"title": "Sunset", "description": "over the bay"})
	req, _ := http.NewRequest("PUT", fmt.Sprintf("%s/api/image/%s/info", baseURL, created.UUID), bytes.NewReader(annBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	patchBody, _ := json.Marshal(map[string]string{"title": "Sunrise"})
	req, _ = http.NewRequest("POST", fmt.Sprintf("%s/api/image/%s/info", baseURL, created.UUID), bytes.NewReader(patchBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var patched struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &patched))
	resp.Body.Close()
	require.NotNil(t, patched.Title)
	assert.Equal(t, "Sunrise", *patched.Title)
	require.NotNil(t, patched.Description)
	assert.Equal(t, "over the bay", *patched.Description)

	// 7. Delete, then verify everything is gone
	req, _ = http.NewRequest("DELETE", fmt.Sprintf("%s/api/image/%s", baseURL, created.UUID), nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(fmt.Sprintf("%s/api/image/%s", baseURL, created.UUID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(fmt.Sprintf("%s/api/image/%s/info", baseURL, created.UUID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// deleting the hash entry means the same bytes can be uploaded again
	resp = uploadImage(t, client, "again.jpg", content)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var again struct {
		UUID string `json:"uuid"`
	}
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &again))
	resp.Body.Close()

	req, _ = http.NewRequest("DELETE", fmt.Sprintf("%s/api/image/%s", baseURL, again.UUID), nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
}
