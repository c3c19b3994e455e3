package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	storedNamePattern := regexp.MustCompile(`^[0-9a-f]{32}\.png$`)

	t.Run("StoresPngUnderRandomName", func(t *testing.T) {
		dest := t.TempDir()
		handler := NewUploadHandler(dest, 5*1024*1024, slog.Default())

		content := []byte("fake png bytes")
		body, contentType := multipartBody(t, "file", "photo.png", content)
		req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.UploadImage(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp UploadedFile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Regexp(t, storedNamePattern, resp.Filename)
		assert.Equal(t, "photo.png", resp.OriginalName)
		assert.Equal(t, int64(len(content)), resp.Size)

		stored, err := os.Open(filepath.Join(dest, resp.Filename))
		require.NoError(t, err)
		defer stored.Close()
		data, err := io.ReadAll(stored)
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("RejectsDisallowedExtension", func(t *testing.T) {
		dest := t.TempDir()
		handler := NewUploadHandler(dest, 5*1024*1024, slog.Default())

		body, contentType := multipartBody(t, "file", "photo.bmp", []byte("bmp bytes"))
		req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.UploadImage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Nothing was written to disk.
		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("ExtensionCheckIsCaseInsensitive", func(t *testing.T) {
		dest := t.TempDir()
		handler := NewUploadHandler(dest, 5*1024*1024, slog.Default())

		body, contentType := multipartBody(t, "file", "PHOTO.PNG", []byte("png bytes"))
		req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.UploadImage(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("RejectsOversizedFile", func(t *testing.T) {
		dest := t.TempDir()
		handler := NewUploadHandler(dest, 16, slog.Default())

		body, contentType := multipartBody(t, "file", "photo.png", bytes.Repeat([]byte("x"), 10*1024))
		req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.UploadImage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingFileField", func(t *testing.T) {
		dest := t.TempDir()
		handler := NewUploadHandler(dest, 5*1024*1024, slog.Default())

		body, contentType := multipartBody(t, "wrong_field", "photo.png", []byte("png bytes"))
		req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.UploadImage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
